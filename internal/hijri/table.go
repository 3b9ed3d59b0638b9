package hijri

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/tartampluch/go-historic/internal/calerr"
	"github.com/tartampluch/go-historic/internal/config"
	"github.com/tartampluch/go-historic/internal/pivot"
)

// tableFile is the TOML layout of a month-length table.
type tableFile struct {
	ID        string  `toml:"id"`
	FirstYear int     `toml:"first-year"`
	Start     string  `toml:"start"`
	Months    [][]int `toml:"months"`
}

// table is a variant whose month lengths come from observation data. It
// only covers the years listed in its dataset.
type table struct {
	id        string
	firstYear int
	// starts holds the first day of every month of the table followed by
	// the day after its last month.
	starts []pivot.Day
}

// ParseTable decodes a TOML month-length table.
func ParseTable(data []byte) (Variant, error) {
	var f tableFile
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrHijriTable, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %q", config.ErrHijriTable, undecoded[0].String())
	}
	return newTable(f)
}

func newTable(f tableFile) (*table, error) {
	switch {
	case f.ID == "":
		return nil, fmt.Errorf("%s: missing id", config.ErrHijriTable)
	case strings.Contains(f.ID, config.HijriAdjustmentSep):
		return nil, fmt.Errorf("%s: id %q must not contain %q", config.ErrHijriTable, f.ID, config.HijriAdjustmentSep)
	case f.FirstYear < MinYear:
		return nil, fmt.Errorf("%s: first-year %d below %d", config.ErrHijriTable, f.FirstYear, MinYear)
	case len(f.Months) == 0:
		return nil, fmt.Errorf("%s: no months", config.ErrHijriTable)
	case f.FirstYear+len(f.Months)-1 > MaxYear:
		return nil, fmt.Errorf("%s: years beyond %d", config.ErrHijriTable, MaxYear)
	}

	start, err := time.Parse(time.DateOnly, f.Start)
	if err != nil {
		return nil, fmt.Errorf("%s: start: %w", config.ErrHijriTable, err)
	}

	t := &table{
		id:        strings.ToLower(f.ID),
		firstYear: f.FirstYear,
		starts:    make([]pivot.Day, 0, 12*len(f.Months)+1),
	}
	day := pivot.FromTime(start)
	for i, row := range f.Months {
		if len(row) != 12 {
			return nil, fmt.Errorf("%s: year %d has %d months", config.ErrHijriTable, f.FirstYear+i, len(row))
		}
		for m, n := range row {
			if n != 29 && n != 30 {
				return nil, fmt.Errorf("%s: year %d month %d has %d days", config.ErrHijriTable, f.FirstYear+i, m+1, n)
			}
			t.starts = append(t.starts, day)
			day = day.Plus(n)
		}
	}
	t.starts = append(t.starts, day)
	return t, nil
}

func (t *table) ID() string { return t.id }

func (t *table) lastYear() int { return t.firstYear + (len(t.starts)-1)/12 - 1 }

func (t *table) rangeError(field, value string) error {
	return calerr.New(calerr.VariantRangeExceeded, field, value,
		fmt.Sprintf("%s covers years %d..%d", t.id, t.firstYear, t.lastYear()))
}

// index returns the position of (year, month) in starts.
func (t *table) index(year int, month Month) (int, error) {
	if month < Muharram || month > DhuAlHijjah {
		return 0, calerr.OutOfRange("month", int(month), "expected 1..12")
	}
	if year < t.firstYear || year > t.lastYear() {
		return 0, t.rangeError("year", fmt.Sprint(year))
	}
	return (year-t.firstYear)*12 + int(month) - 1, nil
}

func (t *table) LengthOfMonth(year int, month Month) (int, error) {
	i, err := t.index(year, month)
	if err != nil {
		return 0, err
	}
	return int(t.starts[i+1] - t.starts[i]), nil
}

func (t *table) ToPivot(year int, month Month, day int) (pivot.Day, error) {
	i, err := t.index(year, month)
	if err != nil {
		return 0, err
	}
	n := int(t.starts[i+1] - t.starts[i])
	if day < 1 || day > n {
		return 0, calerr.OutOfRange("day", day, "%s %d has %d days", month, year, n)
	}
	return t.starts[i].Plus(day - 1), nil
}

func (t *table) FromPivot(d pivot.Day) (Date, error) {
	if d < t.starts[0] || d >= t.starts[len(t.starts)-1] {
		return Date{}, t.rangeError("day", d.String())
	}
	// first month starting after d
	i := sort.Search(len(t.starts), func(i int) bool { return t.starts[i] > d }) - 1
	return Date{
		Variant: t.id,
		Year:    t.firstYear + i/12,
		Month:   Month(i%12 + 1),
		Day:     int(d-t.starts[i]) + 1,
	}, nil
}
