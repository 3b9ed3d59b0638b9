package hijri

import (
	"fmt"

	"github.com/tartampluch/go-historic/internal/calerr"
	"github.com/tartampluch/go-historic/internal/pivot"
)

// Years supported by the tabular variants.
const (
	MinYear = 1
	MaxYear = 9999
)

const (
	// civilEpoch is 1 Muharram 1 with the Friday epoch, Julian 622-07-16.
	civilEpoch pivot.Day = 1948440
	// astronomicalEpoch is the Thursday epoch one day earlier.
	astronomicalEpoch pivot.Day = 1948439

	cycleYears = 30
	cycleDays  = 10631
)

// Leap years of a 30-year cycle; 30 stands for y mod 30 == 0.
var (
	leapsWest          = [11]int{2, 5, 7, 10, 13, 16, 18, 21, 24, 26, 29}
	leapsEast          = [11]int{2, 5, 7, 10, 13, 15, 18, 21, 24, 26, 29}
	leapsFatimid       = [11]int{2, 5, 8, 10, 13, 16, 19, 21, 24, 27, 29}
	leapsHabashAlHasib = [11]int{2, 5, 8, 11, 13, 16, 19, 21, 24, 27, 30}
)

// tabular is an arithmetic variant: odd months have 30 days, even months
// 29, and Dhu al-Hijjah gains a day in the 11 leap years of each cycle.
type tabular struct {
	id    string
	leaps [11]int
	epoch pivot.Day
}

func (t *tabular) ID() string { return t.id }

func (t *tabular) isLeapYear(year int) bool {
	r := int(pivot.FloorMod(int64(year), cycleYears))
	if r == 0 {
		r = cycleYears
	}
	for _, l := range t.leaps {
		if l == r {
			return true
		}
	}
	return false
}

func (t *tabular) leapsBefore(year int) int64 {
	n := int64(year - 1)
	r := int(pivot.FloorMod(n, cycleYears))
	count := pivot.FloorDiv(n, cycleYears) * int64(len(t.leaps))
	for _, l := range t.leaps {
		if l <= r {
			count++
		}
	}
	return count
}

func (t *tabular) yearStart(year int) pivot.Day {
	return t.epoch + pivot.Day(354*int64(year-1)+t.leapsBefore(year))
}

func (t *tabular) LengthOfMonth(year int, month Month) (int, error) {
	if year < MinYear || year > MaxYear {
		return 0, calerr.OutOfRange("year", year, "expected %d..%d", MinYear, MaxYear)
	}
	if month < Muharram || month > DhuAlHijjah {
		return 0, calerr.OutOfRange("month", int(month), "expected 1..12")
	}
	return t.lengthOfMonth(year, month), nil
}

func (t *tabular) lengthOfMonth(year int, month Month) int {
	if month%2 == 1 || (month == DhuAlHijjah && t.isLeapYear(year)) {
		return 30
	}
	return 29
}

func (t *tabular) ToPivot(year int, month Month, day int) (pivot.Day, error) {
	n, err := t.LengthOfMonth(year, month)
	if err != nil {
		return 0, err
	}
	if day < 1 || day > n {
		return 0, calerr.OutOfRange("day", day, "%s %d has %d days", month, year, n)
	}
	m := int(month)
	return t.yearStart(year) + pivot.Day(29*(m-1)+m/2+day-1), nil
}

func (t *tabular) FromPivot(d pivot.Day) (Date, error) {
	if d < t.yearStart(MinYear) || d >= t.yearStart(MaxYear+1) {
		return Date{}, &calerr.Error{Kind: calerr.FieldOutOfRange, Field: "day", Value: d.String(),
			Reason: fmt.Sprintf("outside %s years %d..%d", t.id, MinYear, MaxYear)}
	}
	year := int(pivot.FloorDiv(cycleYears*int64(d-t.epoch), cycleDays)) + 1
	for t.yearStart(year+1) <= d {
		year++
	}
	for t.yearStart(year) > d {
		year--
	}

	doy := int(d - t.yearStart(year))
	month := Muharram
	for {
		n := t.lengthOfMonth(year, month)
		if doy < n {
			return Date{Variant: t.id, Year: year, Month: month, Day: doy + 1}, nil
		}
		doy -= n
		month++
	}
}
