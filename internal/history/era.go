// Package history models European historic calendars: the Julian to Gregorian
// cutover of a region, its historic eras and the new-year rules that shift the
// counting of years.
//
// Every value of this package is immutable. A *Variant obtained from Lookup or
// from one of the constructors may be shared freely between goroutines.
package history

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/tartampluch/go-historic/internal/calerr"
)

// MaxYearOfEra bounds the year of era of any historic date.
const MaxYearOfEra = 999_999_999

// Era is a historic era. The zero value NoEra stands for a missing era.
type Era int

const (
	NoEra Era = iota
	BC
	AD
	Hispanic
	Byzantine
	AbUrbeCondita
)

var eraKeys = [...]string{
	NoEra:         "",
	BC:            "bc",
	AD:            "ad",
	Hispanic:      "hispanic",
	Byzantine:     "byzantine",
	AbUrbeCondita: "ab-urbe-condita",
}

// Eras lists all eras in declaration order.
var Eras = []Era{BC, AD, Hispanic, Byzantine, AbUrbeCondita}

// Key returns the stable symbolic key of e, used by the locale layer.
func (e Era) Key() string {
	if !e.Valid() {
		return ""
	}
	return eraKeys[e]
}

func (e Era) String() string {
	if !e.Valid() {
		return fmt.Sprintf("Era(%d)", int(e))
	}
	return strings.ToUpper(eraKeys[e])
}

// Valid reports whether e is a real era (NoEra is not).
func (e Era) Valid() bool {
	return e >= BC && e <= AbUrbeCondita
}

// ParseEra maps a symbolic key back to its era.
func ParseEra(key string) (Era, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	for _, e := range Eras {
		if eraKeys[e] == k {
			return e, nil
		}
	}
	return NoEra, calerr.New(calerr.MalformedInput, "era", key, "unknown era key")
}

// Annus converts a year of e into an astronomical year (0 = 1 BC).
// Byzantine years are counted from 1 January.
func (e Era) Annus(yearOfEra int) int {
	switch e {
	case BC:
		return 1 - yearOfEra
	case Hispanic:
		return yearOfEra - 38
	case Byzantine:
		return yearOfEra - 5509
	case AbUrbeCondita:
		return yearOfEra - 753
	default:
		return yearOfEra
	}
}

// YearOfEra is the inverse of Annus. The result may be lower than 1 when the
// astronomical year precedes the epoch of e.
func (e Era) YearOfEra(annus int) int {
	switch e {
	case BC:
		return 1 - annus
	case Hispanic:
		return annus + 38
	case Byzantine:
		return annus + 5509
	case AbUrbeCondita:
		return annus + 753
	default:
		return annus
	}
}

// Date is a historic date. YearOfEra is the standard year (starting on
// 1 January) counted in Era; how a region displayed that year is answered by
// Variant.YearOfEra.
type Date struct {
	Era       Era
	YearOfEra int
	Month     int
	Day       int
}

// NewDate builds a historic date after a basic sanity check of its fields.
// Whether the day exists depends on the variant (see Variant.IsValid).
func NewDate(era Era, yearOfEra, month, day int) (Date, error) {
	d := Date{Era: era, YearOfEra: yearOfEra, Month: month, Day: day}
	if err := d.check(); err != nil {
		return Date{}, err
	}
	return d, nil
}

func (d Date) check() error {
	if !d.Era.Valid() {
		return calerr.New(calerr.MalformedInput, "era", fmt.Sprint(int(d.Era)), "missing era")
	}
	if d.YearOfEra < 1 || d.YearOfEra > MaxYearOfEra {
		return calerr.OutOfRange("year", d.YearOfEra, "expected 1..%d", MaxYearOfEra)
	}
	if d.Month < 1 || d.Month > 12 {
		return calerr.OutOfRange("month", d.Month, "expected 1..12")
	}
	if d.Day < 1 || d.Day > 31 {
		return calerr.OutOfRange("day", d.Day, "expected 1..31")
	}
	return nil
}

// Annus returns the astronomical standard year of d.
func (d Date) Annus() int {
	return d.Era.Annus(d.YearOfEra)
}

// InEra expresses the same day in another era. It fails when the year would
// precede the epoch of e.
func (d Date) InEra(e Era) (Date, bool) {
	yoe := e.YearOfEra(d.Annus())
	if !e.Valid() || yoe < 1 {
		return d, false
	}
	return Date{Era: e, YearOfEra: yoe, Month: d.Month, Day: d.Day}, true
}

func (d Date) String() string {
	return fmt.Sprintf("%s-%04d-%02d-%02d", d.Era, d.YearOfEra, d.Month, d.Day)
}

// ymd is a date in astronomical years, compared field by field.
type ymd struct {
	y, m, d int
}

func (a ymd) compare(b ymd) int {
	if c := cmp.Compare(a.y, b.y); c != 0 {
		return c
	}
	if c := cmp.Compare(a.m, b.m); c != 0 {
		return c
	}
	return cmp.Compare(a.d, b.d)
}
