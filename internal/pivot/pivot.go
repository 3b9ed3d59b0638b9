// Package pivot implements the linear day count shared by every calendar.
//
// A Day is a Julian Day Number: day 0 is 1 January 4713 BC of the proleptic
// Julian calendar. No calendar converts directly into another one; each
// converts to and from a Day.
//
// Years handled here are astronomical: year 0 is 1 BC, year -1 is 2 BC.
package pivot

import (
	"fmt"
	"math"
	"time"

	"github.com/tartampluch/go-historic/internal/calerr"
)

// Day is a Julian Day Number.
type Day int64

// MinDay and MaxDay bound the representable range. They are used as
// sentinels (e.g. a cutover that never happens) and are not convertible.
const (
	MinDay Day = math.MinInt64
	MaxDay Day = math.MaxInt64
)

const (
	// Day numbers of 1 March of year 0 in both systems. Computations are
	// done in years starting in March so that the leap day ends the year.
	gregorianMarch0 = 1721120
	julianMarch0    = 1721118

	daysPer400Years = 146097
	daysPer4Years   = 1461
)

// System is a proleptic solar calendar system.
type System int

const (
	Julian System = iota + 1
	Gregorian
)

func (s System) String() string {
	switch s {
	case Julian:
		return "julian"
	case Gregorian:
		return "gregorian"
	default:
		return fmt.Sprintf("System(%d)", int(s))
	}
}

// IsLeapYear applies the proleptic leap rule of s.
func IsLeapYear(s System, year int) bool {
	if year%4 != 0 {
		return false
	}
	if s == Gregorian {
		return year%100 != 0 || year%400 == 0
	}
	return true
}

// LengthOfMonth returns the number of days of month in year.
func LengthOfMonth(s System, year, month int) (int, error) {
	if month < 1 || month > 12 {
		return 0, calerr.OutOfRange("month", month, "expected 1..12")
	}
	return lengthOfMonth(s, year, month), nil
}

func lengthOfMonth(s System, year, month int) int {
	switch month {
	case 2:
		if IsLeapYear(s, year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

// Validate checks month and day against s.
func Validate(s System, year, month, day int) error {
	n, err := LengthOfMonth(s, year, month)
	if err != nil {
		return err
	}
	if day < 1 || day > n {
		return calerr.OutOfRange("day", day, "%s %d-%02d has %d days", s, year, month, n)
	}
	return nil
}

// ToPivot converts a date of s into its day number.
func ToPivot(s System, year, month, day int) (Day, error) {
	if err := Validate(s, year, month, day); err != nil {
		return 0, err
	}
	return toPivot(s, year, month, day), nil
}

func toPivot(s System, year, month, day int) Day {
	y := int64(year)
	var mp int64
	if month > 2 {
		mp = int64(month - 3)
	} else {
		mp = int64(month + 9)
		y--
	}
	doy := (153*mp+2)/5 + int64(day) - 1

	if s == Gregorian {
		era := FloorDiv(y, 400)
		yoe := y - era*400
		doe := yoe*365 + yoe/4 - yoe/100 + doy
		return Day(era*daysPer400Years + doe + gregorianMarch0)
	}
	era := FloorDiv(y, 4)
	yoe := y - era*4
	doe := yoe*365 + doy
	return Day(era*daysPer4Years + doe + julianMarch0)
}

// FromPivot converts a day number into a date of s.
func FromPivot(s System, d Day) (year, month, day int) {
	var y, doy int64
	if s == Gregorian {
		z := int64(d) - gregorianMarch0
		era := FloorDiv(z, daysPer400Years)
		doe := z - era*daysPer400Years
		yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
		y = yoe + era*400
		doy = doe - (365*yoe + yoe/4 - yoe/100)
	} else {
		z := int64(d) - julianMarch0
		era := FloorDiv(z, daysPer4Years)
		doe := z - era*daysPer4Years
		yoe := (doe - doe/1460) / 365
		y = yoe + era*4
		doy = doe - 365*yoe
	}

	mp := (5*doy + 2) / 153
	dd := doy - (153*mp+2)/5 + 1
	m := mp + 3
	if mp >= 10 {
		m = mp - 9
	}
	if m <= 2 {
		y++
	}
	return int(y), int(m), int(dd)
}

// FromTime returns the day of t's proleptic Gregorian calendar date in t's location.
func FromTime(t time.Time) Day {
	y, m, d := t.Date()
	return toPivot(Gregorian, y, int(m), d)
}

// Time returns midnight UTC of d.
func (d Day) Time() time.Time {
	y, m, dd := FromPivot(Gregorian, d)
	return time.Date(y, time.Month(m), dd, 0, 0, 0, 0, time.UTC)
}

// At returns d at the given clock time in loc.
func (d Day) At(hour, minute int, loc *time.Location) time.Time {
	y, m, dd := FromPivot(Gregorian, d)
	return time.Date(y, time.Month(m), dd, hour, minute, 0, 0, loc)
}

// Plus returns d shifted by n days.
func (d Day) Plus(n int) Day {
	return d + Day(n)
}

// Weekday returns the day of the week of d.
func (d Day) Weekday() time.Weekday {
	return time.Weekday(FloorMod(int64(d)+1, 7))
}

// String renders d as its proleptic Gregorian date.
func (d Day) String() string {
	y, m, dd := FromPivot(Gregorian, d)
	return fmt.Sprintf("%04d-%02d-%02d", y, m, dd)
}

// FloorDiv divides rounding toward negative infinity.
func FloorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// FloorMod is the remainder matching FloorDiv; its sign follows b.
func FloorMod(a, b int64) int64 {
	return a - FloorDiv(a, b)*b
}
