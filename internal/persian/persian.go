// Package persian implements the arithmetic Persian (Solar Hijri) calendar
// with its 33-year leap cycle.
package persian

import (
	"fmt"
	"time"

	"github.com/tartampluch/go-historic/internal/calerr"
	"github.com/tartampluch/go-historic/internal/pivot"
)

// Supported years.
const (
	MinYear = 1
	MaxYear = 9999
)

const (
	// epoch is the day number of 1 Farvardin 1, proleptic Gregorian 622-03-21.
	epoch pivot.Day = 1948320

	cycleYears = 33
	cycleDays  = 12053
)

// leap years of a 33-year cycle, as y mod 33.
var leapRemainders = [...]int{1, 5, 9, 13, 17, 22, 26, 30}

// Month is a Persian month.
type Month int

const (
	Farvardin Month = iota + 1
	Ordibehesht
	Khordad
	Tir
	Mordad
	Shahrivar
	Mehr
	Aban
	Azar
	Dey
	Bahman
	Esfand
)

var monthNames = [...]string{
	"Farvardin", "Ordibehesht", "Khordad", "Tir", "Mordad", "Shahrivar",
	"Mehr", "Aban", "Azar", "Dey", "Bahman", "Esfand",
}

func (m Month) String() string {
	if m < Farvardin || m > Esfand {
		return fmt.Sprintf("Month(%d)", int(m))
	}
	return monthNames[m-1]
}

// Date is a date of the Persian calendar.
type Date struct {
	Year  int
	Month Month
	Day   int
}

// IsLeapYear reports whether Esfand of year has 30 days.
func IsLeapYear(year int) bool {
	r := int(pivot.FloorMod(int64(year), cycleYears))
	for _, l := range leapRemainders {
		if r == l {
			return true
		}
	}
	return false
}

// leapsBefore counts the leap years in [1, year).
func leapsBefore(year int) int64 {
	n := int64(year - 1)
	cycles := pivot.FloorDiv(n, cycleYears)
	r := int(pivot.FloorMod(n, cycleYears))
	count := int64(0)
	for _, l := range leapRemainders {
		if l <= r {
			count++
		}
	}
	return cycles*int64(len(leapRemainders)) + count
}

func yearStart(year int) pivot.Day {
	return epoch + pivot.Day(365*int64(year-1)+leapsBefore(year))
}

// LengthOfMonth returns the number of days of month in year.
func LengthOfMonth(year int, month Month) (int, error) {
	if err := checkYear(year); err != nil {
		return 0, err
	}
	if month < Farvardin || month > Esfand {
		return 0, calerr.OutOfRange("month", int(month), "expected 1..12")
	}
	return lengthOfMonth(year, month), nil
}

func lengthOfMonth(year int, month Month) int {
	switch {
	case month <= Shahrivar:
		return 31
	case month < Esfand:
		return 30
	case IsLeapYear(year):
		return 30
	default:
		return 29
	}
}

// LengthOfYear returns 365 or 366.
func LengthOfYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

func checkYear(year int) error {
	if year < MinYear || year > MaxYear {
		return calerr.OutOfRange("year", year, "expected %d..%d", MinYear, MaxYear)
	}
	return nil
}

// Of validates and returns a date.
func Of(year int, month Month, day int) (Date, error) {
	n, err := LengthOfMonth(year, month)
	if err != nil {
		return Date{}, err
	}
	if day < 1 || day > n {
		return Date{}, calerr.OutOfRange("day", day, "%s %d has %d days", month, year, n)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// ToPivot converts a date into its day number.
func ToPivot(year int, month Month, day int) (pivot.Day, error) {
	d, err := Of(year, month, day)
	if err != nil {
		return 0, err
	}
	return d.pivot(), nil
}

func (d Date) pivot() pivot.Day {
	m := int(d.Month) - 1
	before := 31 * m
	if d.Month > Mehr {
		before = 186 + 30*(m-6)
	}
	return yearStart(d.Year) + pivot.Day(before+d.Day-1)
}

// FromPivot converts a day number into a Persian date.
func FromPivot(p pivot.Day) (Date, error) {
	if p < yearStart(MinYear) || p >= yearStart(MaxYear+1) {
		return Date{}, &calerr.Error{Kind: calerr.FieldOutOfRange, Field: "day", Value: p.String(),
			Reason: fmt.Sprintf("outside Persian years %d..%d", MinYear, MaxYear)}
	}
	year := int(pivot.FloorDiv(cycleYears*int64(p-epoch), cycleDays)) + 1
	for yearStart(year+1) <= p {
		year++
	}
	for yearStart(year) > p {
		year--
	}

	doy := int(p - yearStart(year))
	if doy < 186 {
		return Date{Year: year, Month: Month(doy/31 + 1), Day: doy%31 + 1}, nil
	}
	doy -= 186
	return Date{Year: year, Month: Month(doy/30 + 7), Day: doy%30 + 1}, nil
}

// FromTime returns the Persian date of the calendar date of t.
func FromTime(t time.Time) (Date, error) {
	return FromPivot(pivot.FromTime(t))
}

// Pivot returns the day number of d. d must be valid.
func (d Date) Pivot() pivot.Day {
	return d.pivot()
}

// Plus returns d shifted by days.
func (d Date) Plus(days int) (Date, error) {
	return FromPivot(d.pivot().Plus(days))
}

// AtTime returns d at the given clock time, UTC.
func (d Date) AtTime(hour, minute int) time.Time {
	return d.pivot().At(hour, minute, time.UTC)
}

// IsValid reports whether d exists.
func (d Date) IsValid() bool {
	_, err := Of(d.Year, d.Month, d.Day)
	return err == nil
}

// MonthsBetween counts the complete months from a to b; negative when b
// precedes a.
func MonthsBetween(a, b Date) int {
	months := (b.Year*12 + int(b.Month)) - (a.Year*12 + int(a.Month))
	switch {
	case months > 0 && b.Day < a.Day:
		months--
	case months < 0 && b.Day > a.Day:
		months++
	}
	return months
}

func (d Date) String() string {
	return fmt.Sprintf("AP-%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}
