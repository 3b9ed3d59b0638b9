// Package hijri implements the Islamic calendar in its tabular and
// table-driven variants.
//
// A variant is selected by id ("islamic-civil", "islamic-umalqura", ...)
// and every Date carries the id it was computed with, since the same
// (year, month, day) triple names different days in different variants.
package hijri

import (
	"fmt"

	"github.com/tartampluch/go-historic/internal/pivot"
)

// Month is a Hijri month.
type Month int

const (
	Muharram Month = iota + 1
	Safar
	RabiI
	RabiII
	JumadaI
	JumadaII
	Rajab
	Shaban
	Ramadan
	Shawwal
	DhuAlQidah
	DhuAlHijjah
)

var monthNames = [...]string{
	"Muharram", "Safar", "Rabi I", "Rabi II", "Jumada I", "Jumada II",
	"Rajab", "Shaban", "Ramadan", "Shawwal", "Dhu al-Qidah", "Dhu al-Hijjah",
}

func (m Month) String() string {
	if m < Muharram || m > DhuAlHijjah {
		return fmt.Sprintf("Month(%d)", int(m))
	}
	return monthNames[m-1]
}

// Date is a date of one Hijri variant.
type Date struct {
	Variant string
	Year    int
	Month   Month
	Day     int
}

func (d Date) String() string {
	return fmt.Sprintf("AH-%04d-%02d-%02d[%s]", d.Year, int(d.Month), d.Day, d.Variant)
}

// Variant is one rule set of the Hijri calendar. Implementations are
// immutable.
type Variant interface {
	// ID is the key the variant is registered under.
	ID() string
	// LengthOfMonth returns 29 or 30.
	LengthOfMonth(year int, month Month) (int, error)
	ToPivot(year int, month Month, day int) (pivot.Day, error)
	FromPivot(d pivot.Day) (Date, error)
}

// Plus shifts d by days within its variant.
func Plus(v Variant, d Date, days int) (Date, error) {
	p, err := v.ToPivot(d.Year, d.Month, d.Day)
	if err != nil {
		return Date{}, err
	}
	return v.FromPivot(p.Plus(days))
}
