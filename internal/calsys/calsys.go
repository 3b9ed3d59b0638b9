// Package calsys routes dates between calendar systems by id. Every
// conversion goes through the day-count pivot.
package calsys

import (
	"strings"

	"github.com/tartampluch/go-historic/internal/calerr"
	"github.com/tartampluch/go-historic/internal/config"
	"github.com/tartampluch/go-historic/internal/hijri"
	"github.com/tartampluch/go-historic/internal/history"
	"github.com/tartampluch/go-historic/internal/persian"
	"github.com/tartampluch/go-historic/internal/pivot"
)

// Calendar is a calendar system with numeric (year, month, day) fields.
type Calendar interface {
	ID() string
	ToPivot(year, month, day int) (pivot.Day, error)
	FromPivot(d pivot.Day) (year, month, day int, err error)
	LengthOfMonth(year, month int) (int, error)
}

// Router resolves calendar ids:
//
//	gregorian, julian, persian
//	historic:<key>   a historic variant, e.g. historic:en-GB; the id of the
//	                 calendar uses the region code, historic:gb
//	any Hijri variant id, e.g. islamic-umalqura@+1
type Router struct {
	hijri *hijri.Registry
}

// NewRouter returns a router over reg, or over the default Hijri registry
// when reg is nil.
func NewRouter(reg *hijri.Registry) *Router {
	if reg == nil {
		reg = hijri.Default()
	}
	return &Router{hijri: reg}
}

// Lookup resolves an id. Ids are case-insensitive.
func (r *Router) Lookup(id string) (Calendar, error) {
	key := strings.ToLower(strings.TrimSpace(id))
	switch key {
	case config.CalendarGregorian:
		return proleptic{id: key, system: pivot.Gregorian}, nil
	case config.CalendarJulian:
		return proleptic{id: key, system: pivot.Julian}, nil
	case config.CalendarPersian:
		return persianCalendar{}, nil
	}

	if region, ok := strings.CutPrefix(key, config.CalendarHistoricPrefix); ok {
		canonical, err := history.CanonicalKey(region)
		if err != nil {
			return nil, calerr.Unknown(id)
		}
		v, err := history.Lookup(canonical)
		if err != nil {
			return nil, calerr.Unknown(id)
		}
		return historic{id: config.CalendarHistoricPrefix + canonical, variant: v}, nil
	}

	v, err := r.hijri.Lookup(key)
	if err != nil {
		return nil, err
	}
	return hijriCalendar{variant: v}, nil
}

// IDs lists the enumerable calendar ids. Historic ids are open-ended and
// only the named variants are listed.
func (r *Router) IDs() []string {
	ids := []string{config.CalendarGregorian, config.CalendarJulian, config.CalendarPersian}
	for _, key := range []string{
		history.KeyProlepticJulian, history.KeyProlepticGregorian, history.KeyProlepticByzantine,
		history.KeyFirstGregorianReform, history.KeySweden,
	} {
		ids = append(ids, config.CalendarHistoricPrefix+key)
	}
	return append(ids, r.hijri.IDs()...)
}

// Conversion is the result of Convert.
type Conversion struct {
	Pivot pivot.Day
	Year  int
	Month int
	Day   int
}

// Convert moves a date from one calendar to another.
func (r *Router) Convert(fromID, toID string, year, month, day int) (Conversion, error) {
	from, err := r.Lookup(fromID)
	if err != nil {
		return Conversion{}, err
	}
	to, err := r.Lookup(toID)
	if err != nil {
		return Conversion{}, err
	}
	p, err := from.ToPivot(year, month, day)
	if err != nil {
		return Conversion{}, err
	}
	y, m, d, err := to.FromPivot(p)
	if err != nil {
		return Conversion{}, err
	}
	return Conversion{Pivot: p, Year: y, Month: m, Day: d}, nil
}

type proleptic struct {
	id     string
	system pivot.System
}

func (c proleptic) ID() string { return c.id }

func (c proleptic) ToPivot(year, month, day int) (pivot.Day, error) {
	return pivot.ToPivot(c.system, year, month, day)
}

func (c proleptic) FromPivot(d pivot.Day) (int, int, int, error) {
	y, m, dd := pivot.FromPivot(c.system, d)
	return y, m, dd, nil
}

func (c proleptic) LengthOfMonth(year, month int) (int, error) {
	return pivot.LengthOfMonth(c.system, year, month)
}

type persianCalendar struct{}

func (persianCalendar) ID() string { return config.CalendarPersian }

func (persianCalendar) ToPivot(year, month, day int) (pivot.Day, error) {
	return persian.ToPivot(year, persian.Month(month), day)
}

func (persianCalendar) FromPivot(d pivot.Day) (int, int, int, error) {
	date, err := persian.FromPivot(d)
	if err != nil {
		return 0, 0, 0, err
	}
	return date.Year, int(date.Month), date.Day, nil
}

func (persianCalendar) LengthOfMonth(year, month int) (int, error) {
	return persian.LengthOfMonth(year, persian.Month(month))
}

type hijriCalendar struct {
	variant hijri.Variant
}

func (c hijriCalendar) ID() string { return c.variant.ID() }

func (c hijriCalendar) ToPivot(year, month, day int) (pivot.Day, error) {
	return c.variant.ToPivot(year, hijri.Month(month), day)
}

func (c hijriCalendar) FromPivot(d pivot.Day) (int, int, int, error) {
	date, err := c.variant.FromPivot(d)
	if err != nil {
		return 0, 0, 0, err
	}
	return date.Year, int(date.Month), date.Day, nil
}

func (c hijriCalendar) LengthOfMonth(year, month int) (int, error) {
	return c.variant.LengthOfMonth(year, hijri.Month(month))
}

// historic counts astronomical years: year 0 is 1 BC.
type historic struct {
	id      string
	variant *history.Variant
}

func (c historic) ID() string { return c.id }

func (c historic) date(year, month, day int) history.Date {
	if year < 1 {
		return history.Date{Era: history.BC, YearOfEra: history.BC.YearOfEra(year), Month: month, Day: day}
	}
	return history.Date{Era: history.AD, YearOfEra: year, Month: month, Day: day}
}

func (c historic) ToPivot(year, month, day int) (pivot.Day, error) {
	return c.variant.Convert(c.date(year, month, day))
}

func (c historic) FromPivot(d pivot.Day) (int, int, int, error) {
	date, err := c.variant.Date(d)
	if err != nil {
		return 0, 0, 0, err
	}
	return date.Annus(), date.Month, date.Day, nil
}

func (c historic) LengthOfMonth(year, month int) (int, error) {
	date := c.date(year, month, 1)
	return c.variant.LengthOfMonth(date.Era, date.YearOfEra, month)
}

// Variant returns the historic variant behind a historic calendar.
func Variant(c Calendar) (*history.Variant, bool) {
	h, ok := c.(historic)
	if !ok {
		return nil, false
	}
	return h.variant, true
}
