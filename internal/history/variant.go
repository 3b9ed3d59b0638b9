package history

import (
	"fmt"

	"github.com/tartampluch/go-historic/internal/calerr"
	"github.com/tartampluch/go-historic/internal/pivot"
)

// Kind tags the shape of a Variant.
type Kind int

const (
	KindProlepticJulian Kind = iota + 1
	KindProlepticGregorian
	KindProlepticByzantine
	KindCutover
	KindSweden
)

func (k Kind) String() string {
	switch k {
	case KindProlepticJulian:
		return "proleptic-julian"
	case KindProlepticGregorian:
		return "proleptic-gregorian"
	case KindProlepticByzantine:
		return "proleptic-byzantine"
	case KindCutover:
		return "cutover"
	case KindSweden:
		return "sweden"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// YearDefinition selects which year number represents a historic date.
type YearDefinition int

const (
	// DualDating prints "1602/03" for the days between 1 January and the
	// historic new year; a single year stands for the standard year.
	DualDating YearDefinition = iota
	// NewYearRuleYear counts years from the historic new year of the region.
	NewYearRuleYear
	// StandardYear counts years from 1 January.
	StandardYear
)

// FirstReform is the first day of the Gregorian calendar, 1582-10-15.
var FirstReform = mustDay(pivot.Gregorian, 1582, 10, 15)

// dayLimit keeps day numbers away from int64 overflow in the civil
// algorithms. It is wider than MaxYearOfEra years.
const dayLimit pivot.Day = 1_000_000_000_000

// event switches the reckoning to algo from start on.
type event struct {
	start pivot.Day
	algo  algorithm
	// at is the first date reckoned by algo and before the last date of the
	// previous reckoning. Dates strictly between them do not exist.
	at     ymd
	before ymd
}

// Variant is an immutable historic calendar: a sequence of reckonings
// separated by events, an era preference and a new-year strategy.
type Variant struct {
	kind    Kind
	initial algorithm
	events  []event
	cutover pivot.Day
	pref    EraPreference
	newYear NewYearStrategy
}

func newVariant(kind Kind, initial algorithm, cutover pivot.Day, starts ...event) *Variant {
	v := &Variant{kind: kind, initial: initial, cutover: cutover}
	prev := initial
	for _, ev := range starts {
		ev.at = ev.algo.fromPivot(ev.start)
		ev.before = prev.fromPivot(ev.start - 1)
		v.events = append(v.events, ev)
		prev = ev.algo
	}
	return v
}

// ProlepticJulian reckons every day in the Julian calendar.
func ProlepticJulian() *Variant {
	return newVariant(KindProlepticJulian, algoJulian, pivot.MaxDay)
}

// ProlepticGregorian reckons every day in the Gregorian calendar.
func ProlepticGregorian() *Variant {
	return newVariant(KindProlepticGregorian, algoGregorian, pivot.MinDay)
}

// ProlepticByzantine is the Julian calendar counted in Anno Mundi with the
// year starting on 1 September.
func ProlepticByzantine() *Variant {
	v := newVariant(KindProlepticByzantine, algoJulian, pivot.MaxDay)
	v.pref = ByzantineBetween(pivot.MinDay, pivot.MaxDay)
	v.newYear = Always(BeginOfSeptember)
	return v
}

// OfGregorianReform returns the variant switching from the Julian to the
// Gregorian calendar at cutover. pivot.MinDay yields ProlepticGregorian and
// pivot.MaxDay ProlepticJulian; other cutovers before FirstReform are
// rejected.
func OfGregorianReform(cutover pivot.Day) (*Variant, error) {
	switch {
	case cutover == pivot.MinDay:
		return ProlepticGregorian(), nil
	case cutover == pivot.MaxDay:
		return ProlepticJulian(), nil
	case cutover < FirstReform || cutover > dayLimit:
		return nil, &calerr.Error{
			Kind:   calerr.FieldOutOfRange,
			Field:  "cutover",
			Value:  cutover.String(),
			Reason: "cutover must not precede " + FirstReform.String(),
		}
	}
	return newVariant(KindCutover, algoJulian, cutover, event{start: cutover, algo: algoGregorian}), nil
}

// FirstGregorianReform switches on 1582-10-15.
func FirstGregorianReform() *Variant {
	v, _ := OfGregorianReform(FirstReform)
	return v
}

// Sweden is the Swedish anomaly: Julian until 1700-02-28, the Swedish
// calendar until 1712-02-30, Julian again and Gregorian from 1753-03-01.
func Sweden() *Variant {
	gregorian := mustDay(pivot.Gregorian, 1753, 3, 1)
	return newVariant(KindSweden, algoJulian, gregorian,
		event{start: mustDay(pivot.Julian, 1700, 3, 1) - 1, algo: algoSwedish},
		event{start: mustDay(pivot.Julian, 1712, 3, 1), algo: algoJulian},
		event{start: gregorian, algo: algoGregorian},
	)
}

func (v *Variant) Kind() Kind { return v.kind }

// Cutover is the first Gregorian day; pivot.MaxDay when there is none.
func (v *Variant) Cutover() pivot.Day { return v.cutover }

func (v *Variant) EraPreference() EraPreference { return v.pref }

func (v *Variant) NewYearStrategy() NewYearStrategy { return v.newYear }

// WithEraPreference returns a copy of v using p.
func (v *Variant) WithEraPreference(p EraPreference) *Variant {
	c := *v
	c.pref = p
	return &c
}

// WithNewYear returns a copy of v using s.
func (v *Variant) WithNewYear(s NewYearStrategy) *Variant {
	c := *v
	c.newYear = s
	return &c
}

// Equal compares kind, cutover, era preference and new-year strategy.
func (v *Variant) Equal(o *Variant) bool {
	if v == nil || o == nil {
		return v == o
	}
	return v.kind == o.kind &&
		v.cutover == o.cutover &&
		v.pref == o.pref &&
		v.newYear.Equal(o.newYear)
}

// Key returns the symbolic key of the calendar, e.g. "sweden" or
// "cutover-1752-09-14".
func (v *Variant) Key() string {
	if v.kind == KindCutover {
		return "cutover-" + v.cutover.String()
	}
	return v.kind.String()
}

func (v *Variant) String() string {
	return fmt.Sprintf("%s:new-year=%s:era-preference=%s", v.Key(), v.newYear, v.pref)
}

// EffectiveSystem returns Julian strictly before the cutover and Gregorian at
// and after it. The Swedish calendar reports Julian.
func (v *Variant) EffectiveSystem(d pivot.Day) pivot.System {
	if d < v.cutover {
		return pivot.Julian
	}
	return pivot.Gregorian
}

func (v *Variant) algorithmAt(d pivot.Day) algorithm {
	for i := len(v.events) - 1; i >= 0; i-- {
		if d >= v.events[i].start {
			return v.events[i].algo
		}
	}
	return v.initial
}

func (v *Variant) algorithmFor(t ymd) (algorithm, error) {
	for i := len(v.events) - 1; i >= 0; i-- {
		ev := v.events[i]
		if t.compare(ev.at) >= 0 {
			return ev.algo, nil
		}
		if t.compare(ev.before) > 0 {
			return 0, calerr.OutOfRange("day", t.d, "%04d-%02d-%02d falls into the gap of %s", t.y, t.m, t.d, v.Key())
		}
	}
	return v.initial, nil
}

// Convert returns the day number of date.
func (v *Variant) Convert(date Date) (pivot.Day, error) {
	if err := date.check(); err != nil {
		return 0, err
	}
	t := ymd{date.Annus(), date.Month, date.Day}
	algo, err := v.algorithmFor(t)
	if err != nil {
		return 0, err
	}
	if err := algo.validate(t); err != nil {
		return 0, err
	}
	return algo.toPivot(t), nil
}

// IsValid reports whether date exists in v.
func (v *Variant) IsValid(date Date) bool {
	_, err := v.Convert(date)
	return err == nil
}

// Date returns the day d as an AD or BC date.
func (v *Variant) Date(d pivot.Day) (Date, error) {
	if d < -dayLimit || d > dayLimit {
		return Date{}, &calerr.Error{Kind: calerr.FieldOutOfRange, Field: "day", Value: fmt.Sprint(int64(d)), Reason: "outside the supported range"}
	}
	t := v.algorithmAt(d).fromPivot(d)
	era := AD
	if t.y < 1 {
		era = BC
	}
	date := Date{Era: era, YearOfEra: era.YearOfEra(t.y), Month: t.m, Day: t.d}
	if date.YearOfEra > MaxYearOfEra {
		return Date{}, calerr.OutOfRange("year", date.YearOfEra, "expected 1..%d", MaxYearOfEra)
	}
	return date, nil
}

// PreferredEra returns the era in which the day d is printed.
func (v *Variant) PreferredEra(d pivot.Day) Era {
	date, err := v.PreferredDate(d)
	if err != nil {
		if d < 0 {
			return BC
		}
		return AD
	}
	return date.Era
}

// PreferredDate returns the day d in its preferred era.
func (v *Variant) PreferredDate(d pivot.Day) (Date, error) {
	date, err := v.Date(d)
	if err != nil {
		return Date{}, err
	}
	if e := v.pref.eraOf(date.Annus(), d); e != date.Era {
		if in, ok := date.InEra(e); ok {
			return in, nil
		}
	}
	return date, nil
}

// LengthOfMonth counts the days of a month, leaving out cutover gaps.
func (v *Variant) LengthOfMonth(era Era, yearOfEra, month int) (int, error) {
	if err := (Date{Era: era, YearOfEra: yearOfEra, Month: month, Day: 1}).check(); err != nil {
		return 0, err
	}
	n := 0
	for d := 1; d <= 31; d++ {
		if v.IsValid(Date{Era: era, YearOfEra: yearOfEra, Month: month, Day: d}) {
			n++
		}
	}
	return n, nil
}

// LengthOfYear counts the days of a standard year.
func (v *Variant) LengthOfYear(era Era, yearOfEra int) (int, error) {
	total := 0
	for m := 1; m <= 12; m++ {
		n, err := v.LengthOfMonth(era, yearOfEra, m)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// YearOfEra returns the year number of date under def. For DualDating this
// is the standard year; DualYears tells whether a span must be printed.
func (v *Variant) YearOfEra(def YearDefinition, date Date) int {
	if def != NewYearRuleYear {
		return date.YearOfEra
	}
	return date.Era.YearOfEra(v.newYear.YearOf(date.Annus(), date.Month, date.Day))
}

// DualYears returns the two years of era spanned by date when its historic
// year differs from its standard year. first is the earlier year.
func (v *Variant) DualYears(date Date) (first, second int, ok bool) {
	a := date.Annus()
	ny := v.newYear.YearOf(a, date.Month, date.Day)
	if ny == a {
		return date.YearOfEra, 0, false
	}
	lo := min(a, ny)
	return date.Era.YearOfEra(lo), date.Era.YearOfEra(lo + 1), true
}
