package history

import (
	"fmt"
	"strconv"

	"github.com/tartampluch/go-historic/internal/calerr"
	"github.com/tartampluch/go-historic/internal/pivot"
)

// Leniency controls how forgiving parsing is.
type Leniency int

const (
	// Strict checks every token, including the continuation of a dual year.
	Strict Leniency = iota
	// Smart ignores the continuation of a dual year.
	Smart
	// Lax behaves like Smart; text layouts additionally accept any era name.
	Lax
)

func (l Leniency) String() string {
	switch l {
	case Strict:
		return "strict"
	case Smart:
		return "smart"
	case Lax:
		return "lax"
	default:
		return fmt.Sprintf("Leniency(%d)", int(l))
	}
}

// RawFields are the tokens matched by a text layout. Year and DualYear are
// kept as digits because the width of a dual-year continuation matters.
type RawFields struct {
	Era      Era
	Year     string
	DualYear string
	Month    int
	Day      int
}

// ResolveConfig is passed explicitly to every resolution.
type ResolveConfig struct {
	Variant        *Variant
	Leniency       Leniency
	DefaultEra     Era
	YearDefinition YearDefinition
}

// Resolution is a fully disambiguated historic date and its day number.
type Resolution struct {
	Date Date
	Day  pivot.Day
}

// State is a step of the era resolution.
type State int

const (
	AwaitingEra State = iota
	AwaitingYear
	AwaitingMonthDay
	Resolved
	Rejected
)

func (s State) String() string {
	switch s {
	case AwaitingEra:
		return "awaiting-era"
	case AwaitingYear:
		return "awaiting-year"
	case AwaitingMonthDay:
		return "awaiting-month-day"
	case Resolved:
		return "resolved"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type resolver struct {
	raw   RawFields
	cfg   ResolveConfig
	state State

	era   Era
	annus int
	// byNewYear is set when the year still has to be matched against the
	// historic new year of the region.
	byNewYear bool
	// dualFirst is the first year of a dual-year span, 0 without a span.
	dualFirst int

	res Resolution
	err error
}

// Resolve turns raw tokens into a single historic date or fails with a
// *calerr.Error. It is a pure function of its arguments.
func Resolve(raw RawFields, cfg ResolveConfig) (Resolution, error) {
	if cfg.Variant == nil {
		return Resolution{}, calerr.New(calerr.UnknownVariant, "variant", "", "no variant configured")
	}
	r := &resolver{raw: raw, cfg: cfg, state: AwaitingEra}
	for r.state != Resolved && r.state != Rejected {
		switch r.state {
		case AwaitingEra:
			r.state = r.awaitEra()
		case AwaitingYear:
			r.state = r.awaitYear()
		case AwaitingMonthDay:
			r.state = r.awaitMonthDay()
		}
	}
	if r.state == Rejected {
		return Resolution{}, r.err
	}
	return r.res, nil
}

func (r *resolver) reject(err error) State {
	r.err = err
	return Rejected
}

func (r *resolver) awaitEra() State {
	switch {
	case r.raw.Era != NoEra:
		r.era = r.raw.Era
		return AwaitingYear
	case r.cfg.DefaultEra != NoEra:
		r.era = r.cfg.DefaultEra
		return AwaitingYear
	}

	pref := r.cfg.Variant.EraPreference()
	if pref.IsDefault() {
		return r.reject(calerr.New(calerr.AmbiguousEra, "era", "", "no era token and no default era"))
	}

	// A candidate era is kept when the variant itself would print the
	// resolved day in that era.
	var (
		found    []Resolution
		failures []error
	)
	candidates := []Era{pref.Era(), AD}
	for _, e := range candidates {
		raw := r.raw
		raw.Era = e
		res, err := Resolve(raw, r.cfg)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		if r.cfg.Variant.PreferredEra(res.Day) == e {
			found = append(found, res)
		}
	}
	switch {
	case len(found) == 1:
		r.res = found[0]
		return Resolved
	case len(failures) == len(candidates):
		return r.reject(failures[0])
	}
	return r.reject(calerr.New(calerr.AmbiguousEra, "era", "",
		fmt.Sprintf("%d of the eras %s, %s match", len(found), pref.Era(), AD)))
}

func (r *resolver) awaitYear() State {
	y, err := parseYear("year", r.raw.Year)
	if err != nil {
		return r.reject(err)
	}

	if r.raw.DualYear == "" {
		r.annus = r.era.Annus(y)
		r.byNewYear = r.cfg.YearDefinition == NewYearRuleYear
		return AwaitingMonthDay
	}

	a1 := r.era.Annus(y)
	r.dualFirst = y
	if r.cfg.Leniency == Strict {
		if err := checkContinuation(r.era, y, r.raw.DualYear); err != nil {
			return r.reject(err)
		}
	}
	// The span is printed from the earlier year on: the standard year is the
	// later one unless the new year precedes 1 January.
	if r.cfg.Variant.NewYearStrategy().Rule(a1).Forward() {
		r.annus = a1
	} else {
		r.annus = a1 + 1
	}
	return AwaitingMonthDay
}

func (r *resolver) awaitMonthDay() State {
	m, d := r.raw.Month, r.raw.Day
	if m < 1 || m > 12 {
		return r.reject(calerr.OutOfRange("month", m, "expected 1..12"))
	}

	if r.byNewYear {
		ny := r.annus
		matched := false
		for _, s := range []int{ny, ny + 1, ny - 1} {
			if r.cfg.Variant.NewYearStrategy().YearOf(s, m, d) == ny {
				r.annus, matched = s, true
				break
			}
		}
		if !matched {
			return r.reject(calerr.OutOfRange("year", r.era.YearOfEra(ny), "no standard year matches the new-year rule"))
		}
	}

	yoe := r.era.YearOfEra(r.annus)
	if yoe < 1 {
		return r.reject(calerr.OutOfRange("year", yoe, "year precedes the epoch of %s", r.era))
	}
	date := Date{Era: r.era, YearOfEra: yoe, Month: m, Day: d}
	p, err := r.cfg.Variant.Convert(date)
	if err != nil {
		return r.reject(err)
	}
	// A strict span must be the one the variant prints for the date.
	if r.cfg.Leniency == Strict && r.dualFirst != 0 {
		if first, _, ok := r.cfg.Variant.DualYears(date); !ok || first != r.dualFirst {
			return r.reject(calerr.New(calerr.ImplausibleDualYear, "dual-year", r.raw.Year+"/"+r.raw.DualYear,
				"the date does not fall between two historic new years"))
		}
	}
	r.res = Resolution{Date: date, Day: p}
	return Resolved
}

func parseYear(field, s string) (int, error) {
	if s == "" || !isDigits(s) {
		return 0, calerr.New(calerr.MalformedInput, field, s, "expected digits")
	}
	y, err := strconv.Atoi(s)
	if err != nil || y < 1 || y > MaxYearOfEra {
		return 0, calerr.New(calerr.FieldOutOfRange, field, s, fmt.Sprintf("expected 1..%d", MaxYearOfEra))
	}
	return y, nil
}

// checkContinuation accepts the last digit, the last two digits or the full
// value of the year following y in era: "1602/3", "1602/03", "1602/1603",
// "1699/00".
func checkContinuation(era Era, y int, c string) error {
	if !isDigits(c) {
		return calerr.New(calerr.MalformedInput, "dual-year", c, "expected digits")
	}
	next := era.YearOfEra(era.Annus(y) + 1)
	n, err := strconv.Atoi(c)
	ok := err == nil && next >= 1
	if ok {
		switch len(c) {
		case 1:
			ok = n == next%10
		case 2:
			ok = n == next%100
		default:
			ok = n == next
		}
	}
	if !ok {
		return calerr.New(calerr.ImplausibleDualYear, "dual-year", fmt.Sprintf("%d/%s", y, c),
			fmt.Sprintf("continuation must denote %d", next))
	}
	return nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
