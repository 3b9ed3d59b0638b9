package history

import (
	"github.com/tartampluch/go-historic/internal/calerr"
	"github.com/tartampluch/go-historic/internal/pivot"
)

// algorithm is the day reckoning in force between two events of a variant.
type algorithm int

const (
	algoJulian algorithm = iota + 1
	algoGregorian
	// algoSwedish is the Swedish calendar of 1700-03-01..1712-02-30: one day
	// behind the Julian calendar, with a 30th February in 1712.
	algoSwedish
)

// swedishLeapDay is 30 February 1712 of the Swedish calendar.
var swedishLeapDay = mustDay(pivot.Julian, 1712, 3, 1) - 1

func mustDay(s pivot.System, y, m, d int) pivot.Day {
	p, err := pivot.ToPivot(s, y, m, d)
	if err != nil {
		panic(err)
	}
	return p
}

func (a algorithm) system() pivot.System {
	if a == algoGregorian {
		return pivot.Gregorian
	}
	return pivot.Julian
}

func isSwedishFebruary(y, m int) bool {
	return y == 1712 && m == 2
}

func (a algorithm) validate(t ymd) error {
	if a == algoSwedish && isSwedishFebruary(t.y, t.m) {
		if t.d < 1 || t.d > 30 {
			return calerr.OutOfRange("day", t.d, "Swedish February 1712 has 30 days")
		}
		return nil
	}
	return pivot.Validate(a.system(), t.y, t.m, t.d)
}

// toPivot expects a date accepted by validate.
func (a algorithm) toPivot(t ymd) pivot.Day {
	if a == algoSwedish {
		if isSwedishFebruary(t.y, t.m) && t.d == 30 {
			return swedishLeapDay
		}
		return mustDay(pivot.Julian, t.y, t.m, t.d) - 1
	}
	return mustDay(a.system(), t.y, t.m, t.d)
}

func (a algorithm) fromPivot(p pivot.Day) ymd {
	if a == algoSwedish {
		if p == swedishLeapDay {
			return ymd{1712, 2, 30}
		}
		p++
	}
	y, m, d := pivot.FromPivot(a.system(), p)
	return ymd{y, m, d}
}
