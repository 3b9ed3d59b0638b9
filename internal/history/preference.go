package history

import (
	"fmt"

	"github.com/tartampluch/go-historic/internal/pivot"
)

// EraPreference selects the era printed for the days of [start, end). Outside
// that range, and where the preferred era would yield a year below 1, dates
// are printed in AD or BC. The zero value prefers nothing.
type EraPreference struct {
	era   Era
	start pivot.Day
	end   pivot.Day
}

// DefaultPreference always prints AD or BC.
func DefaultPreference() EraPreference {
	return EraPreference{}
}

// ByzantineUntil prefers Anno Mundi for all days before end.
func ByzantineUntil(end pivot.Day) EraPreference {
	return EraPreference{era: Byzantine, start: pivot.MinDay, end: end}
}

// ByzantineBetween prefers Anno Mundi for the days of [start, end).
func ByzantineBetween(start, end pivot.Day) EraPreference {
	return EraPreference{era: Byzantine, start: start, end: end}
}

// HispanicUntil prefers the Spanish era for all days before end.
func HispanicUntil(end pivot.Day) EraPreference {
	return EraPreference{era: Hispanic, start: pivot.MinDay, end: end}
}

// HispanicBetween prefers the Spanish era for the days of [start, end).
func HispanicBetween(start, end pivot.Day) EraPreference {
	return EraPreference{era: Hispanic, start: start, end: end}
}

// AbUrbeConditaPreference counts every year from the founding of Rome.
func AbUrbeConditaPreference() EraPreference {
	return EraPreference{era: AbUrbeCondita, start: pivot.MinDay, end: pivot.MaxDay}
}

// Era returns the preferred era, NoEra for the default preference.
func (p EraPreference) Era() Era {
	return p.era
}

// IsDefault reports whether p prefers nothing.
func (p EraPreference) IsDefault() bool {
	return p.era == NoEra
}

func (p EraPreference) covers(d pivot.Day) bool {
	if p.era == NoEra || d < p.start {
		return false
	}
	return p.end == pivot.MaxDay || d < p.end
}

// eraOf returns the era used to print the day d of the standard year annus.
func (p EraPreference) eraOf(annus int, d pivot.Day) Era {
	if p.covers(d) && p.era.YearOfEra(annus) >= 1 {
		return p.era
	}
	if annus >= 1 {
		return AD
	}
	return BC
}

func (p EraPreference) String() string {
	if p.IsDefault() {
		return "default"
	}
	return fmt.Sprintf("%s[%s..%s)", p.era.Key(), bound(p.start), bound(p.end))
}

func bound(d pivot.Day) string {
	switch d {
	case pivot.MinDay, pivot.MaxDay:
		return "*"
	}
	return d.String()
}
