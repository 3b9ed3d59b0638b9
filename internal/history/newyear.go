package history

import (
	"fmt"
	"math"
	"strings"
)

// NewYearRule is the day on which a region started a new year.
type NewYearRule int

const (
	BeginOfJanuary NewYearRule = iota
	BeginOfMarch
	BeginOfSeptember
	// ChristmasStyle starts the year on 25 December of the previous standard year.
	ChristmasStyle
	// Annunciation starts the year on 25 March of the standard year (Florentine style).
	Annunciation
	// CalculusPisanus starts the year on 25 March of the previous standard year.
	CalculusPisanus
)

var newYearNames = [...]string{
	BeginOfJanuary:   "begin-of-january",
	BeginOfMarch:     "begin-of-march",
	BeginOfSeptember: "begin-of-september",
	ChristmasStyle:   "christmas-style",
	Annunciation:     "annunciation",
	CalculusPisanus:  "calculus-pisanus",
}

func (r NewYearRule) String() string {
	if r < BeginOfJanuary || r > CalculusPisanus {
		return fmt.Sprintf("NewYearRule(%d)", int(r))
	}
	return newYearNames[r]
}

// Forward reports whether r starts a year before 1 January of the same
// standard year, so that the last days of a standard year already belong to
// the next historic year.
func (r NewYearRule) Forward() bool {
	return r == ChristmasStyle || r == CalculusPisanus
}

// shift returns the difference between the historic year and the standard
// year of a month and day: -1, 0 or +1.
func (r NewYearRule) shift(month, day int) int {
	md := month*100 + day
	switch r {
	case BeginOfMarch:
		if month < 3 {
			return -1
		}
	case BeginOfSeptember:
		if month < 9 {
			return -1
		}
	case Annunciation:
		if md < 325 {
			return -1
		}
	case ChristmasStyle:
		if md >= 1225 {
			return 1
		}
	case CalculusPisanus:
		if md >= 325 {
			return 1
		}
	}
	return 0
}

// Until returns a strategy applying r to all standard years before
// annus (exclusive) and 1 January afterwards.
func (r NewYearRule) Until(annus int) NewYearStrategy {
	return NewYearStrategy{segments: []nySegment{{rule: r, until: annus}}}
}

type nySegment struct {
	rule  NewYearRule
	until int
}

// NewYearStrategy assigns a NewYearRule to every standard year. The zero
// value uses 1 January everywhere.
type NewYearStrategy struct {
	segments []nySegment
}

// Always returns a strategy applying r to every year.
func Always(r NewYearRule) NewYearStrategy {
	return r.Until(math.MaxInt)
}

// And appends the segments of next. Segments must be given in ascending
// order; a segment ending before the current last one is ignored.
func (s NewYearStrategy) And(next NewYearStrategy) NewYearStrategy {
	out := make([]nySegment, len(s.segments), len(s.segments)+len(next.segments))
	copy(out, s.segments)
	for _, seg := range next.segments {
		if n := len(out); n > 0 && seg.until <= out[n-1].until {
			continue
		}
		out = append(out, seg)
	}
	return NewYearStrategy{segments: out}
}

// Rule returns the rule in force for the standard astronomical year annus.
func (s NewYearStrategy) Rule(annus int) NewYearRule {
	for _, seg := range s.segments {
		if annus < seg.until {
			return seg.rule
		}
	}
	return BeginOfJanuary
}

// YearOf returns the historic astronomical year of a day of the standard
// year annus.
func (s NewYearStrategy) YearOf(annus, month, day int) int {
	return annus + s.Rule(annus).shift(month, day)
}

// IsDefault reports whether s uses 1 January everywhere.
func (s NewYearStrategy) IsDefault() bool {
	for _, seg := range s.segments {
		if seg.rule != BeginOfJanuary {
			return false
		}
	}
	return true
}

// Equal reports whether both strategies define the same segments.
func (s NewYearStrategy) Equal(o NewYearStrategy) bool {
	if len(s.segments) != len(o.segments) {
		return false
	}
	for i := range s.segments {
		if s.segments[i] != o.segments[i] {
			return false
		}
	}
	return true
}

func (s NewYearStrategy) String() string {
	if len(s.segments) == 0 {
		return BeginOfJanuary.String()
	}
	parts := make([]string, 0, len(s.segments))
	for _, seg := range s.segments {
		if seg.until == math.MaxInt {
			parts = append(parts, seg.rule.String())
			continue
		}
		parts = append(parts, fmt.Sprintf("%s->%d", seg.rule, seg.until))
	}
	return strings.Join(parts, ",")
}
