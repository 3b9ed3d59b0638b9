// Package textfmt prints and parses historic dates with a fixed list of
// layout elements. Parsing only tokenizes the text; the era, year and day
// are decided by history.Resolve.
package textfmt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tartampluch/go-historic/internal/calerr"
	"github.com/tartampluch/go-historic/internal/history"
	"github.com/tartampluch/go-historic/internal/locale"
	"github.com/tartampluch/go-historic/internal/pivot"
)

type elementKind int

const (
	kindDay elementKind = iota
	kindMonthNumber
	kindMonthText
	kindEra
	kindYear
	kindLiteral
)

// Element is one part of a layout.
type Element struct {
	kind  elementKind
	width int
	mode  locale.Mode
	text  string
}

// Day prints the day of month with at least minWidth digits.
func Day(minWidth int) Element { return Element{kind: kindDay, width: minWidth} }

// MonthNumber prints the month with at least minWidth digits.
func MonthNumber(minWidth int) Element { return Element{kind: kindMonthNumber, width: minWidth} }

// MonthText prints the month name of the catalog.
func MonthText() Element { return Element{kind: kindMonthText} }

// Era prints the era name in mode unless the formatter overrides the mode.
func Era(mode locale.Mode) Element { return Element{kind: kindEra, mode: mode} }

// YearOfEra prints the year of era with at least minWidth digits. Under
// dual dating the year may print as a span such as 1602/03.
func YearOfEra(minWidth int) Element { return Element{kind: kindYear, width: minWidth} }

// Literal prints text as is.
func Literal(text string) Element { return Element{kind: kindLiteral, text: text} }

// Formatter is immutable; the With methods return modified copies.
type Formatter struct {
	layout     []Element
	catalog    *locale.Catalog
	variant    *history.Variant
	leniency   history.Leniency
	defaultEra history.Era
	yearDef    history.YearDefinition
	eraMode    *locale.Mode
}

// New returns a formatter over the first Gregorian reform.
func New(catalog *locale.Catalog, layout ...Element) *Formatter {
	return &Formatter{
		layout:   append([]Element(nil), layout...),
		catalog:  catalog,
		variant:  history.FirstGregorianReform(),
		leniency: history.Smart,
	}
}

// ForLocale returns a formatter for a language tag such as "en-GB". A tag
// with a region selects the historic variant of that region.
func ForLocale(b *locale.Bundle, tag string, layout ...Element) *Formatter {
	f := New(b.Catalog(tag), layout...)
	if strings.ContainsAny(tag, "-_") {
		if v, err := history.Lookup(tag); err == nil {
			f.variant = v
		}
	}
	return f
}

func (f *Formatter) clone() *Formatter {
	c := *f
	return &c
}

// WithVariant returns a copy using v.
func (f *Formatter) WithVariant(v *history.Variant) *Formatter {
	c := f.clone()
	c.variant = v
	return c
}

// WithLeniency returns a copy parsing with l.
func (f *Formatter) WithLeniency(l history.Leniency) *Formatter {
	c := f.clone()
	c.leniency = l
	return c
}

// WithDefaultEra returns a copy that assumes era when the text has none.
func (f *Formatter) WithDefaultEra(era history.Era) *Formatter {
	c := f.clone()
	c.defaultEra = era
	return c
}

// WithYearDefinition returns a copy counting years by def.
func (f *Formatter) WithYearDefinition(def history.YearDefinition) *Formatter {
	c := f.clone()
	c.yearDef = def
	return c
}

// WithEraMode returns a copy printing every era element in mode.
func (f *Formatter) WithEraMode(mode locale.Mode) *Formatter {
	c := f.clone()
	c.eraMode = &mode
	return c
}

// Variant returns the historic variant in use.
func (f *Formatter) Variant() *history.Variant { return f.variant }

func (f *Formatter) modeOf(e Element) locale.Mode {
	if f.eraMode != nil {
		return *f.eraMode
	}
	return e.mode
}

// Format prints the day d.
func (f *Formatter) Format(d pivot.Day) (string, error) {
	date, err := f.variant.PreferredDate(d)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, e := range f.layout {
		switch e.kind {
		case kindDay:
			sb.WriteString(pad(date.Day, e.width))
		case kindMonthNumber:
			sb.WriteString(pad(date.Month, e.width))
		case kindMonthText:
			sb.WriteString(f.catalog.MonthName(date.Month))
		case kindEra:
			sb.WriteString(f.catalog.EraName(date.Era, f.modeOf(e)))
		case kindYear:
			sb.WriteString(f.yearText(date, e.width))
		case kindLiteral:
			sb.WriteString(e.text)
		}
	}
	return sb.String(), nil
}

func (f *Formatter) yearText(date history.Date, width int) string {
	switch f.yearDef {
	case history.DualDating:
		if first, second, ok := f.variant.DualYears(date); ok {
			return pad(first, width) + "/" + fmt.Sprintf("%02d", second%100)
		}
		return pad(date.YearOfEra, width)
	default:
		return pad(f.variant.YearOfEra(f.yearDef, date), width)
	}
}

func pad(n, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}

// Parse reads text and resolves the date it names.
func (f *Formatter) Parse(text string) (history.Resolution, error) {
	raw, err := f.tokenize(text)
	if err != nil {
		return history.Resolution{}, err
	}
	return history.Resolve(raw, history.ResolveConfig{
		Variant:        f.variant,
		Leniency:       f.leniency,
		DefaultEra:     f.defaultEra,
		YearDefinition: f.yearDef,
	})
}

// ParseDay is Parse returning only the day number.
func (f *Formatter) ParseDay(text string) (pivot.Day, error) {
	res, err := f.Parse(text)
	if err != nil {
		return 0, err
	}
	return res.Day, nil
}

func (f *Formatter) tokenize(text string) (history.RawFields, error) {
	var raw history.RawFields
	var haveYear, haveMonth, haveDay bool
	fold := f.leniency != history.Strict
	pos := 0

	malformed := func(field, reason string) error {
		return calerr.New(calerr.MalformedInput, field, text, fmt.Sprintf("%s at offset %d", reason, pos))
	}

	for _, e := range f.layout {
		rest := text[pos:]
		switch e.kind {
		case kindLiteral:
			n := len(e.text)
			if len(rest) < n || !(rest[:n] == e.text || fold && strings.EqualFold(rest[:n], e.text)) {
				return raw, malformed("literal", fmt.Sprintf("expected %q", e.text))
			}
			pos += n

		case kindDay, kindMonthNumber:
			digits := leadingDigits(rest)
			if digits == "" || (f.leniency == history.Strict && len(digits) < e.width) {
				return raw, malformed(fieldName(e.kind), "expected digits")
			}
			v, err := strconv.Atoi(digits)
			if err != nil {
				return raw, malformed(fieldName(e.kind), err.Error())
			}
			if e.kind == kindDay {
				raw.Day, haveDay = v, true
			} else {
				raw.Month, haveMonth = v, true
			}
			pos += len(digits)

		case kindMonthText:
			m, n, ok := f.catalog.MatchMonth(rest, fold)
			if !ok {
				return raw, malformed("month", "expected a month name")
			}
			raw.Month, haveMonth = m, true
			pos += n

		case kindEra:
			modes := []locale.Mode{f.modeOf(e)}
			if f.leniency == history.Lax {
				modes = locale.Modes
			}
			era, n, ok := f.catalog.MatchEra(rest, modes, fold)
			if !ok {
				return raw, malformed("era", "expected an era name")
			}
			raw.Era = era
			pos += n

		case kindYear:
			digits := leadingDigits(rest)
			if digits == "" || (f.leniency == history.Strict && len(digits) < e.width) {
				return raw, malformed("year", "expected digits")
			}
			raw.Year, haveYear = digits, true
			pos += len(digits)
			if f.yearDef == history.DualDating && strings.HasPrefix(text[pos:], "/") {
				if dual := leadingDigits(text[pos+1:]); dual != "" {
					raw.DualYear = dual
					pos += 1 + len(dual)
				}
			}
		}
	}

	switch {
	case pos != len(text):
		return raw, malformed("text", "unparsed trailing text")
	case !haveYear || !haveMonth || !haveDay:
		return raw, calerr.New(calerr.MalformedInput, "layout", text, "layout lacks a year, month or day")
	}
	return raw, nil
}

func fieldName(k elementKind) string {
	if k == kindDay {
		return "day"
	}
	return "month"
}

func leadingDigits(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i]
}
