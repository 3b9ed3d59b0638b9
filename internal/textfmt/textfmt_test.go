package textfmt_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-historic/internal/calerr"
	"github.com/tartampluch/go-historic/internal/history"
	"github.com/tartampluch/go-historic/internal/locale"
	"github.com/tartampluch/go-historic/internal/pivot"
	"github.com/tartampluch/go-historic/internal/textfmt"
)

var bundle = locale.Load()

func greg(t *testing.T, y, m, d int) pivot.Day {
	t.Helper()
	p, err := pivot.ToPivot(pivot.Gregorian, y, m, d)
	require.NoError(t, err)
	return p
}

func jul(t *testing.T, y, m, d int) pivot.Day {
	t.Helper()
	p, err := pivot.ToPivot(pivot.Julian, y, m, d)
	require.NoError(t, err)
	return p
}

// "d. MMMM yyyy G"
func dayMonthYearEra(mode locale.Mode) []textfmt.Element {
	return []textfmt.Element{
		textfmt.Day(1), textfmt.Literal(". "), textfmt.MonthText(), textfmt.Literal(" "),
		textfmt.YearOfEra(4), textfmt.Literal(" "), textfmt.Era(mode),
	}
}

// "d. MMMM G yyyy"
func dayMonthEraYear(mode locale.Mode) []textfmt.Element {
	return []textfmt.Element{
		textfmt.Day(1), textfmt.Literal(". "), textfmt.MonthText(), textfmt.Literal(" "),
		textfmt.Era(mode), textfmt.Literal(" "), textfmt.YearOfEra(4),
	}
}

// "d. MMMM yyyy"
func dayMonthYear() []textfmt.Element {
	return []textfmt.Element{
		textfmt.Day(1), textfmt.Literal(". "), textfmt.MonthText(), textfmt.Literal(" "), textfmt.YearOfEra(4),
	}
}

// "MM/dd/y G"
func numericAUC(yearWidth int) []textfmt.Element {
	return []textfmt.Element{
		textfmt.MonthNumber(2), textfmt.Literal("/"), textfmt.Day(2), textfmt.Literal("/"),
		textfmt.YearOfEra(yearWidth), textfmt.Literal(" "), textfmt.Era(locale.Abbreviated),
	}
}

func TestFormatAndParse(t *testing.T) {
	aucVariant := history.FirstGregorianReform().WithEraPreference(history.AbUrbeConditaPreference())
	england, err := history.OfGregorianReform(greg(t, 1752, 9, 14))
	require.NoError(t, err)

	tests := []struct {
		name string
		f    *textfmt.Formatter
		day  pivot.Day
		text string
	}{
		{"Standard era name", textfmt.ForLocale(bundle, "de-DE", dayMonthYearEra(locale.Wide)...),
			greg(t, 1582, 10, 14), "4. Oktober 1582 n. Chr."},
		{"Alternative era name", textfmt.ForLocale(bundle, "de-DE", dayMonthYearEra(locale.Abbreviated)...).WithEraMode(locale.Alternative),
			greg(t, 1582, 10, 14), "4. Oktober 1582 u. Z."},
		{"Latin era name in German", textfmt.ForLocale(bundle, "de-DE", dayMonthYearEra(locale.Wide)...).WithEraMode(locale.Latin),
			greg(t, 1582, 10, 14), "4. Oktober 1582 Anno Domini"},
		{"Proleptic Julian", textfmt.ForLocale(bundle, "de", dayMonthYearEra(locale.Abbreviated)...).WithVariant(history.ProlepticJulian()),
			greg(t, 1752, 9, 13), "2. September 1752 n. Chr."},
		{"English cutover in German", textfmt.ForLocale(bundle, "de-DE", dayMonthYearEra(locale.Abbreviated)...).WithVariant(england),
			greg(t, 1752, 9, 13), "2. September 1752 n. Chr."},
		{"England abbreviated", textfmt.ForLocale(bundle, "en-GB", dayMonthEraYear(locale.Abbreviated)...),
			greg(t, 1752, 9, 13), "2. September AD 1752"},
		{"England dual dating", textfmt.ForLocale(bundle, "en-GB", dayMonthEraYear(locale.Wide)...).WithLeniency(history.Strict),
			greg(t, 1603, 4, 3), "24. March Anno Domini 1602/03"},
		{"England new year", textfmt.ForLocale(bundle, "en-GB", dayMonthEraYear(locale.Wide)...).WithLeniency(history.Strict),
			greg(t, 1603, 4, 4), "25. March Anno Domini 1603"},
		{"Swedish leap day", textfmt.ForLocale(bundle, "sv-SE", dayMonthYearEra(locale.Wide)...),
			greg(t, 1712, 3, 11), "30. februari 1712 efter Kristus"},
		{"Swedish leap day without era", textfmt.ForLocale(bundle, "sv", dayMonthYear()...).WithVariant(history.Sweden()).WithDefaultEra(history.AD),
			greg(t, 1712, 3, 11), "30. februari 1712"},
		{"Red October", textfmt.ForLocale(bundle, "en-RU", dayMonthYear()...).WithDefaultEra(history.AD),
			greg(t, 1917, 11, 7), "25. October 1917"},
		{"Byzantine dual year", textfmt.ForLocale(bundle, "en-RU", dayMonthEraYear(locale.Wide)...).WithLeniency(history.Strict),
			jul(t, 1522, 8, 31), "31. August Anno Mundi 7030/31"},
		{"Byzantine new year", textfmt.ForLocale(bundle, "en-RU", dayMonthEraYear(locale.Wide)...).WithLeniency(history.Strict),
			jul(t, 1522, 9, 1), "1. September Anno Mundi 7031"},
		{"Proleptic Byzantine", textfmt.ForLocale(bundle, "en", dayMonthEraYear(locale.Wide)...).WithLeniency(history.Strict).WithVariant(history.ProlepticByzantine()),
			jul(t, 2015, 8, 31), "31. August Anno Mundi 7523/24"},
		{"Proleptic Byzantine new year", textfmt.ForLocale(bundle, "en", dayMonthEraYear(locale.Wide)...).WithLeniency(history.Strict).WithVariant(history.ProlepticByzantine()),
			jul(t, 2015, 9, 1), "1. September Anno Mundi 7524"},
		{"Ab urbe condita", textfmt.ForLocale(bundle, "en-US", numericAUC(1)...).WithLeniency(history.Strict).WithVariant(aucVariant),
			jul(t, 1, 1, 1), "01/01/754 a.u.c."},
		{"Ab urbe condita two digit year", textfmt.ForLocale(bundle, "en-US", numericAUC(2)...).WithLeniency(history.Strict).WithVariant(aucVariant),
			jul(t, -752, 1, 1), "01/01/01 a.u.c."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := tt.f.Format(tt.day)
			require.NoError(t, err)
			assert.Equal(t, tt.text, text)

			day, err := tt.f.ParseDay(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.day, day)
		})
	}
}

func TestParse_England(t *testing.T) {
	f := textfmt.ForLocale(bundle, "en-GB", dayMonthEraYear(locale.Wide)...).WithLeniency(history.Strict)

	tests := []struct {
		text string
		want pivot.Day
	}{
		{"24. March Anno Domini 1602/3", greg(t, 1603, 4, 3)},
		{"24. March Anno Domini 1750/1", greg(t, 1751, 4, 4)},
		{"24. March Anno Domini 1603", greg(t, 1603, 4, 3)},
		{"24. March Anno Domini 1602/1603", greg(t, 1603, 4, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			day, err := f.ParseDay(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, day)
		})
	}
}

func TestParse_Byzantine(t *testing.T) {
	f := textfmt.ForLocale(bundle, "en-RU", dayMonthEraYear(locale.Wide)...).WithLeniency(history.Strict)

	res, err := f.Parse("31. August Anno Mundi 7031")
	require.NoError(t, err)
	assert.Equal(t, jul(t, 1522, 8, 31), res.Day)
	assert.Equal(t, history.Date{Era: history.Byzantine, YearOfEra: 7031, Month: 8, Day: 31}, res.Date)
}

func TestParse_Leniency(t *testing.T) {
	strict := textfmt.ForLocale(bundle, "en-GB", dayMonthEraYear(locale.Wide)...).WithLeniency(history.Strict)
	smart := strict.WithLeniency(history.Smart)
	lax := strict.WithLeniency(history.Lax)
	reform := textfmt.ForLocale(bundle, "en", dayMonthEraYear(locale.Wide)...).WithLeniency(history.Strict).WithVariant(history.FirstGregorianReform())

	tests := []struct {
		name    string
		f       *textfmt.Formatter
		text    string
		want    pivot.Day
		wantErr error
	}{
		{"Implausible continuation", strict, "24. March Anno Domini 1602/4", 0, calerr.ErrImplausibleDualYear},
		{"Continuation ignored", smart, "24. March Anno Domini 1602/4", greg(t, 1603, 4, 3), nil},
		{"Case sensitive", strict, "24. march anno domini 1602/03", 0, calerr.ErrMalformedInput},
		{"Case insensitive", smart, "24. march anno domini 1602/03", greg(t, 1603, 4, 3), nil},
		{"Other mode rejected", smart, "24. March AD 1602/03", 0, calerr.ErrMalformedInput},
		{"Any mode", lax, "24. March CE 1602/03", greg(t, 1603, 4, 3), nil},
		{"Trailing text", strict, "24. March Anno Domini 1602/03 OS", 0, calerr.ErrMalformedInput},
		{"Missing day", strict, ". March Anno Domini 1602/03", 0, calerr.ErrMalformedInput},
		{"Day zero", strict, "0. March Anno Domini 1602/03", 0, calerr.ErrFieldOutOfRange},
		{"Gap day", strict, "10. September Anno Domini 1752", 0, calerr.ErrFieldOutOfRange},
		{"Span after the new year", strict, "1. June Anno Domini 1602/03", 0, calerr.ErrImplausibleDualYear},
		{"Span after the reform", strict, "24. March Anno Domini 1751/2", 0, calerr.ErrImplausibleDualYear},
		{"Span without historic new year", reform, "24. March Anno Domini 1602/03", 0, calerr.ErrImplausibleDualYear},
		{"Span ignored", smart, "1. June Anno Domini 1602/03", greg(t, 1603, 6, 11), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, err := tt.f.ParseDay(tt.text)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, day)
		})
	}
}

func TestParse_AmbiguousEra(t *testing.T) {
	f := textfmt.ForLocale(bundle, "en-RU", dayMonthYear()...)
	_, err := f.Parse("25. October 1917")
	assert.True(t, errors.Is(err, calerr.ErrAmbiguousEra))

	// The default era settles it.
	day, err := f.WithDefaultEra(history.AD).ParseDay("25. October 1917")
	require.NoError(t, err)
	assert.Equal(t, greg(t, 1917, 11, 7), day)
}

func TestParse_AUCStrictWidth(t *testing.T) {
	aucVariant := history.FirstGregorianReform().WithEraPreference(history.AbUrbeConditaPreference())
	f := textfmt.ForLocale(bundle, "en-US", numericAUC(2)...).WithLeniency(history.Strict).WithVariant(aucVariant)

	_, err := f.Parse("01/01/1 a.u.c.")
	assert.True(t, errors.Is(err, calerr.ErrMalformedInput))

	day, err := f.WithLeniency(history.Smart).ParseDay("1/1/1 a.u.c.")
	require.NoError(t, err)
	assert.Equal(t, jul(t, -752, 1, 1), day)
}

func TestYearDefinitions(t *testing.T) {
	base := textfmt.ForLocale(bundle, "en-GB", dayMonthYear()...).WithDefaultEra(history.AD)
	day := greg(t, 1603, 4, 3)

	tests := []struct {
		def  history.YearDefinition
		want string
	}{
		{history.DualDating, "24. March 1602/03"},
		{history.NewYearRuleYear, "24. March 1602"},
		{history.StandardYear, "24. March 1603"},
	}
	for _, tt := range tests {
		f := base.WithYearDefinition(tt.def)
		text, err := f.Format(day)
		require.NoError(t, err)
		assert.Equal(t, tt.want, text)

		back, err := f.ParseDay(text)
		require.NoError(t, err)
		assert.Equal(t, day, back, text)
	}
}

func TestFormatter_Immutable(t *testing.T) {
	f := textfmt.ForLocale(bundle, "en-GB", dayMonthEraYear(locale.Wide)...)
	g := f.WithVariant(history.ProlepticGregorian()).WithEraMode(locale.Alternative)

	text, err := f.Format(greg(t, 1603, 4, 3))
	require.NoError(t, err)
	assert.Equal(t, "24. March Anno Domini 1602/03", text)

	text, err = g.Format(greg(t, 1603, 4, 3))
	require.NoError(t, err)
	assert.Equal(t, "3. April CE 1603", text)
	assert.NotSame(t, f.Variant(), g.Variant())
}
