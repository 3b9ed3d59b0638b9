package locale_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-historic/internal/calerr"
	"github.com/tartampluch/go-historic/internal/config"
	"github.com/tartampluch/go-historic/internal/hijri"
	"github.com/tartampluch/go-historic/internal/history"
	"github.com/tartampluch/go-historic/internal/locale"
	"github.com/tartampluch/go-historic/internal/persian"
	ptime "github.com/yaa110/go-persian-calendar"
)

var bundle = locale.Load()

func TestLoad_Languages(t *testing.T) {
	assert.Equal(t, config.SupportedLanguages, bundle.Languages())
}

func TestEraName(t *testing.T) {
	tests := []struct {
		lang string
		era  history.Era
		mode locale.Mode
		want string
	}{
		{"de", history.AD, locale.Wide, "n. Chr."},
		{"de", history.AD, locale.Alternative, "u. Z."},
		{"de", history.AD, locale.Latin, "Anno Domini"},
		{"de-DE", history.BC, locale.Abbreviated, "v. Chr."},
		{"en", history.AD, locale.Abbreviated, "AD"},
		{"en-GB", history.AD, locale.Wide, "Anno Domini"},
		{"en", history.AD, locale.Alternative, "CE"},
		{"en", history.Byzantine, locale.Wide, "Anno Mundi"},
		{"en-US", history.AbUrbeCondita, locale.Abbreviated, "a.u.c."},
		{"sv", history.AD, locale.Wide, "efter Kristus"},
		{"sv-SE", history.BC, locale.Latin, "Ante Christum"},
		{"fr", history.AD, locale.Abbreviated, "ap. J.-C."},
		{"fa", history.AD, locale.Abbreviated, "م."},
		{"fa", history.Byzantine, locale.Wide, "Anno Mundi"},
		{"xx", history.Hispanic, locale.Latin, "Era Hispanica"},
	}
	for _, tt := range tests {
		t.Run(tt.lang+"/"+tt.era.Key()+"/"+tt.mode.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, bundle.Catalog(tt.lang).EraName(tt.era, tt.mode))
		})
	}
	assert.Equal(t, "Era(0)", bundle.Catalog("en").EraName(history.NoEra, locale.Wide))
}

func TestMonthNames(t *testing.T) {
	assert.Equal(t, "March", bundle.Catalog("en").MonthName(3))
	assert.Equal(t, "Oktober", bundle.Catalog("de").MonthName(10))
	assert.Equal(t, "februari", bundle.Catalog("sv").MonthName(2))
	assert.Equal(t, "août", bundle.Catalog("fr").MonthName(8))
	assert.Equal(t, "13", bundle.Catalog("en").MonthName(13))

	assert.Equal(t, "Aban", bundle.Catalog("en").PersianMonthName(persian.Aban))
	assert.Equal(t, "Aban", bundle.Catalog("de").PersianMonthName(persian.Aban))
	assert.Equal(t, ptime.Aban.String(), bundle.Catalog("fa").PersianMonthName(persian.Aban))
	assert.NotEqual(t, "Aban", bundle.Catalog("fa").PersianMonthName(persian.Aban))

	assert.Equal(t, "Ramadan", bundle.Catalog("en").HijriMonthName(hijri.Ramadan))
	assert.Equal(t, "Dhu al-Hijjah", bundle.Catalog("sv").HijriMonthName(hijri.DhuAlHijjah))
}

func TestMatchEra(t *testing.T) {
	en := bundle.Catalog("en")

	e, n, ok := en.MatchEra("Anno Domini 1602/03", []locale.Mode{locale.Wide}, false)
	require.True(t, ok)
	assert.Equal(t, history.AD, e)
	assert.Equal(t, len("Anno Domini"), n)

	_, _, ok = en.MatchEra("anno domini 1602", []locale.Mode{locale.Wide}, false)
	assert.False(t, ok)
	e, _, ok = en.MatchEra("anno domini 1602", []locale.Mode{locale.Wide}, true)
	require.True(t, ok)
	assert.Equal(t, history.AD, e)

	// The longest name wins across modes.
	e, n, ok = en.MatchEra("BCE", locale.Modes, false)
	require.True(t, ok)
	assert.Equal(t, history.BC, e)
	assert.Equal(t, 3, n)

	e, _, ok = en.MatchEra("Anno Mundi 7031", locale.Modes, false)
	require.True(t, ok)
	assert.Equal(t, history.Byzantine, e)
}

func TestParseEraAndMonth(t *testing.T) {
	de := bundle.Catalog("de")

	e, err := de.ParseEra("u. Z.", locale.Alternative)
	require.NoError(t, err)
	assert.Equal(t, history.AD, e)

	_, err = de.ParseEra("u. Z.", locale.Wide)
	assert.True(t, errors.Is(err, calerr.ErrMalformedInput))
	_, err = de.ParseEra("n. Chr. 1582", locale.Wide)
	assert.True(t, errors.Is(err, calerr.ErrMalformedInput))

	sv := bundle.Catalog("sv")
	m, err := sv.ParseMonth("februari")
	require.NoError(t, err)
	assert.Equal(t, 2, m)

	_, err = sv.ParseMonth("Februari")
	assert.True(t, errors.Is(err, calerr.ErrMalformedInput))

	m, n, ok := sv.MatchMonth("Februari 1712", true)
	require.True(t, ok)
	assert.Equal(t, 2, m)
	assert.Equal(t, len("februari"), n)
}

func TestSummary(t *testing.T) {
	tests := []struct {
		lang      string
		age       int
		yearKnown bool
		want      string
	}{
		{"en", 0, false, "Anniversary: Ada"},
		{"en", 30, true, "Ada: 30 years"},
		{"de", 30, true, "Ada: 30 Jahre"},
		{"fr", 0, false, "Anniversaire : Ada"},
		{"sv", 2, true, "Ada: 2 år"},
		{"xx", 0, false, "Anniversary: Ada"},
	}
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			assert.Equal(t, tt.want, bundle.Catalog(tt.lang).Summary("Ada", tt.age, tt.yearKnown))
		})
	}
	assert.Equal(t, "1394-08-14 (persian)", bundle.Catalog("en").Description("1394-08-14", "persian"))
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "abbr", locale.Abbreviated.String())
	assert.Equal(t, "latin", locale.Latin.String())
	assert.Equal(t, "Mode(9)", locale.Mode(9).String())
}
