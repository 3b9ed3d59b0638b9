// Package locale provides the display names of eras and months.
//
// Names are looked up by symbolic key in embedded go-i18n message files
// (locales/active.<lang>.json or .toml). A Catalog resolves every name of one
// language once, so printing and parsing never touch the bundle again.
package locale

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-historic/internal/calerr"
	"github.com/tartampluch/go-historic/internal/config"
	"github.com/tartampluch/go-historic/internal/hijri"
	"github.com/tartampluch/go-historic/internal/history"
	"github.com/tartampluch/go-historic/internal/persian"
	ptime "github.com/yaa110/go-persian-calendar"
	"golang.org/x/text/language"
)

//go:embed locales/*
var localeFS embed.FS

// Mode selects one of the name sets of an era.
type Mode int

const (
	Abbreviated Mode = iota
	Wide
	// Alternative names avoid the religious reference, e.g. "CE" or "u. Z.".
	Alternative
	// Latin names are the same in every language.
	Latin
)

// Modes lists every mode.
var Modes = []Mode{Abbreviated, Wide, Alternative, Latin}

var modeKeys = [...]string{"abbr", "wide", "alt", "latin"}

func (m Mode) String() string {
	if m < Abbreviated || m > Latin {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeKeys[m]
}

// Bundle holds the embedded locale files.
type Bundle struct {
	bundle    *i18n.Bundle
	languages []string
}

// Load reads every embedded locale file. Unreadable files are logged and
// skipped; English is the fallback for missing keys.
func Load() *Bundle {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	b := &Bundle{bundle: bundle}

	entries, err := localeFS.ReadDir(config.LocaleDir)
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return b
	}

	for _, entry := range entries {
		name := entry.Name()
		ext := path.Ext(name)
		if !strings.HasPrefix(name, config.LocaleFilePrefix) || (ext != ".json" && ext != config.ExtTOML) {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, config.LocaleFilePrefix), ext)
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, path.Join(config.LocaleDir, name)); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)
		b.languages = append(b.languages, langCode)
	}
	slices.Sort(b.languages)
	return b
}

// Languages lists the loaded languages, sorted.
func (b *Bundle) Languages() []string {
	return slices.Clone(b.languages)
}

// Catalog is the immutable set of names of one language.
type Catalog struct {
	lang      string
	localizer *i18n.Localizer
	fallback  *i18n.Localizer

	eras          [len(modeKeys)][]string // indexed by mode, then position in history.Eras
	months        [12]string
	persianMonths [12]string
	hijriMonths   [12]string
}

// Catalog resolves the names of lang. Unknown languages get English names.
func (b *Bundle) Catalog(lang string) *Catalog {
	c := &Catalog{
		lang:      lang,
		localizer: i18n.NewLocalizer(b.bundle, lang, config.DefaultLanguage),
		fallback:  i18n.NewLocalizer(b.bundle, config.DefaultLanguage),
	}

	for _, m := range Modes {
		names := make([]string, len(history.Eras))
		for i, e := range history.Eras {
			names[i] = c.msg(config.TKeyEraPrefix + e.Key() + "_" + m.String())
		}
		c.eras[m] = names
	}
	for i := range 12 {
		n := fmt.Sprint(i + 1)
		c.months[i] = c.msg(config.TKeyMonthPrefix + n)
		c.hijriMonths[i] = c.msg(config.TKeyHijriMonthPrefix + n)
		if c.isPersian() {
			c.persianMonths[i] = ptime.Month(i + 1).String()
		} else {
			c.persianMonths[i] = c.msg(config.TKeyPersianMonthPrefix + n)
		}
	}
	return c
}

func (c *Catalog) isPersian() bool {
	base, _ := language.Make(c.lang).Base()
	return base.String() == "fa"
}

// Lang returns the language the catalog was built for.
func (c *Catalog) Lang() string { return c.lang }

// msg translates a key, falling back to English and then to the key itself.
func (c *Catalog) msg(key string) string {
	return c.localize(&i18n.LocalizeConfig{MessageID: key})
}

func (c *Catalog) localize(lc *i18n.LocalizeConfig) string {
	msg, err := c.localizer.Localize(lc)
	if err == nil && msg != "" {
		return msg
	}
	if msg, err := c.fallback.Localize(lc); err == nil && msg != "" {
		return msg
	}
	slog.Debug(config.MsgTransMissing,
		config.LogKeyComponent, config.CompI18n,
		config.LogKeyLang, c.lang,
		config.LogKeyKey, lc.MessageID,
		config.LogKeyError, err,
	)
	return lc.MessageID
}

// EraName returns the name of e in mode m.
func (c *Catalog) EraName(e history.Era, m Mode) string {
	i := slices.Index(history.Eras, e)
	if i < 0 || m < Abbreviated || m > Latin {
		return e.String()
	}
	return c.eras[m][i]
}

// MonthName returns the name of a Julian/Gregorian month (1..12).
func (c *Catalog) MonthName(month int) string {
	if month < 1 || month > 12 {
		return fmt.Sprint(month)
	}
	return c.months[month-1]
}

// PersianMonthName returns the name of a Persian month; Persian script
// for Persian catalogs.
func (c *Catalog) PersianMonthName(m persian.Month) string {
	if m < persian.Farvardin || m > persian.Esfand {
		return m.String()
	}
	return c.persianMonths[m-1]
}

// HijriMonthName returns the name of a Hijri month.
func (c *Catalog) HijriMonthName(m hijri.Month) string {
	if m < hijri.Muharram || m > hijri.DhuAlHijjah {
		return m.String()
	}
	return c.hijriMonths[m-1]
}

// Summary is the title of an anniversary event. age is printed when the
// original year is known.
func (c *Catalog) Summary(name string, age int, yearKnown bool) string {
	if !yearKnown {
		return c.localize(&i18n.LocalizeConfig{
			MessageID:    config.TKeyEvtSummary,
			TemplateData: map[string]any{"Name": name},
		})
	}
	return c.localize(&i18n.LocalizeConfig{
		MessageID:    config.TKeyEvtSummaryAge,
		TemplateData: map[string]any{"Name": name, "Age": age},
	})
}

// Description names the original calendar date of an event.
func (c *Catalog) Description(date, calendar string) string {
	return c.localize(&i18n.LocalizeConfig{
		MessageID:    config.TKeyEvtDescription,
		TemplateData: map[string]any{"Date": date, "Calendar": calendar},
	})
}

// MatchEra finds the longest era name of the given modes at the start of s
// and returns the era and the length of the name in bytes.
func (c *Catalog) MatchEra(s string, modes []Mode, fold bool) (history.Era, int, bool) {
	best, bestLen := history.NoEra, 0
	for _, m := range modes {
		if m < Abbreviated || m > Latin {
			continue
		}
		for i, name := range c.eras[m] {
			if len(name) > bestLen && hasPrefix(s, name, fold) {
				best, bestLen = history.Eras[i], len(name)
			}
		}
	}
	return best, bestLen, bestLen > 0
}

// MatchMonth finds the longest month name at the start of s.
func (c *Catalog) MatchMonth(s string, fold bool) (month, n int, ok bool) {
	for i, name := range c.months {
		if len(name) > n && hasPrefix(s, name, fold) {
			month, n = i+1, len(name)
		}
	}
	return month, n, n > 0
}

// ParseEra maps a complete era name of mode m back to its era.
func (c *Catalog) ParseEra(name string, m Mode) (history.Era, error) {
	e, n, ok := c.MatchEra(name, []Mode{m}, false)
	if !ok || n != len(name) {
		return history.NoEra, calerr.New(calerr.MalformedInput, "era", name, "unknown era name")
	}
	return e, nil
}

// ParseMonth maps a complete month name back to its number.
func (c *Catalog) ParseMonth(name string) (int, error) {
	month, n, ok := c.MatchMonth(name, false)
	if !ok || n != len(name) {
		return 0, calerr.New(calerr.MalformedInput, "month", name, "unknown month name")
	}
	return month, nil
}

func hasPrefix(s, prefix string, fold bool) bool {
	if len(s) < len(prefix) || prefix == "" {
		return false
	}
	if fold {
		return strings.EqualFold(s[:len(prefix)], prefix)
	}
	return s[:len(prefix)] == prefix
}
