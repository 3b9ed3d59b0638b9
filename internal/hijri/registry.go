package hijri

import (
	"embed"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/tartampluch/go-historic/internal/calerr"
	"github.com/tartampluch/go-historic/internal/config"
	"github.com/tartampluch/go-historic/internal/pivot"
)

//go:embed data/*.toml
var dataFS embed.FS

// Variant ids.
const (
	IDUmalqura = "islamic-umalqura"
	IDCivil    = "islamic-civil"
	IDTbla     = "islamic-tbla"
)

// aliases map common names onto tabular ids.
var aliases = map[string]string{
	IDCivil: "islamic-westc",
	IDTbla:  "islamic-westa",
}

// Registry resolves variant ids. It is immutable once built.
type Registry struct {
	variants map[string]Variant
}

var defaultRegistry = mustRegistry()

func mustRegistry() *Registry {
	r, err := NewRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

// Default returns the registry of the tabular variants and the bundled tables.
func Default() *Registry { return defaultRegistry }

// Lookup resolves id in the default registry.
func Lookup(id string) (Variant, error) { return defaultRegistry.Lookup(id) }

// NewRegistry builds a registry of the built-in variants plus extra tables.
// An extra table may not reuse a built-in id.
func NewRegistry(extra ...Variant) (*Registry, error) {
	r := &Registry{variants: make(map[string]Variant)}
	for _, v := range tabularVariants() {
		r.variants[v.ID()] = v
	}

	entries, err := dataFS.ReadDir("data")
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		data, err := dataFS.ReadFile("data/" + entry.Name())
		if err != nil {
			return nil, err
		}
		v, err := ParseTable(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		if err := r.add(v); err != nil {
			return nil, err
		}
	}

	for _, v := range extra {
		if err := r.add(v); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) add(v Variant) error {
	id := v.ID()
	if _, dup := r.variants[id]; dup {
		return fmt.Errorf("%s: duplicate id %q", config.ErrHijriTable, id)
	}
	if _, alias := aliases[id]; alias {
		return fmt.Errorf("%s: id %q is reserved", config.ErrHijriTable, id)
	}
	r.variants[id] = v
	return nil
}

// LoadDir builds a registry with every .toml table found in dir.
func LoadDir(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrHijriDataDir, err)
	}

	var tables []Variant
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), config.ExtTOML) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrHijriDataDir, err)
		}
		v, err := ParseTable(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		slog.Debug(config.MsgTableLoaded,
			config.LogKeyComponent, config.CompHijri,
			config.LogKeyFile, path,
			config.LogKeyVariant, v.ID(),
		)
		tables = append(tables, v)
	}
	return NewRegistry(tables...)
}

// IDs lists the registered ids and aliases, sorted.
func (r *Registry) IDs() []string {
	ids := slices.Collect(maps.Keys(r.variants))
	for alias := range aliases {
		ids = append(ids, alias)
	}
	slices.Sort(ids)
	return ids
}

// Lookup resolves an id, optionally followed by a day adjustment such as
// "islamic-umalqura@+1". Ids are case-insensitive.
func (r *Registry) Lookup(id string) (Variant, error) {
	key, adjustment, hasAdjustment := strings.Cut(strings.ToLower(strings.TrimSpace(id)), config.HijriAdjustmentSep)
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	v, ok := r.variants[key]
	if !ok {
		return nil, calerr.Unknown(id)
	}
	if !hasAdjustment {
		return v, nil
	}

	if len(adjustment) < 2 || (adjustment[0] != '+' && adjustment[0] != '-') {
		return nil, calerr.Unknown(id)
	}
	days, err := strconv.Atoi(adjustment)
	if err != nil {
		return nil, calerr.Unknown(id)
	}
	if days < -config.MaxHijriAdjustment || days > config.MaxHijriAdjustment {
		return nil, calerr.OutOfRange("adjustment", days, "expected -%d..+%d", config.MaxHijriAdjustment, config.MaxHijriAdjustment)
	}
	if days == 0 {
		return v, nil
	}
	return &adjusted{base: v, days: days}, nil
}

func tabularVariants() []Variant {
	patterns := []struct {
		name  string
		leaps [11]int
	}{
		{"east", leapsEast},
		{"west", leapsWest},
		{"fatimid", leapsFatimid},
		{"habashalhasib", leapsHabashAlHasib},
	}
	var out []Variant
	for _, p := range patterns {
		out = append(out,
			&tabular{id: "islamic-" + p.name + "c", leaps: p.leaps, epoch: civilEpoch},
			&tabular{id: "islamic-" + p.name + "a", leaps: p.leaps, epoch: astronomicalEpoch},
		)
	}
	return out
}

// adjusted shifts a variant by a few days: with a positive adjustment every
// month begins that many days earlier.
type adjusted struct {
	base Variant
	days int
}

func (a *adjusted) ID() string {
	return fmt.Sprintf("%s%s%+d", a.base.ID(), config.HijriAdjustmentSep, a.days)
}

func (a *adjusted) LengthOfMonth(year int, month Month) (int, error) {
	return a.base.LengthOfMonth(year, month)
}

func (a *adjusted) ToPivot(year int, month Month, day int) (pivot.Day, error) {
	p, err := a.base.ToPivot(year, month, day)
	if err != nil {
		return 0, err
	}
	return p.Plus(-a.days), nil
}

func (a *adjusted) FromPivot(d pivot.Day) (Date, error) {
	date, err := a.base.FromPivot(d.Plus(a.days))
	if err != nil {
		return Date{}, err
	}
	date.Variant = a.ID()
	return date, nil
}
