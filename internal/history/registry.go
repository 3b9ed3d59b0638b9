package history

import (
	"strings"

	"github.com/tartampluch/go-historic/internal/calerr"
	"github.com/tartampluch/go-historic/internal/pivot"
	"golang.org/x/text/language"
)

// Named variant keys accepted by Lookup.
const (
	KeyProlepticJulian      = "proleptic-julian"
	KeyProlepticGregorian   = "proleptic-gregorian"
	KeyProlepticByzantine   = "proleptic-byzantine"
	KeyFirstGregorianReform = "first-gregorian-reform"
	KeySweden               = "sweden"
)

// The tables below are filled once during package initialization and only
// read afterwards.
var (
	named   map[string]*Variant
	regions map[string]*Variant
)

func init() {
	named = map[string]*Variant{
		KeyProlepticJulian:      ProlepticJulian(),
		KeyProlepticGregorian:   ProlepticGregorian(),
		KeyProlepticByzantine:   ProlepticByzantine(),
		KeyFirstGregorianReform: FirstGregorianReform(),
		KeySweden:               Sweden(),
	}

	first := FirstGregorianReform()
	british := reform(1752, 9, 14).WithNewYear(
		ChristmasStyle.Until(1087).
			And(BeginOfJanuary.Until(1155)).
			And(Annunciation.Until(1752)))
	nordic := Sweden()
	danish := reform(1700, 3, 1)

	regions = map[string]*Variant{
		"IT": first,
		"PL": first,
		"DE": first,
		"ES": first.WithEraPreference(HispanicUntil(mustDay(pivot.Julian, 1383, 12, 25))),
		"PT": first.WithEraPreference(HispanicUntil(mustDay(pivot.Julian, 1422, 8, 15))),
		"FR": reform(1582, 12, 20),
		"GB": british,
		"IE": british,
		"US": british,
		"SE": nordic,
		"FI": nordic,
		"DK": danish,
		"NO": danish,
		"RU": reform(1918, 2, 14).
			WithNewYear(BeginOfMarch.Until(1492).And(BeginOfSeptember.Until(1700))).
			WithEraPreference(ByzantineUntil(mustDay(pivot.Julian, 1700, 1, 1))),
		"BG": reform(1916, 4, 14),
		"RO": reform(1919, 4, 14),
		"GR": reform(1923, 3, 1),
	}
}

// reform builds a cutover variant from the first Gregorian date.
func reform(y, m, d int) *Variant {
	v, err := OfGregorianReform(mustDay(pivot.Gregorian, y, m, d))
	if err != nil {
		panic(err)
	}
	return v
}

// Lookup returns the variant of a named key ("sweden", "proleptic-julian"...)
// or of a region, given as a region code ("GB", "gb") or a locale ("en-GB",
// "sv_SE", "ru"). A bare language uses its most likely region.
func Lookup(key string) (*Variant, error) {
	k, err := CanonicalKey(key)
	if err != nil {
		return nil, err
	}
	if v, ok := named[k]; ok {
		return v, nil
	}
	return regions[strings.ToUpper(k)], nil
}

// CanonicalKey returns the lower-case key a variant is filed under: the named
// key, or the region code of a locale ("en-GB" and "GB" give "gb"). Two
// letters naming a known region are read as that region, so "se" is Sweden
// and not the Northern Sami language.
func CanonicalKey(key string) (string, error) {
	k := strings.TrimSpace(key)
	if _, ok := named[strings.ToLower(k)]; ok {
		return strings.ToLower(k), nil
	}
	if len(k) == 2 {
		if _, ok := regions[strings.ToUpper(k)]; ok {
			return strings.ToLower(k), nil
		}
	}
	region, ok := regionOf(k)
	if !ok {
		return "", calerr.Unknown(key)
	}
	if _, ok := regions[region.String()]; !ok {
		return "", calerr.Unknown(key)
	}
	return strings.ToLower(region.String()), nil
}

// Regions lists the region codes known to Lookup.
func Regions() []string {
	out := make([]string, 0, len(regions))
	for r := range regions {
		out = append(out, r)
	}
	return out
}

func regionOf(key string) (language.Region, bool) {
	k := strings.ReplaceAll(key, "_", "-")
	if k == "" {
		return language.Region{}, false
	}
	if isRegionCode(k) {
		r, err := language.ParseRegion(k)
		return r, err == nil
	}
	tag, err := language.Parse(k)
	if err != nil {
		r, err := language.ParseRegion(k)
		return r, err == nil
	}
	r, conf := tag.Region()
	return r, conf != language.No
}

// isRegionCode matches "GB" or "419": an upper-case ISO 3166 code or a UN M.49
// number, which language.Parse would read as a language.
func isRegionCode(s string) bool {
	if len(s) == 3 {
		for _, c := range s {
			if c < '0' || c > '9' {
				return false
			}
		}
		return true
	}
	return len(s) == 2 && s[0] >= 'A' && s[0] <= 'Z' && s[1] >= 'A' && s[1] <= 'Z'
}
