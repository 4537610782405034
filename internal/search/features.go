package search

import "strings"

// featureRule is one data-driven predicate over a product display name.
// Substrings are tested case-insensitively; tokens must match a whole
// uppercased word of the name (model tags like "HP" or "RIC").
type featureRule struct {
	substrings []string
	tokens     []string
}

// FeatureRules maps feature codes to their name predicates. The upstream
// data has no structured feature flags, so these substring/token tests are
// the business logic for feature detection and faceting.
var FeatureRules = map[string]featureRule{
	// Hearing-aid power levels.
	"power_m":  {tokens: []string{"M"}},
	"power_hp": {tokens: []string{"HP"}},
	"power_up": {tokens: []string{"UP"}},
	"power_sp": {tokens: []string{"SP"}},

	// Hearing-aid shell codes.
	"iic": {tokens: []string{"IIC"}},
	"cic": {tokens: []string{"CIC"}},
	"itc": {tokens: []string{"ITC"}},
	"ric": {tokens: []string{"RIC"}, substrings: []string{"ex-hörer", "ex-hoerer"}},
	"bte": {tokens: []string{"BTE", "HDO"}, substrings: []string{"hinter-dem-ohr"}},

	"aufladbar": {
		substrings: []string{"akku", "aufladbar", "rechargeable", "lithium", "li-ion", "charge"},
		tokens:     []string{"R", "RT"},
	},
	"bluetooth": {
		substrings: []string{"bluetooth", "direct", "connect"},
		tokens:     []string{"BT"},
	},
	"telefonspule": {
		substrings: []string{"telefonspule", "telecoil"},
		tokens:     []string{"T", "RT"},
	},
	"ki": {
		substrings: []string{"intelligen"},
		tokens:     []string{"AI", "KI"},
	},
	"automatik": {
		substrings: []string{"automatik", "automatic", "adapt"},
	},
	"stoerschallunterdrueckung": {
		substrings: []string{"störschall", "stoerschall", "noise", "geräuschunterdrück"},
	},
	"telefonkompatibel": {
		substrings: []string{"telefon", "phone"},
		tokens:     []string{"T"},
	},
	"tvkompatibel": {
		substrings: []string{"tv", "streamer", "audio"},
	},

	// Mobility-aid device tags.
	"rollator":  {substrings: []string{"rollator"}},
	"gehstock":  {substrings: []string{"gehstock", "handstock", "gehhilfe"}},
	"gehwagen":  {substrings: []string{"gehwagen", "gehgestell"}},
	"rollstuhl": {substrings: []string{"rollstuhl"}},

	// Mobility-aid feature tags.
	"faltbar":           {substrings: []string{"faltbar", "klappbar", "folding"}},
	"hoehenverstellbar": {substrings: []string{"höhenverstellbar", "hoehenverstellbar", "verstellbar"}},
	"bremsen":           {substrings: []string{"bremse"}},
	"sitzflaeche":       {substrings: []string{"sitz"}},
	"korb":              {substrings: []string{"korb", "tasche"}},
	"innen":             {substrings: []string{"innen", "indoor", "wohnung"}},
	"aussen":            {substrings: []string{"außen", "aussen", "outdoor"}},
	"gelaende":          {substrings: []string{"gelände", "gelaende", "robust", "offroad"}},

	// Wheel-count tags.
	"dreirad": {substrings: []string{"dreirad", "3-rad", "3 rad", "delta"}},
	"vierrad": {substrings: []string{"vierrad", "4-rad", "4 rad"}},
}

// MatchesFeature tests one product display name against a feature code.
// Unknown codes never match.
func MatchesFeature(name, code string) bool {
	rule, ok := FeatureRules[code]
	if !ok {
		return false
	}

	lower := strings.ToLower(name)
	for _, sub := range rule.substrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}

	if len(rule.tokens) > 0 {
		for _, token := range nameTokens(name) {
			for _, want := range rule.tokens {
				if token == want {
					return true
				}
			}
		}
	}
	return false
}

// nameTokens splits a display name into uppercased words. Hyphenated model
// tags ("P90-R") split into their parts.
func nameTokens(name string) []string {
	upper := strings.ToUpper(name)
	return strings.FieldsFunc(upper, func(r rune) bool {
		switch {
		case r >= 'A' && r <= 'Z':
			return false
		case r >= '0' && r <= '9':
			return false
		case r == 'Ä' || r == 'Ö' || r == 'Ü' || r == 'ß':
			return false
		default:
			return true
		}
	})
}

// decodedFeatureCount is the number of distinct feature rules a name
// satisfies; used by the relevance bonus.
func decodedFeatureCount(name string) int {
	count := 0
	for code := range FeatureRules {
		if MatchesFeature(name, code) {
			count++
		}
	}
	return count
}
