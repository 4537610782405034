package search

import (
	"strings"

	"hmvfinder/internal"
)

// Relevance scoring pre-ranks oversized categories (hearing aids carry tens
// of thousands of near-duplicate model variants) before faceting and
// pagination. The point values are tuning parameters inherited from field
// use, not correctness requirements.

const (
	pointsDeviceType   = 20
	pointsSeverity     = 5
	pointsFeatureBonus = 5
	featureBonusMin    = 3
)

// booleanFeaturePoints maps boolean criteria filter keys to their feature
// rule code and priority-tier points.
var booleanFeaturePoints = map[string]struct {
	code   string
	points int
}{
	"aufladbar":                 {"aufladbar", 10},
	"bluetooth":                 {"bluetooth", 10},
	"faltbar":                   {"faltbar", 10},
	"automatik":                 {"automatik", 8},
	"stoerschallunterdrueckung": {"stoerschallunterdrueckung", 8},
	"hoehenverstellbar":         {"hoehenverstellbar", 8},
	"telefonkompatibel":         {"telefonkompatibel", 6},
	"tvkompatibel":              {"tvkompatibel", 6},
	"bremsen":                   {"bremsen", 6},
	"sitzflaeche":               {"sitzflaeche", 6},
	"korb":                      {"korb", 5},
}

// deviceTypeKeywords maps the geraetetyp filter values to display-name
// keywords worth the device-type match.
var deviceTypeKeywords = map[string][]string{
	"hdo":              {"hdo", "hinter-dem-ohr", "bte"},
	"ido":              {"ido", "in-dem-ohr", "im-ohr", "ite"},
	"hoerbrille":       {"hörbrille", "hoerbrille", "brille"},
	"rollator":         {"rollator"},
	"gehwagen":         {"gehwagen"},
	"gehgestell":       {"gehgestell"},
	"gehstock":         {"gehstock", "handstock"},
	"gehstuetze":       {"gehstütze", "gehstuetze", "unterarm"},
	"rollstuhl":        {"rollstuhl"},
	"elektrorollstuhl": {"elektrorollstuhl", "e-rollstuhl"},
}

// severityFeatureCodes maps the schweregrad filter values to power-level
// feature codes appropriate for that hearing loss.
var severityFeatureCodes = map[string][]string{
	"leicht":               {"power_m"},
	"mittel":               {"power_m", "power_hp"},
	"hochgradig":           {"power_hp", "power_sp"},
	"an_taubheit_grenzend": {"power_up", "power_sp"},
}

// Score computes the additive relevance of one record against the
// criteria. Adding a matching boolean filter never decreases a record's
// score.
func Score(record internal.ProductRecord, criteria internal.SearchCriteria) int {
	name := record.Name
	lower := strings.ToLower(name)
	score := 0

	for _, value := range filterStrings(criteria.Filters["geraetetyp"]) {
		matched := false
		for _, keyword := range deviceTypeKeywords[value] {
			if strings.Contains(lower, keyword) {
				matched = true
				break
			}
		}
		if matched {
			score += pointsDeviceType
			break
		}
	}

	for key, entry := range booleanFeaturePoints {
		if wanted, ok := criteria.Filters[key].(bool); !ok || !wanted {
			continue
		}
		if MatchesFeature(name, entry.code) {
			score += entry.points
		}
	}

	for _, area := range filterStrings(criteria.Filters["einsatzbereich"]) {
		if MatchesFeature(name, area) {
			score += pointsSeverity
		}
	}

	for _, severity := range filterStrings(criteria.Filters["schweregrad"]) {
		matched := false
		for _, code := range severityFeatureCodes[severity] {
			if MatchesFeature(name, code) {
				matched = true
				break
			}
		}
		if matched {
			score += pointsSeverity
			break
		}
	}

	if decodedFeatureCount(name) >= featureBonusMin {
		score += pointsFeatureBonus
	}

	return score
}

func filterStrings(value any) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
