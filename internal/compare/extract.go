package compare

import (
	"strings"

	"hmvfinder/internal"
)

// extractionPatterns maps a top-level category to known label substrings
// per field key. The static table is tried before the fuzzy label lookup
// because it carries curated knowledge about how manufacturers in that
// group label their data sheets.
var extractionPatterns = map[string]map[string][]string{
	"13": {
		"kanale":          {"kanäle", "kanal", "channel"},
		"akku":            {"akku", "aufladbar", "ladezeit"},
		"batterietyp":     {"batterie", "battery"},
		"verstarkung":     {"verstärkung", "gain"},
		"frequenzbereich": {"frequenz"},
		"programme":       {"programm"},
		"bluetooth":       {"bluetooth", "drahtlos", "wireless"},
	},
	"10": {
		"gesamtbreite":  {"gesamtbreite", "breite"},
		"gesamthohe":    {"gesamthöhe", "gesamthoehe", "höhe"},
		"gewicht":       {"gewicht"},
		"belastbarkeit": {"belastbarkeit", "belastung", "tragkraft"},
		"sitzhohe":      {"sitzhöhe", "sitzhoehe"},
		"faltmass":      {"faltmaß", "faltmass"},
	},
	"18": {
		"sitzbreite":    {"sitzbreite"},
		"sitzhohe":      {"sitzhöhe", "sitzhoehe"},
		"gesamtbreite":  {"gesamtbreite", "breite"},
		"gewicht":       {"gewicht"},
		"belastbarkeit": {"belastbarkeit", "zuladung", "tragkraft"},
		"reichweite":    {"reichweite"},
	},
}

var affirmativeValues = map[string]struct{}{
	"ja": {}, "vorhanden": {}, "x": {}, "yes": {},
}

var negativeValues = map[string]struct{}{
	"nein": {}, "nicht vorhanden": {}, "no": {}, "ohne": {},
}

// ExtractFields resolves every target field against one item's raw
// attributes: static pattern table first, fuzzy label lookup second.
// Unmatched fields are reported as unspecified, never guessed.
func ExtractFields(item internal.ProductRecord, fields []internal.ComparisonField, category string) internal.ExtractedSpec {
	spec := make(internal.ExtractedSpec, len(fields))
	patterns := extractionPatterns[strings.SplitN(category, ".", 2)[0]]

	for _, field := range fields {
		raw, found := lookupByPatterns(item.Attributes, patterns[field.Key])
		if !found {
			raw, found = lookupByLabel(item.Attributes, field.Label)
		}
		if !found {
			spec[field.Key] = internal.FieldUnspecified
			continue
		}
		spec[field.Key] = cleanValue(raw)
	}

	return spec
}

func lookupByPatterns(attrs []internal.AttributeEntry, patterns []string) (string, bool) {
	for _, pattern := range patterns {
		for _, attr := range attrs {
			if strings.Contains(strings.ToLower(attr.Label), pattern) {
				return attr.Value, true
			}
		}
	}
	return "", false
}

func lookupByLabel(attrs []internal.AttributeEntry, label string) (string, bool) {
	want := extractTerms(label)
	for _, attr := range attrs {
		if strings.EqualFold(strings.TrimSpace(attr.Label), strings.TrimSpace(label)) {
			return attr.Value, true
		}
	}
	for _, attr := range attrs {
		if similarTerms(want, extractTerms(attr.Label)) {
			return attr.Value, true
		}
	}
	return "", false
}

// cleanValue trims and canonicalizes boolean-style answers. Longer
// descriptive values stay verbatim rather than being coerced.
func cleanValue(raw string) string {
	value := strings.TrimSpace(raw)
	if isPlaceholderValue(value) {
		return internal.FieldUnspecified
	}

	lower := strings.ToLower(value)
	if _, ok := affirmativeValues[lower]; ok {
		return "Ja"
	}
	if _, ok := negativeValues[lower]; ok {
		return "Nein"
	}
	return value
}
