// Package compare builds a stable comparison schema out of the
// heterogeneous free-text technical attributes of shortlisted products and
// extracts normalized values per item. It never raises: values not present
// in the source data are reported as unspecified, never inferred.
package compare

import (
	"strings"

	"hmvfinder/internal"
)

var iconRules = []struct {
	substrings []string
	icon       string
}{
	{[]string{"gewicht", "belast", "tragkraft"}, "scale"},
	{[]string{"breite", "höhe", "hoehe", "länge", "laenge", "tiefe", "maß", "mass", "durchmesser", "größe"}, "ruler"},
	{[]string{"akku", "batterie", "lade"}, "battery"},
	{[]string{"kanal", "kanäle", "programm", "frequenz", "verstärk"}, "equalizer"},
	{[]string{"bluetooth", "funk", "drahtlos", "wireless"}, "bluetooth"},
	{[]string{"farbe"}, "palette"},
	{[]string{"material"}, "layers"},
	{[]string{"rad", "reifen", "rolle"}, "wheel"},
	{[]string{"sitz"}, "chair"},
}

const defaultIcon = "info"

type fieldEntry struct {
	field internal.ComparisonField
	terms map[string]struct{}
}

// Schema accumulates discovered comparison fields. Adding items in several
// calls yields the same field set as one pass over the concatenation.
type Schema struct {
	entries      []fieldEntry
	fallbackIcon string
}

func NewSchema() *Schema {
	return &Schema{fallbackIcon: defaultIcon}
}

// NewSchemaFor seeds the fallback icon from the category the comparison
// runs in.
func NewSchemaFor(category string) *Schema {
	s := NewSchema()
	switch strings.SplitN(category, ".", 2)[0] {
	case "13":
		s.fallbackIcon = "hearing"
	case "10", "18", "22":
		s.fallbackIcon = "accessibility"
	}
	return s
}

// Add feeds the raw attribute labels of more items into the schema,
// merging near-duplicate labels into one field each.
func (s *Schema) Add(items ...internal.ProductRecord) {
	for _, item := range items {
		for _, attr := range item.Attributes {
			s.addLabel(attr.Label, attr.Value)
		}
	}
}

func (s *Schema) addLabel(label, value string) {
	label = strings.TrimSpace(label)
	if label == "" || isFreeTextLabel(label) {
		return
	}
	if isPlaceholderValue(value) {
		return
	}

	terms := extractTerms(label)
	for i := range s.entries {
		if !similarTerms(s.entries[i].terms, terms) {
			continue
		}
		// Merge: union the term sets and keep the better label. The key
		// stays as registered so downstream references remain stable.
		for term := range terms {
			s.entries[i].terms[term] = struct{}{}
		}
		s.entries[i].field.Label = betterLabel(s.entries[i].field.Label, label)
		return
	}

	s.entries = append(s.entries, fieldEntry{
		field: internal.ComparisonField{
			Key:   normalizeKey(label),
			Label: label,
			Icon:  iconFor(label, s.fallbackIcon),
		},
		terms: terms,
	})
}

// Fields returns the discovered schema in first-seen order.
func (s *Schema) Fields() []internal.ComparisonField {
	out := make([]internal.ComparisonField, len(s.entries))
	for i, entry := range s.entries {
		out[i] = entry.field
	}
	return out
}

// DiscoverFields builds the comparison schema for a set of shortlisted
// items in one pass.
func DiscoverFields(items []internal.ProductRecord, category string) []internal.ComparisonField {
	s := NewSchemaFor(category)
	s.Add(items...)
	return s.Fields()
}

func iconFor(label, fallback string) string {
	lower := strings.ToLower(label)
	for _, rule := range iconRules {
		for _, sub := range rule.substrings {
			if strings.Contains(lower, sub) {
				return rule.icon
			}
		}
	}
	return fallback
}

func isPlaceholderValue(value string) bool {
	switch strings.TrimSpace(value) {
	case "", "-", "k.A.", "k. A.", "keine Angabe", "n/a":
		return true
	default:
		return false
	}
}
