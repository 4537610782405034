package compare

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// The upstream catalog labels technical attributes inconsistently across
// near-identical products ("Gesamtbreite" vs "Breite gesamt"). Everything
// here is a pure, deterministic function of the static term tables so the
// fuzzy merge stays reproducible.

var stopWords = map[string]struct{}{
	"der": {}, "die": {}, "das": {}, "und": {}, "mit": {}, "ohne": {},
	"in": {}, "im": {}, "aus": {}, "auf": {}, "für": {}, "fuer": {},
	"bei": {}, "pro": {}, "ca": {}, "inkl": {}, "bzw": {}, "etwa": {},
	"cm": {}, "mm": {}, "kg": {}, "max": {}, "min": {},
}

// synonymTerms emits a canonical term whenever a label contains one of the
// listed substrings, so spelled-out variants land on the same term.
var synonymTerms = []struct {
	substrings []string
	term       string
}{
	{[]string{"kanal", "kanäle", "kanaele", "channel"}, "kanäle"},
	{[]string{"batterie", "battery"}, "batterie"},
	{[]string{"akku", "aufladbar", "rechargeab", "ladezeit"}, "akku"},
	{[]string{"gewicht", "weight"}, "gewicht"},
	{[]string{"breit"}, "breite"},
	{[]string{"höhe", "hoehe", "height"}, "höhe"},
	{[]string{"läng", "laeng", "length"}, "länge"},
	{[]string{"tief"}, "tiefe"},
	{[]string{"gesamt"}, "gesamt"},
	{[]string{"belast", "tragkraft", "tragfähigkeit", "tragfaehigkeit"}, "belastbarkeit"},
	{[]string{"sitzhöhe", "sitzhoehe"}, "sitzhöhe"},
	{[]string{"sitzbreite"}, "sitzbreite"},
	{[]string{"durchmesser"}, "durchmesser"},
	{[]string{"faltmaß", "faltmass"}, "faltmaß"},
	{[]string{"frequenz"}, "frequenz"},
	{[]string{"verstärkung", "verstaerkung", "gain"}, "verstärkung"},
	{[]string{"programm"}, "programme"},
	{[]string{"farbe", "colour", "color"}, "farbe"},
	{[]string{"material"}, "material"},
	{[]string{"bluetooth", "drahtlos", "wireless"}, "bluetooth"},
}

// specificTerms are precise enough that sharing a single one already makes
// two labels the same field.
var specificTerms = map[string]struct{}{
	"kanäle":        {},
	"gewicht":       {},
	"belastbarkeit": {},
	"sitzhöhe":      {},
	"sitzbreite":    {},
	"verstärkung":   {},
	"frequenz":      {},
	"durchmesser":   {},
	"faltmaß":       {},
	"bluetooth":     {},
}

// freeTextLabels never become comparison fields.
var freeTextLabels = []string{
	"sonstige", "bemerkung", "hinweis", "anmerkung", "beschreibung", "freitext",
}

var hedgeWords = []string{"ca.", "circa", "ungefähr", "etwa", "max.", "min.", "ggf."}

var standardPrefixes = []string{"gesamt", "sitz", "nutz"}

// extractTerms lowercases, tokenizes, drops stop-words and emits canonical
// synonym terms. The result is a sorted-free set; order never matters.
func extractTerms(label string) map[string]struct{} {
	lower := strings.ToLower(label)
	terms := map[string]struct{}{}

	for _, token := range strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len([]rune(token)) < 2 {
			continue
		}
		if _, stop := stopWords[token]; stop {
			continue
		}
		if isNumeric(token) {
			continue
		}
		terms[token] = struct{}{}
	}

	for _, syn := range synonymTerms {
		for _, sub := range syn.substrings {
			if strings.Contains(lower, sub) {
				terms[syn.term] = struct{}{}
				break
			}
		}
	}

	return terms
}

// similarTerms implements the label-merge rule: at least two shared terms,
// or one shared highly specific term.
func similarTerms(a, b map[string]struct{}) bool {
	shared := 0
	for term := range a {
		if _, ok := b[term]; !ok {
			continue
		}
		if _, specific := specificTerms[term]; specific {
			return true
		}
		shared++
		if shared >= 2 {
			return true
		}
	}
	return false
}

func isFreeTextLabel(label string) bool {
	lower := strings.ToLower(label)
	for _, marker := range freeTextLabels {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// betterLabel picks the preferred human-readable variant of two merged
// labels. existing wins every tie (first-seen).
func betterLabel(existing, candidate string) string {
	if p, ok := preferByParenthetical(existing, candidate); ok {
		return p
	}
	if p, ok := preferByHedging(existing, candidate); ok {
		return p
	}
	// A much shorter label is almost always the cleaner one.
	if len(candidate) < len(existing)*60/100 {
		return candidate
	}
	if len(existing) < len(candidate)*60/100 {
		return existing
	}
	if p, ok := preferByPrefix(existing, candidate); ok {
		return p
	}
	if len(candidate) < len(existing) {
		return candidate
	}
	return existing
}

func preferByParenthetical(existing, candidate string) (string, bool) {
	e := strings.ContainsAny(existing, "()")
	c := strings.ContainsAny(candidate, "()")
	if e == c {
		return "", false
	}
	if c {
		return existing, true
	}
	return candidate, true
}

func preferByHedging(existing, candidate string) (string, bool) {
	e := containsHedge(existing)
	c := containsHedge(candidate)
	if e == c {
		return "", false
	}
	if c {
		return existing, true
	}
	return candidate, true
}

func preferByPrefix(existing, candidate string) (string, bool) {
	e := hasStandardPrefix(existing)
	c := hasStandardPrefix(candidate)
	if e == c {
		return "", false
	}
	if e {
		return existing, true
	}
	return candidate, true
}

func containsHedge(label string) bool {
	lower := strings.ToLower(label)
	for _, hedge := range hedgeWords {
		if strings.Contains(lower, hedge) {
			return true
		}
	}
	return false
}

func hasStandardPrefix(label string) bool {
	lower := strings.ToLower(label)
	for _, prefix := range standardPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeKey builds the stable field key: diacritics folded, lowercased,
// every non-alphanumeric run collapsed to a single underscore.
func normalizeKey(label string) string {
	folded, _, err := transform.String(diacriticFolder, label)
	if err != nil {
		folded = label
	}
	folded = strings.ReplaceAll(folded, "ß", "ss")
	lower := strings.ToLower(folded)

	var b strings.Builder
	lastUnderscore := true
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}
