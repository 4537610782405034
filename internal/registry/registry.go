// Package registry maps category-code prefixes of the Hilfsmittelverzeichnis
// to human-readable names.
package registry

import "strings"

// categoryNames is keyed by two-segment or longer prefixes; lookups pick
// the longest specific match.
var categoryNames = map[string]string{
	"04.40": "Badewannenhilfen",
	"04.41": "Duschhilfen",
	"05.01": "Bandagen für den Kopfbereich",
	"05.05": "Schulterbandagen",
	"05.07": "Ellenbogenbandagen",

	"10.46":    "Gehgestelle und Gehwagen",
	"10.46.01": "Gehgestelle",
	"10.46.02": "Reziproke Gehgestelle",
	"10.46.03": "Gehwagen",
	"10.46.04": "Rollatoren",
	"10.46.05": "Deltaräder",
	"10.50":    "Gehstöcke und Gehstützen",
	"10.50.01": "Handstöcke",
	"10.50.02": "Unterarmgehstützen",
	"10.50.04": "Mehrfußgehhilfen",
	"10.99":    "Abrechnungspositionen Gehhilfen",

	"11.11": "Anti-Dekubitus-Matratzen",
	"11.29": "Anti-Dekubitus-Sitzkissen",

	"13.20":    "Hörgeräte",
	"13.20.01": "Taschenhörgeräte",
	"13.20.03": "Hinter-dem-Ohr-Geräte",
	"13.20.12": "In-dem-Ohr-Geräte",
	"13.20.13": "Hörbrillen",
	"13.20.16": "Knochenleitungshörgeräte",
	"13.20.22": "Tinnitusgeräte",
	"13.99":    "Abrechnungspositionen Hörhilfen",

	"14.24": "Inhalationsgeräte",
	"14.29": "Atemtherapiegeräte",

	"15.25": "Saugende Inkontinenzvorlagen",
	"15.29": "Externe Urinableiter",

	"17.06": "Kompressionsstrümpfe",

	"18.46":    "Duschrollstühle",
	"18.50":    "Standardrollstühle",
	"18.50.01": "Faltrollstühle",
	"18.50.02": "Starrahmenrollstühle",
	"18.50.03": "Leichtgewichtrollstühle",
	"18.50.04": "Aktivrollstühle",
	"18.51":    "Elektrorollstühle",
	"18.51.02": "Elektrorollstühle für den Innenraum",
	"18.51.03": "Elektrorollstühle für den Außenbereich",
	"18.99":    "Abrechnungspositionen Kranken- und Behindertenfahrzeuge",

	"19.40": "Pflegebetten",

	"20.29": "Lagerungskissen",

	"21.28": "Blutdruckmessgeräte",
	"21.33": "Blutzuckermessgeräte",

	"22.29": "Mobilitätshilfen für den Transfer",
	"22.40": "Umsetz- und Hebehilfen",
	"22.50": "Treppensteighilfen",
	"22.51": "Rampen",

	"23.04": "Fußorthesen",
	"23.08": "Knieorthesen",
	"23.12": "Hüftorthesen",
	"23.14": "Rumpforthesen",

	"24.24": "Beinprothesen",
	"24.27": "Armprothesen",

	"25.21": "Brillengläser",
	"25.23": "Kontaktlinsen",
	"25.50": "Vergrößernde Sehhilfen",

	"26.11": "Sitzschalen",
	"26.46": "Therapiestühle",

	"28.29": "Stehständer",

	"29.26": "Kolostomiebeutel",

	"31.03": "Orthopädische Maßschuhe",

	"32.06": "Bewegungstrainer",

	"33.40": "Toilettensitzerhöhungen",
	"33.46": "Toilettenstühle",

	"50.45": "Pflegehilfsmittel zur Körperpflege",
}

// Name resolves a category code to its display name. The longest matching
// prefix wins; unknown codes fall back to "Category {code}".
func Name(code string) string {
	code = strings.TrimSpace(code)
	segments := strings.Split(code, ".")
	for i := len(segments); i >= 2; i-- {
		prefix := strings.Join(segments[:i], ".")
		if name, ok := categoryNames[prefix]; ok {
			return name
		}
	}
	return "Category " + code
}

// Known reports whether any registry entry covers the code.
func Known(code string) bool {
	segments := strings.Split(strings.TrimSpace(code), ".")
	for i := len(segments); i >= 2; i-- {
		if _, ok := categoryNames[strings.Join(segments[:i], ".")]; ok {
			return true
		}
	}
	return false
}
