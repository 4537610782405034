package criteria

// optionEffect is the partial criteria contributed by one selected
// questionnaire option.
type optionEffect struct {
	ProductGroups []string
	Filters       map[string]any
}

const questionCategory = "category"

// categoryDefaults is the fallback when a completed questionnaire derived
// no product groups: one default prefix per top-level category selection.
var categoryDefaults = map[string]string{
	"hoergeraete":   "13.20",
	"gehhilfen":     "10.46",
	"gehstoecke":    "10.50",
	"rollstuehle":   "18.50",
	"elektromobile": "18.51",
}

// questionOptions is the static question table: question id -> option
// value -> contributed criteria.
var questionOptions = map[string]map[string]optionEffect{
	"hoergeraet_bauform": {
		"hdo": {
			ProductGroups: []string{"13.20.03"},
			Filters:       map[string]any{"geraetetyp": "hdo"},
		},
		"ido": {
			ProductGroups: []string{"13.20.12"},
			Filters:       map[string]any{"geraetetyp": "ido"},
		},
		"hoerbrille": {
			ProductGroups: []string{"13.20.13"},
			Filters:       map[string]any{"geraetetyp": "hoerbrille"},
		},
		"egal": {
			ProductGroups: []string{"13.20"},
		},
	},
	"hoerverlust": {
		"leicht":               {Filters: map[string]any{"schweregrad": "leicht"}},
		"mittel":               {Filters: map[string]any{"schweregrad": "mittel"}},
		"hochgradig":           {Filters: map[string]any{"schweregrad": "hochgradig"}},
		"an_taubheit_grenzend": {Filters: map[string]any{"schweregrad": "an_taubheit_grenzend"}},
	},
	"hoergeraet_features": {
		"aufladbar":     {Filters: map[string]any{"aufladbar": true}},
		"bluetooth":     {Filters: map[string]any{"bluetooth": true}},
		"automatik":     {Filters: map[string]any{"automatik": true}},
		"stoerschall":   {Filters: map[string]any{"stoerschallunterdrueckung": true}},
		"telefonspule":  {Filters: map[string]any{"telefonkompatibel": true}},
		"tv_kompatibel": {Filters: map[string]any{"tvkompatibel": true}},
	},
	"mobilitaet_geraet": {
		"rollator": {
			ProductGroups: []string{"10.46.04"},
			Filters:       map[string]any{"geraetetyp": "rollator"},
		},
		"gehwagen": {
			ProductGroups: []string{"10.46.03"},
			Filters:       map[string]any{"geraetetyp": "gehwagen"},
		},
		"gehgestell": {
			ProductGroups: []string{"10.46.01"},
			Filters:       map[string]any{"geraetetyp": "gehgestell"},
		},
		"gehstock": {
			ProductGroups: []string{"10.50.01"},
			Filters:       map[string]any{"geraetetyp": "gehstock"},
		},
		"unterarmgehstuetze": {
			ProductGroups: []string{"10.50.02"},
			Filters:       map[string]any{"geraetetyp": "gehstuetze"},
		},
		"rollstuhl": {
			ProductGroups: []string{"18.50"},
			Filters:       map[string]any{"geraetetyp": "rollstuhl"},
		},
		"elektrorollstuhl": {
			ProductGroups: []string{"18.51"},
			Filters:       map[string]any{"geraetetyp": "elektrorollstuhl"},
		},
	},
	"mobilitaet_features": {
		"faltbar":           {Filters: map[string]any{"faltbar": true}},
		"hoehenverstellbar": {Filters: map[string]any{"hoehenverstellbar": true}},
		"bremsen":           {Filters: map[string]any{"bremsen": true}},
		"sitzflaeche":       {Filters: map[string]any{"sitzflaeche": true}},
		"korb":              {Filters: map[string]any{"korb": true}},
	},
	"einsatzbereich": {
		"innen":    {Filters: map[string]any{"einsatzbereich": []string{"innen"}}},
		"aussen":   {Filters: map[string]any{"einsatzbereich": []string{"aussen"}}},
		"gelaende": {Filters: map[string]any{"einsatzbereich": []string{"gelaende"}}},
	},
}
