package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"hmvfinder/internal"
)

func record(name string) internal.ProductRecord {
	return internal.ProductRecord{ID: name, Code: "13.20.03.0001", Name: name}
}

func TestScoreDeviceTypeMatch(t *testing.T) {
	crit := internal.SearchCriteria{Filters: map[string]any{"geraetetyp": "rollator"}}

	require.Equal(t, pointsDeviceType, Score(record("Rollator Gemino 30"), crit)-Score(record("Gehwagen Standard"), crit))
}

func TestScoreBooleanFeaturePoints(t *testing.T) {
	crit := internal.SearchCriteria{Filters: map[string]any{"aufladbar": true}}

	withAkku := Score(record("Audeo Lumity Akku"), crit)
	without := Score(record("Audeo Lumity"), crit)
	require.Greater(t, withAkku, without)
}

func TestScoreSeverityPowerLevel(t *testing.T) {
	crit := internal.SearchCriteria{Filters: map[string]any{"schweregrad": "hochgradig"}}

	hp := Score(record("Enya 4 HP"), crit)
	plain := Score(record("Enya 4"), crit)
	require.Equal(t, pointsSeverity, hp-plain)
}

func TestScoreIsMonotonicInMatchingFilters(t *testing.T) {
	rec := record("Audeo Lumity L90-R Akku Bluetooth")

	base := internal.SearchCriteria{Filters: map[string]any{}}
	withFeature := internal.SearchCriteria{Filters: map[string]any{"aufladbar": true}}
	withBoth := internal.SearchCriteria{Filters: map[string]any{"aufladbar": true, "bluetooth": true}}

	s0 := Score(rec, base)
	s1 := Score(rec, withFeature)
	s2 := Score(rec, withBoth)
	require.LessOrEqual(t, s0, s1)
	require.LessOrEqual(t, s1, s2)
}

func TestScoreUnmatchedFilterAddsNothing(t *testing.T) {
	rec := record("Gehstock Classic")

	base := Score(rec, internal.SearchCriteria{Filters: map[string]any{}})
	withFilter := Score(rec, internal.SearchCriteria{Filters: map[string]any{"bluetooth": true}})
	require.Equal(t, base, withFilter)
}

func TestScoreFeatureRichBonus(t *testing.T) {
	crit := internal.SearchCriteria{Filters: map[string]any{}}

	rich := Score(record("Rollator faltbar höhenverstellbar mit Korb und Bremse"), crit)
	poor := Score(record("Gehhilfe"), crit)
	require.Equal(t, pointsFeatureBonus, rich-poor)
}
