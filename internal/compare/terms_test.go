package compare

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractTermsDropsStopWordsAndNumbers(t *testing.T) {
	terms := extractTerms("Breite der Sitzfläche in cm (max. 48)")
	require.Contains(t, terms, "breite")
	require.Contains(t, terms, "sitzfläche")
	require.NotContains(t, terms, "der")
	require.NotContains(t, terms, "in")
	require.NotContains(t, terms, "cm")
	require.NotContains(t, terms, "48")
}

func TestExtractTermsEmitsSynonymTerms(t *testing.T) {
	require.Contains(t, extractTerms("Anzahl Channels"), "kanäle")
	require.Contains(t, extractTerms("Anzahl Kanaele"), "kanäle")
	require.Contains(t, extractTerms("Ladezeit"), "akku")
	require.Contains(t, extractTerms("Tragkraft"), "belastbarkeit")
}

func TestSimilarTermsRules(t *testing.T) {
	// Two shared generic terms merge.
	require.True(t, similarTerms(extractTerms("Gesamtbreite"), extractTerms("Breite gesamt")))
	// One shared generic term does not.
	require.False(t, similarTerms(extractTerms("Gesamtbreite"), extractTerms("Gesamthöhe")))
	// One shared specific term is enough.
	require.True(t, similarTerms(extractTerms("Anzahl Kanäle"), extractTerms("Channels")))
	require.False(t, similarTerms(extractTerms("Gewicht"), extractTerms("Farbe")))
}

func TestBetterLabelPreference(t *testing.T) {
	// Plain beats parenthetical.
	require.Equal(t, "Gesamtbreite", betterLabel("Gesamtbreite", "Breite (gesamt, cm)"))
	require.Equal(t, "Gesamtbreite", betterLabel("Breite (gesamt, cm)", "Gesamtbreite"))
	// Unhedged beats hedged.
	require.Equal(t, "Gewicht", betterLabel("Gewicht ca. 7 kg", "Gewicht"))
	// Much shorter wins.
	require.Equal(t, "Breite", betterLabel("Breite über alles einschließlich Radabdeckung", "Breite"))
	// Standard prefix wins among comparable lengths.
	require.Equal(t, "Sitzbreite", betterLabel("Sitzbreite", "Breite Netz"))
	// First-seen wins ties.
	require.Equal(t, "Breite", betterLabel("Breite", "Weite2"))
}

func TestNormalizeKeyFoldsDiacritics(t *testing.T) {
	require.Equal(t, "sitzhohe", normalizeKey("Sitzhöhe"))
	require.Equal(t, "faltmass", normalizeKey("Faltmaß"))
	require.Equal(t, "gesamtbreite_cm", normalizeKey("Gesamtbreite (cm)"))
	require.Equal(t, "belastbarkeit", normalizeKey("  Belastbarkeit  "))
	require.Equal(t, "anzahl_kanale", normalizeKey("Anzahl Kanäle"))
}
