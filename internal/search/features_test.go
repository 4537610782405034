package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchesFeatureSubstrings(t *testing.T) {
	require.True(t, MatchesFeature("Audeo Lumity L90 Akku", "aufladbar"))
	require.True(t, MatchesFeature("Rollator Topro Troja faltbar", "faltbar"))
	require.True(t, MatchesFeature("Gehstock mit Außeneinsatz", "aussen"))
	require.False(t, MatchesFeature("Rollator Topro Troja", "aufladbar"))
}

func TestMatchesFeatureTokens(t *testing.T) {
	// Model tags only count as whole uppercase words.
	require.True(t, MatchesFeature("Audeo P90-R", "aufladbar"))
	require.True(t, MatchesFeature("Pure Charge&Go 7AX HP", "power_hp"))
	require.False(t, MatchesFeature("Hoarer Komfort", "power_hp"))
	require.False(t, MatchesFeature("Resound", "aufladbar"))
}

func TestMatchesFeatureHyphenatedTags(t *testing.T) {
	require.True(t, MatchesFeature("Stride M-T", "telefonspule"))
	require.True(t, MatchesFeature("Viron 9 RT", "aufladbar"))
	require.True(t, MatchesFeature("Stride M BTE", "bte"))
}

func TestMatchesFeatureUnknownCode(t *testing.T) {
	require.False(t, MatchesFeature("Audeo P90-R Akku Bluetooth", "no_such_feature"))
}

func TestMatchesFeatureCaseInsensitive(t *testing.T) {
	require.True(t, MatchesFeature("ROLLATOR GEMINO 30", "rollator"))
	require.True(t, MatchesFeature("rollator gemino 30", "rollator"))
}

func TestDecodedFeatureCount(t *testing.T) {
	// "Rollator faltbar mit Korb" carries at least three decodable tags.
	require.GreaterOrEqual(t, decodedFeatureCount("Rollator faltbar mit Korb"), 3)
	require.Equal(t, 0, decodedFeatureCount("Xyzzy"))
}
