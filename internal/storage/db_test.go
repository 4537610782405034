package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"hmvfinder/internal"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sp(v string) *string { return &v }

func fp(v float64) *float64 { return &v }

func TestReplaceAndListProducts(t *testing.T) {
	db := openTestDB(t)

	first := []internal.ProductRecord{
		{ID: "a", Code: "13.20.03.1001", Name: "Audeo P90-R", Manufacturer: sp("Phonak"), Price: fp(1450.50)},
		{ID: "b", Code: "10.46.04.0002", Name: "Rollator Topro"},
	}
	require.NoError(t, db.ReplaceProducts(first))

	got, err := db.ListProducts()
	require.NoError(t, err)
	require.Len(t, got, 2)

	byID := map[string]internal.ProductRecord{}
	for _, p := range got {
		byID[p.ID] = p
	}
	require.Equal(t, "Audeo P90-R", byID["a"].Name)
	require.NotNil(t, byID["a"].Manufacturer)
	require.Equal(t, "Phonak", *byID["a"].Manufacturer)
	require.NotNil(t, byID["a"].Price)
	require.InDelta(t, 1450.50, *byID["a"].Price, 0.001)
	require.Nil(t, byID["b"].Manufacturer)

	// Replace swaps wholesale, it never merges.
	require.NoError(t, db.ReplaceProducts([]internal.ProductRecord{
		{ID: "c", Code: "18.50.02.0001", Name: "Rollstuhl"},
	}))
	got, err = db.ListProducts()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "c", got[0].ID)

	n, err := db.CountProducts()
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestUpdateProductAttributes(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.ReplaceProducts([]internal.ProductRecord{
		{ID: "a", Code: "13.20.03.1001", Name: "Audeo"},
	}))

	attrs := []internal.AttributeEntry{
		{Label: "Kanäle", Value: "20"},
		{Label: "Akku", Value: "ja"},
	}
	require.NoError(t, db.UpdateProductAttributes("a", attrs))

	got, err := db.ListProducts()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, attrs, got[0].Attributes)
}

func TestMetadataRoundTrip(t *testing.T) {
	db := openTestDB(t)

	missing, err := db.GetMetadata("nothing")
	require.NoError(t, err)
	require.Nil(t, missing)

	require.NoError(t, db.SetMetadata("meta.tree", "v1"))
	require.NoError(t, db.SetMetadata("meta.slice", "v2"))
	require.NoError(t, db.SetMetadata("cache.schema_version", "hmv-v3"))

	got, err := db.GetMetadata("meta.tree")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "v1", *got)

	// Upsert overwrites in place.
	require.NoError(t, db.SetMetadata("meta.tree", "v9"))
	got, err = db.GetMetadata("meta.tree")
	require.NoError(t, err)
	require.Equal(t, "v9", *got)

	require.NoError(t, db.DeleteMetadataPrefix("meta."))
	got, err = db.GetMetadata("meta.tree")
	require.NoError(t, err)
	require.Nil(t, got)

	kept, err := db.GetMetadata("cache.schema_version")
	require.NoError(t, err)
	require.NotNil(t, kept)
}
