package catalog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hmvfinder/internal"
	"hmvfinder/internal/storage"
)

func openCacheDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestCache(t *testing.T, db *storage.DB, version string) *Cache {
	t.Helper()
	c, err := NewCache(db, version, 24*time.Hour, 10*time.Minute)
	require.NoError(t, err)
	return c
}

func sampleCatalog() []internal.ProductRecord {
	return []internal.ProductRecord{
		{ID: "a", Code: "13.20.03.1001", Name: "Audeo P90-R"},
		{ID: "b", Code: "10.46.04.0002", Name: "Rollator Topro"},
	}
}

func TestCatalogCacheHitWithinTTL(t *testing.T) {
	db := openCacheDB(t)
	c := newTestCache(t, db, SchemaVersion)

	_, ok := c.Catalog()
	require.False(t, ok)

	require.NoError(t, c.SetCatalog(sampleCatalog()))

	got, ok := c.Catalog()
	require.True(t, ok)
	require.Len(t, got, 2)
}

func TestCatalogCacheExpiryAndStaleFallback(t *testing.T) {
	db := openCacheDB(t)
	c := newTestCache(t, db, SchemaVersion)
	require.NoError(t, c.SetCatalog(sampleCatalog()))

	c.now = func() time.Time { return time.Now().Add(25 * time.Hour) }

	_, ok := c.Catalog()
	require.False(t, ok)

	stale, ok := c.StaleCatalog()
	require.True(t, ok)
	require.Len(t, stale, 2)
}

func TestSchemaVersionMismatchIsAlwaysAMiss(t *testing.T) {
	db := openCacheDB(t)
	old := newTestCache(t, db, "hmv-v2")
	require.NoError(t, old.SetCatalog(sampleCatalog()))

	// Reopen under the current schema version. Even a fresh entry written
	// under the old version must never be returned, not even as stale.
	c := newTestCache(t, db, SchemaVersion)

	_, ok := c.Catalog()
	require.False(t, ok)
	_, ok = c.StaleCatalog()
	require.False(t, ok)

	// The metadata namespace was wiped on the version bump.
	_, ok = c.GetMeta("category_tree_index")
	require.False(t, ok)

	// The banished payload stays banished across another reopen; only a
	// write under the running version makes it servable again.
	c = newTestCache(t, db, SchemaVersion)
	_, ok = c.Catalog()
	require.False(t, ok)

	require.NoError(t, c.SetCatalog(sampleCatalog()))
	products, ok := c.Catalog()
	require.True(t, ok)
	require.Len(t, products, 2)
}

func TestSchemaVersionBumpWipesMetadata(t *testing.T) {
	db := openCacheDB(t)
	old := newTestCache(t, db, "hmv-v2")
	require.NoError(t, old.SetMeta("category_tree_index", `{"13":"n13"}`))

	c := newTestCache(t, db, SchemaVersion)
	_, ok := c.GetMeta("category_tree_index")
	require.False(t, ok)

	require.NoError(t, c.SetMeta("category_tree_index", `{"13":"n13b"}`))
	got, ok := c.GetMeta("category_tree_index")
	require.True(t, ok)
	require.Equal(t, `{"13":"n13b"}`, got)
}

func TestCorruptFreshnessStampIsAMiss(t *testing.T) {
	db := openCacheDB(t)
	c := newTestCache(t, db, SchemaVersion)
	require.NoError(t, c.SetCatalog(sampleCatalog()))

	require.NoError(t, db.SetMetadata("cache.catalog_fetched_at", "not-a-number"))

	_, ok := c.Catalog()
	require.False(t, ok)
	_, ok = c.StaleCatalog()
	require.False(t, ok)
}

func TestInvalidateForcesMiss(t *testing.T) {
	db := openCacheDB(t)
	c := newTestCache(t, db, SchemaVersion)
	require.NoError(t, c.SetCatalog(sampleCatalog()))

	require.NoError(t, c.Invalidate())

	_, ok := c.Catalog()
	require.False(t, ok)
}

func TestMetaSurvivesMemoryEviction(t *testing.T) {
	db := openCacheDB(t)
	c := newTestCache(t, db, SchemaVersion)
	require.NoError(t, c.SetMeta("slice.13.20", "[1,2,3]"))

	// Drop the in-process mirror; the sqlite row must still serve.
	c.mem.Flush()

	got, ok := c.GetMeta("slice.13.20")
	require.True(t, ok)
	require.Equal(t, "[1,2,3]", got)
}
