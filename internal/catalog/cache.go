package catalog

import (
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"hmvfinder/internal"
	"hmvfinder/internal/metrics"
	"hmvfinder/internal/storage"
)

// SchemaVersion gates every cached payload. Bump it whenever the
// normalization logic or the cached shape changes; previously persisted
// entries are then discarded without manual cache busting.
const SchemaVersion = "hmv-v3"

const (
	keySchemaVersion    = "cache.schema_version"
	keyCatalogVersion   = "cache.catalog_version"
	keyCatalogFetchedAt = "cache.catalog_fetched_at"
	metaPrefix          = "meta."
)

// Cache is the durable, versioned store for the catalog and for small
// category metadata. The full catalog lives in sqlite; metadata entries are
// mirrored in an in-process TTL cache in front of the same sqlite table.
type Cache struct {
	db      *storage.DB
	mem     *gocache.Cache
	ttl     time.Duration
	version string
	now     func() time.Time
}

func NewCache(db *storage.DB, version string, catalogTTL, metaTTL time.Duration) (*Cache, error) {
	c := &Cache{
		db:      db,
		mem:     gocache.New(metaTTL, 10*time.Minute),
		ttl:     catalogTTL,
		version: version,
		now:     time.Now,
	}

	stored, err := db.GetMetadata(keySchemaVersion)
	if err != nil {
		return nil, err
	}
	if stored == nil || *stored != version {
		// Stale schema: wipe metadata wholesale and restamp. The catalog
		// payload keeps its own version stamp, written by SetCatalog, so
		// it is rejected on read and refetched on its own.
		if err := db.DeleteMetadataPrefix(metaPrefix); err != nil {
			return nil, err
		}
		if err := db.SetMetadata(keySchemaVersion, version); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Catalog returns the cached catalog when it is fresh and was written under
// the running schema version. Missing, expired or corrupt entries are a
// miss, never an error.
func (c *Cache) Catalog() ([]internal.ProductRecord, bool) {
	stamp, ok := c.catalogStamp()
	if !ok || c.now().Sub(stamp) >= c.ttl {
		metrics.CacheLookups.WithLabelValues("catalog", "miss").Inc()
		return nil, false
	}

	products, err := c.db.ListProducts()
	if err != nil || len(products) == 0 {
		metrics.CacheLookups.WithLabelValues("catalog", "miss").Inc()
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues("catalog", "hit").Inc()
	return products, true
}

// StaleCatalog returns an expired payload as a fallback of last resort for
// the network-failure path. Schema-version mismatches are still rejected.
func (c *Cache) StaleCatalog() ([]internal.ProductRecord, bool) {
	if _, ok := c.catalogStamp(); !ok {
		return nil, false
	}
	products, err := c.db.ListProducts()
	if err != nil || len(products) == 0 {
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues("catalog", "stale_hit").Inc()
	return products, true
}

// SetCatalog replaces the stored catalog atomically and stamps now.
func (c *Cache) SetCatalog(products []internal.ProductRecord) error {
	if err := c.db.ReplaceProducts(products); err != nil {
		return err
	}
	if err := c.db.SetMetadata(keyCatalogFetchedAt, strconv.FormatInt(c.now().Unix(), 10)); err != nil {
		return err
	}
	return c.db.SetMetadata(keyCatalogVersion, c.version)
}

// Invalidate drops the freshness stamp so the next read misses.
func (c *Cache) Invalidate() error {
	c.mem.Flush()
	return c.db.SetMetadata(keyCatalogFetchedAt, "0")
}

func (c *Cache) SetAttributes(id string, attrs []internal.AttributeEntry) error {
	return c.db.UpdateProductAttributes(id, attrs)
}

// GetMeta reads a small metadata entry (category tree index, per-category
// slices). Memory first, sqlite second.
func (c *Cache) GetMeta(key string) (string, bool) {
	if v, found := c.mem.Get(key); found {
		metrics.CacheLookups.WithLabelValues("metadata", "hit").Inc()
		return v.(string), true
	}
	stored, err := c.db.GetMetadata(metaPrefix + key)
	if err != nil || stored == nil {
		metrics.CacheLookups.WithLabelValues("metadata", "miss").Inc()
		return "", false
	}
	c.mem.Set(key, *stored, gocache.DefaultExpiration)
	metrics.CacheLookups.WithLabelValues("metadata", "hit").Inc()
	return *stored, true
}

func (c *Cache) SetMeta(key, value string) error {
	c.mem.Set(key, value, gocache.DefaultExpiration)
	return c.db.SetMetadata(metaPrefix+key, value)
}

// catalogStamp validates the catalog payload's own version stamp, not the
// schema key the constructor restamps, so a payload persisted under an old
// schema version stays rejected after reopening.
func (c *Cache) catalogStamp() (time.Time, bool) {
	version, err := c.db.GetMetadata(keyCatalogVersion)
	if err != nil || version == nil || *version != c.version {
		return time.Time{}, false
	}
	stored, err := c.db.GetMetadata(keyCatalogFetchedAt)
	if err != nil || stored == nil {
		return time.Time{}, false
	}
	unix, err := strconv.ParseInt(*stored, 10, 64)
	if err != nil || unix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
