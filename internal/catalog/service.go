package catalog

import (
	"context"
	"encoding/json"
	"time"

	"hmvfinder/internal"
	"hmvfinder/internal/config"
	"hmvfinder/internal/logger"
	"hmvfinder/internal/storage"
)

const keyTreeIndex = "category_tree_index"

// Service is the cache-first access path to the upstream catalog.
type Service struct {
	cache  *Cache
	client *Client
	cfg    config.Config
	log    logger.Logger
}

func NewService(db *storage.DB, cfg config.Config, log logger.Logger) (*Service, error) {
	cache, err := NewCache(
		db,
		SchemaVersion,
		time.Duration(cfg.CatalogTTLHours)*time.Hour,
		time.Duration(cfg.MetadataTTLMinutes)*time.Minute,
	)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{cache: cache, client: NewClient(cfg), cfg: cfg, log: log}, nil
}

func (s *Service) Cache() *Cache   { return s.cache }
func (s *Service) Client() *Client { return s.client }

// Catalog returns the normalized catalog, cache-first. The boolean flag
// reports cache origin and exists for observability only. After exhausted
// retries an expired cached payload is served before the failure
// propagates.
func (s *Service) Catalog(ctx context.Context) ([]internal.ProductRecord, bool, error) {
	if products, ok := s.cache.Catalog(); ok {
		return products, true, nil
	}

	products, err := s.client.FetchCatalog(ctx)
	if err != nil {
		if stale, ok := s.cache.StaleCatalog(); ok {
			s.log.Warn("serving stale catalog after fetch failure", map[string]any{
				"error": err.Error(),
				"count": len(stale),
			})
			return stale, true, nil
		}
		return nil, false, err
	}

	if err := s.cache.SetCatalog(products); err != nil {
		s.log.Warn("catalog cache write failed", map[string]any{"error": err.Error()})
	}
	s.log.Info("catalog refreshed", map[string]any{"count": len(products)})
	return products, false, nil
}

// Refresh bypasses the freshness check and refetches unconditionally.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	products, err := s.client.FetchCatalog(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.cache.SetCatalog(products); err != nil {
		return 0, err
	}
	return len(products), nil
}

// TreeIndex returns the flat category-code to identifier map, cached under
// the schema-version gate.
func (s *Service) TreeIndex(ctx context.Context) (map[string]string, error) {
	if blob, ok := s.cache.GetMeta(keyTreeIndex); ok {
		var index map[string]string
		if err := json.Unmarshal([]byte(blob), &index); err == nil {
			return index, nil
		}
		// Corrupt cached JSON is a miss.
	}

	index, err := s.client.FetchCategoryTree(ctx, s.cfg.TreeDepth)
	if err != nil {
		return nil, err
	}
	blob, _ := json.Marshal(index)
	if err := s.cache.SetMeta(keyTreeIndex, string(blob)); err != nil {
		s.log.Warn("tree index cache write failed", map[string]any{"error": err.Error()})
	}
	return index, nil
}
