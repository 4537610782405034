package catalog

import (
	"context"
	"sync"
	"time"

	"hmvfinder/internal"
	"hmvfinder/internal/metrics"
)

// EnrichDetails fetches the raw technical-attribute lists for a shortlist
// of products. Fetches run in fixed-size batches with a bounded concurrency
// window and a short pause between batches so the upstream service is never
// burst. A failed detail fetch leaves the item's attribute list empty and
// never fails the batch; on context cancellation partial results are
// discarded.
func (s *Service) EnrichDetails(ctx context.Context, items []internal.ProductRecord) ([]internal.ProductRecord, error) {
	out := make([]internal.ProductRecord, len(items))
	copy(out, items)

	batchSize := s.cfg.DetailBatchSize
	if batchSize < 1 {
		batchSize = 1
	}
	window := s.cfg.DetailWindow
	if window < 1 {
		window = 1
	}
	delay := time.Duration(s.cfg.DetailBatchDelayMs) * time.Millisecond

	for start := 0; start < len(out); start += batchSize {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		end := start + batchSize
		if end > len(out) {
			end = len(out)
		}

		sem := make(chan struct{}, window)
		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			if len(out[i].Attributes) > 0 {
				continue
			}
			wg.Add(1)
			sem <- struct{}{}
			go func(i int) {
				defer wg.Done()
				defer func() { <-sem }()

				attrs, err := s.client.FetchProductDetail(ctx, out[i].ID)
				if err != nil {
					metrics.DetailFetches.WithLabelValues("error").Inc()
					s.log.Debug("detail fetch failed", map[string]any{
						"id":    out[i].ID,
						"error": err.Error(),
					})
					return
				}
				metrics.DetailFetches.WithLabelValues("ok").Inc()
				out[i].Attributes = attrs
				_ = s.cache.SetAttributes(out[i].ID, attrs)
			}(i)
		}
		wg.Wait()

		if end < len(out) && delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return out, nil
}
