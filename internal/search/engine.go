package search

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"hmvfinder/internal"
	"hmvfinder/internal/catalog"
	"hmvfinder/internal/config"
	"hmvfinder/internal/logger"
	"hmvfinder/internal/metrics"
	"hmvfinder/internal/registry"
)

// filterPrefixes maps "key=value" filter pairs to additional candidate
// category prefixes. Many-to-many; unmapped pairs contribute nothing.
var filterPrefixes = map[string][]string{
	"geraetetyp=hdo":              {"13.20.03"},
	"geraetetyp=ido":              {"13.20.12"},
	"geraetetyp=hoerbrille":       {"13.20.13"},
	"geraetetyp=rollator":         {"10.46.04"},
	"geraetetyp=gehwagen":         {"10.46.03"},
	"geraetetyp=gehgestell":       {"10.46.01", "10.46.02"},
	"geraetetyp=gehstock":         {"10.50.01"},
	"geraetetyp=gehstuetze":       {"10.50.02"},
	"geraetetyp=rollstuhl":        {"18.50"},
	"geraetetyp=elektrorollstuhl": {"18.51"},
}

type Options struct {
	Page           int
	PageSize       int
	CategoryFilter string
	FeatureFilters []string
}

type Engine struct {
	svc *catalog.Service
	cfg config.Config
	log logger.Logger
}

func NewEngine(svc *catalog.Service, cfg config.Config, log logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNop()
	}
	return &Engine{svc: svc, cfg: cfg, log: log}
}

// Search runs the full pipeline: category filter, relevance pre-ranking
// when the category set is oversized, drill-down and feature filters,
// deterministic ordering, facet aggregation over the entire filtered set,
// then pagination. Empty results are valid terminal states; only the
// catalog fetch path can fail.
func (e *Engine) Search(ctx context.Context, criteria internal.SearchCriteria, opts Options) (internal.SearchResult, error) {
	started := time.Now()
	defer func() { metrics.SearchDuration.Observe(time.Since(started).Seconds()) }()

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = e.cfg.DefaultPageSize
	}

	prefixes := resolvePrefixes(criteria)

	records, fromCache, err := e.svc.Catalog(ctx)
	if err != nil {
		return internal.SearchResult{}, err
	}

	filtered := filterByPrefixes(records, prefixes)
	e.log.Debug("category filter applied", map[string]any{
		"prefixes":  prefixes,
		"matched":   len(filtered),
		"catalog":   len(records),
		"fromCache": fromCache,
	})

	if len(filtered) > e.cfg.RelevanceThreshold {
		filtered = rankAndTrim(filtered, criteria, e.cfg.RelevanceKeep)
	}

	if opts.CategoryFilter != "" {
		drilled := filtered[:0:0]
		for _, record := range filtered {
			if strings.HasPrefix(record.Code, opts.CategoryFilter) {
				drilled = append(drilled, record)
			}
		}
		filtered = drilled
	}

	for _, feature := range opts.FeatureFilters {
		remaining := filtered[:0:0]
		for _, record := range filtered {
			if MatchesFeature(record.Name, feature) {
				remaining = append(remaining, record)
			}
		}
		filtered = remaining
	}

	collator := collate.New(language.German)
	sort.SliceStable(filtered, func(i, j int) bool {
		return collator.CompareString(filtered[i].Code, filtered[j].Code) < 0
	})

	categoryFacets, featureFacets := computeFacets(filtered, collator)

	total := len(filtered)
	pageCount := (total + pageSize - 1) / pageSize
	if pageCount < 1 {
		pageCount = 1
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}
	if page > pageCount {
		page = pageCount
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	products := make([]internal.ProductRecord, end-start)
	copy(products, filtered[start:end])

	return internal.SearchResult{
		Products:       products,
		Total:          total,
		Page:           page,
		PageSize:       pageSize,
		PageCount:      pageCount,
		CategoryFacets: categoryFacets,
		FeatureFacets:  featureFacets,
	}, nil
}

// resolvePrefixes unions the criteria's product groups with prefixes
// contributed by known filter key/value pairs.
func resolvePrefixes(criteria internal.SearchCriteria) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(criteria.ProductGroups))
	add := func(prefix string) {
		if prefix == "" {
			return
		}
		if _, ok := seen[prefix]; ok {
			return
		}
		seen[prefix] = struct{}{}
		out = append(out, prefix)
	}

	for _, prefix := range criteria.ProductGroups {
		add(prefix)
	}
	for key, value := range criteria.Filters {
		for _, v := range filterStrings(value) {
			for _, prefix := range filterPrefixes[key+"="+v] {
				add(prefix)
			}
		}
	}
	return out
}

func filterByPrefixes(records []internal.ProductRecord, prefixes []string) []internal.ProductRecord {
	if len(prefixes) == 0 {
		return nil
	}
	out := make([]internal.ProductRecord, 0, 256)
	for _, record := range records {
		for _, prefix := range prefixes {
			if strings.HasPrefix(record.Code, prefix) {
				out = append(out, record)
				break
			}
		}
	}
	return out
}

// rankAndTrim keeps the keep highest-scoring records. The sort is stable,
// so ties preserve original relative order.
func rankAndTrim(records []internal.ProductRecord, criteria internal.SearchCriteria, keep int) []internal.ProductRecord {
	type scored struct {
		record internal.ProductRecord
		score  int
	}
	ranked := make([]scored, len(records))
	for i, record := range records {
		ranked[i] = scored{record: record, score: Score(record, criteria)}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if keep > len(ranked) {
		keep = len(ranked)
	}
	out := make([]internal.ProductRecord, keep)
	for i := 0; i < keep; i++ {
		out[i] = ranked[i].record
	}
	return out
}

// computeFacets aggregates over the entire filtered set, not the page.
// Category facets group by the two-segment category prefix.
func computeFacets(records []internal.ProductRecord, collator *collate.Collator) ([]internal.CategoryFacet, map[string]int) {
	categoryCounts := map[string]int{}
	for _, record := range records {
		prefix := twoSegmentPrefix(record.Code)
		if prefix == "" {
			continue
		}
		categoryCounts[prefix]++
	}

	categoryFacets := make([]internal.CategoryFacet, 0, len(categoryCounts))
	for code, count := range categoryCounts {
		categoryFacets = append(categoryFacets, internal.CategoryFacet{
			Code:  code,
			Label: registry.Name(code),
			Count: count,
		})
	}
	sort.SliceStable(categoryFacets, func(i, j int) bool {
		return collator.CompareString(categoryFacets[i].Code, categoryFacets[j].Code) < 0
	})

	featureFacets := map[string]int{}
	for code := range FeatureRules {
		count := 0
		for _, record := range records {
			if MatchesFeature(record.Name, code) {
				count++
			}
		}
		if count > 0 {
			featureFacets[code] = count
		}
	}

	return categoryFacets, featureFacets
}

func twoSegmentPrefix(code string) string {
	segments := strings.SplitN(code, ".", 3)
	if len(segments) < 2 {
		return ""
	}
	return segments[0] + "." + segments[1]
}
