package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CatalogFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hmv_catalog_fetches_total",
			Help: "Upstream catalog fetches by outcome",
		},
		[]string{"outcome"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hmv_cache_lookups_total",
			Help: "Cache lookups by domain and result",
		},
		[]string{"domain", "result"},
	)

	DetailFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hmv_detail_fetches_total",
			Help: "Per-item detail fetches by outcome",
		},
		[]string{"outcome"},
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "hmv_search_duration_seconds",
			Help: "Duration of full search pipeline runs",
		},
	)
)
