// Package metrics holds the Prometheus instruments of the server. All
// instruments register with the default registry and are served on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Exclusion reasons for candidates dropped before scoring.
const (
	ExcludedUnpriced  = "unpriced"
	ExcludedOccupancy = "occupancy_unavailable"
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Ingestion row results.
const (
	RowAccepted = "accepted"
	RowRejected = "rejected"
)

var (
	RecommendationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hajj_recommendations_total",
			Help: "Total number of recommendation requests served",
		},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hajj_recommendation_duration_seconds",
			Help:    "Time spent ranking the catalog for one request",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		},
	)

	CandidatesExcluded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hajj_recommendation_candidates_excluded_total",
			Help: "Packages dropped before scoring, by reason",
		},
		[]string{"reason"},
	)

	CatalogCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hajj_catalog_cache_requests_total",
			Help: "Catalog snapshot cache lookups, by result",
		},
		[]string{"result"},
	)

	IngestRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hajj_ingest_rows_total",
			Help: "Catalog rows ingested, by result",
		},
		[]string{"result"},
	)
)

// RecordRecommendation records one ranking run and its exclusion counts.
func RecordRecommendation(duration time.Duration, excludedUnpriced, excludedOccupancy int) {
	RecommendationsTotal.Inc()
	RecommendationDuration.Observe(duration.Seconds())
	if excludedUnpriced > 0 {
		CandidatesExcluded.WithLabelValues(ExcludedUnpriced).Add(float64(excludedUnpriced))
	}
	if excludedOccupancy > 0 {
		CandidatesExcluded.WithLabelValues(ExcludedOccupancy).Add(float64(excludedOccupancy))
	}
}

// RecordCacheLookup counts a snapshot cache lookup.
func RecordCacheLookup(result string) {
	CatalogCacheRequests.WithLabelValues(result).Inc()
}

// RecordIngest counts the outcome of one ingestion run.
func RecordIngest(accepted, rejected int) {
	IngestRows.WithLabelValues(RowAccepted).Add(float64(accepted))
	IngestRows.WithLabelValues(RowRejected).Add(float64(rejected))
}
