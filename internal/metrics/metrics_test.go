package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/hajj-compare/internal/metrics"
)

func TestRecordRecommendation(t *testing.T) {
	total := testutil.ToFloat64(metrics.RecommendationsTotal)
	unpriced := testutil.ToFloat64(metrics.CandidatesExcluded.WithLabelValues(metrics.ExcludedUnpriced))
	occupancy := testutil.ToFloat64(metrics.CandidatesExcluded.WithLabelValues(metrics.ExcludedOccupancy))

	metrics.RecordRecommendation(3*time.Millisecond, 2, 0)

	assert.Equal(t, total+1, testutil.ToFloat64(metrics.RecommendationsTotal))
	assert.Equal(t, unpriced+2, testutil.ToFloat64(metrics.CandidatesExcluded.WithLabelValues(metrics.ExcludedUnpriced)))
	assert.Equal(t, occupancy, testutil.ToFloat64(metrics.CandidatesExcluded.WithLabelValues(metrics.ExcludedOccupancy)))
}

func TestRecordCacheLookup(t *testing.T) {
	before := testutil.ToFloat64(metrics.CatalogCacheRequests.WithLabelValues(metrics.CacheHit))

	metrics.RecordCacheLookup(metrics.CacheHit)
	metrics.RecordCacheLookup(metrics.CacheHit)

	assert.Equal(t, before+2, testutil.ToFloat64(metrics.CatalogCacheRequests.WithLabelValues(metrics.CacheHit)))
}

func TestRecordIngest(t *testing.T) {
	accepted := testutil.ToFloat64(metrics.IngestRows.WithLabelValues(metrics.RowAccepted))
	rejected := testutil.ToFloat64(metrics.IngestRows.WithLabelValues(metrics.RowRejected))

	metrics.RecordIngest(10, 3)

	assert.Equal(t, accepted+10, testutil.ToFloat64(metrics.IngestRows.WithLabelValues(metrics.RowAccepted)))
	assert.Equal(t, rejected+3, testutil.ToFloat64(metrics.IngestRows.WithLabelValues(metrics.RowRejected)))
}

func TestMetricsLint(t *testing.T) {
	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer,
		"hajj_recommendations_total",
		"hajj_recommendation_duration_seconds",
		"hajj_catalog_cache_requests_total",
		"hajj_ingest_rows_total",
	)
	require.NoError(t, err)
	assert.Empty(t, problems)
}
