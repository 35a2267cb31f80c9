package aggregate

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the aggregation engine.
type Metrics struct {
	Registry         *prometheus.Registry
	FetchesTotal     *prometheus.CounterVec
	FetchDuration    prometheus.Histogram
	RecordsExtracted *prometheus.CounterVec
	SourceErrors     *prometheus.CounterVec
	RankOutcomes     *prometheus.CounterVec
	CompareDuration  prometheus.Histogram
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	fetches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compare_fetches_total",
			Help: "Total page fetches issued, by source and outcome.",
		},
		[]string{"source", "outcome"},
	)
	fetchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "compare_fetch_duration_seconds",
			Help:    "Page fetch latency.",
			Buckets: prometheus.DefBuckets,
		},
	)
	records := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compare_records_extracted_total",
			Help: "Total validated records extracted, by source.",
		},
		[]string{"source"},
	)
	sourceErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compare_source_errors_total",
			Help: "Total per-source failures by error type.",
		},
		[]string{"source", "error_type"},
	)
	rankOutcomes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compare_rank_outcomes_total",
			Help: "Ranking stage outcomes.",
		},
		[]string{"outcome"},
	)
	compareDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "compare_request_duration_seconds",
			Help:    "End-to-end comparison latency.",
			Buckets: prometheus.DefBuckets,
		},
	)

	registry.MustRegister(fetches, fetchDuration, records, sourceErrors, rankOutcomes, compareDuration)

	return &Metrics{
		Registry:         registry,
		FetchesTotal:     fetches,
		FetchDuration:    fetchDuration,
		RecordsExtracted: records,
		SourceErrors:     sourceErrors,
		RankOutcomes:     rankOutcomes,
		CompareDuration:  compareDuration,
	}
}

// IncFetch increments the fetch counter for a source and outcome.
func (m *Metrics) IncFetch(source, outcome string) {
	if m == nil {
		return
	}
	m.FetchesTotal.WithLabelValues(source, outcome).Inc()
}

// ObserveFetch records one page fetch duration.
func (m *Metrics) ObserveFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDuration.Observe(d.Seconds())
}

// AddRecords counts validated records contributed by a source.
func (m *Metrics) AddRecords(source string, n int) {
	if m == nil {
		return
	}
	m.RecordsExtracted.WithLabelValues(source).Add(float64(n))
}

// IncSourceError counts one classified per-source failure.
func (m *Metrics) IncSourceError(source, errorType string) {
	if m == nil {
		return
	}
	m.SourceErrors.WithLabelValues(source, errorType).Inc()
}

// IncRank counts one ranking stage outcome.
func (m *Metrics) IncRank(outcome string) {
	if m == nil {
		return
	}
	m.RankOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveCompare records one end-to-end comparison duration.
func (m *Metrics) ObserveCompare(d time.Duration) {
	if m == nil {
		return
	}
	m.CompareDuration.Observe(d.Seconds())
}
