// Package metrics exposes Prometheus collectors for the price engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	// SearchesTotal counts aggregate searches by outcome.
	SearchesTotal *prometheus.CounterVec
	// SourceFetchDuration observes per-source fetch latency by source and status.
	SourceFetchDuration *prometheus.HistogramVec
	// SourceFailuresTotal counts per-source failures by failure kind.
	SourceFailuresTotal *prometheus.CounterVec
	// RecordsScraped observes how many usable records each source returned.
	RecordsScraped *prometheus.HistogramVec
	// HeavySlotWait observes how long heavy fetches waited for a pool slot.
	HeavySlotWait prometheus.Histogram
}

// New builds and registers the engine collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SearchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pricelens",
			Name:      "searches_total",
			Help:      "Aggregate searches by outcome.",
		}, []string{"outcome"}),
		SourceFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pricelens",
			Name:      "source_fetch_duration_seconds",
			Help:      "Per-source fetch latency.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		}, []string{"source", "status"}),
		SourceFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pricelens",
			Name:      "source_failures_total",
			Help:      "Per-source failures by kind.",
		}, []string{"source", "kind"}),
		RecordsScraped: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pricelens",
			Name:      "records_scraped",
			Help:      "Usable records returned per source fetch.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5},
		}, []string{"source"}),
		HeavySlotWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pricelens",
			Name:      "heavy_slot_wait_seconds",
			Help:      "Time heavy fetches spent waiting for a pool slot.",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 30, 60},
		}),
	}

	reg.MustRegister(
		m.SearchesTotal,
		m.SourceFetchDuration,
		m.SourceFailuresTotal,
		m.RecordsScraped,
		m.HeavySlotWait,
	)
	return m
}

// ObserveFetch records one finished source fetch.
func (m *Metrics) ObserveFetch(source string, elapsed time.Duration, err error, records int) {
	status := "ok"
	if err != nil {
		status = "error"
		m.SourceFailuresTotal.WithLabelValues(source, FailureKind(err)).Inc()
	} else {
		m.RecordsScraped.WithLabelValues(source).Observe(float64(records))
	}
	m.SourceFetchDuration.WithLabelValues(source, status).Observe(elapsed.Seconds())
}

// ObserveSearch records one finished aggregate search.
func (m *Metrics) ObserveSearch(succeeded, attempted int) {
	switch {
	case attempted == 0 || succeeded == attempted:
		m.SearchesTotal.WithLabelValues("ok").Inc()
	case succeeded == 0:
		m.SearchesTotal.WithLabelValues("all_sources_failed").Inc()
	default:
		m.SearchesTotal.WithLabelValues("partial").Inc()
	}
}
