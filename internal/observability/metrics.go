// Package observability holds the Prometheus metrics exported on /metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "roadscan"

// Metrics holds the counters, histograms and gauges for the dashboard API.
type Metrics struct {
	NotesCreated  prometheus.Counter
	NotesRejected prometheus.Counter

	// Upload metrics.
	Uploads         *prometheus.CounterVec // labels: kind={data,video}, outcome={success,error,cancelled}
	UploadBytes     *prometheus.CounterVec // labels: kind
	UploadsInFlight prometheus.Gauge
	RecordsIngested prometheus.Counter

	SummaryCache *prometheus.CounterVec // labels: result={hit,miss}

	HTTPRequestDuration *prometheus.HistogramVec // labels: method, route, status
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(
		m.NotesCreated,
		m.NotesRejected,
		m.Uploads,
		m.UploadBytes,
		m.UploadsInFlight,
		m.RecordsIngested,
		m.SummaryCache,
		m.HTTPRequestDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them anywhere,
// so tests can build as many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		NotesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notes_created_total",
			Help:      "Inspector notes saved.",
		}),
		NotesRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notes_rejected_total",
			Help:      "Note submissions rejected by validation.",
		}),
		Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Finished uploads by kind and outcome.",
		}, []string{"kind", "outcome"}),
		UploadBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_bytes_total",
			Help:      "Bytes written to disk by uploads.",
		}, []string{"kind"}),
		UploadsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uploads_in_flight",
			Help:      "Uploads currently transferring or ingesting.",
		}),
		RecordsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_ingested_total",
			Help:      "Distress records stored from uploaded data files.",
		}),
		SummaryCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summary_cache_total",
			Help:      "Summary cache lookups by result.",
		}, []string{"result"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route pattern and status.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 10},
		}, []string{"method", "route", "status"}),
	}
}
