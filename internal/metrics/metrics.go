// Package metrics exposes prometheus collectors for the export pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dump_publisher"

// Export results
const (
	ResultSuccess = "success"
	ResultEmpty   = "empty"
	ResultFailed  = "failed"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Exports         *prometheus.CounterVec
	ExportDuration  prometheus.Histogram
	TriplesWritten  prometheus.Counter
	SkippedTriples  prometheus.Counter
	DegradedTerms   prometheus.Counter
	Tasks           *prometheus.CounterVec
	QueueDepth      prometheus.Gauge
	DatasetsCreated prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Graph exports by result.",
		}, []string{"result"}),
		ExportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "export_duration_seconds",
			Help:      "Time spent writing a dump file.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
		}),
		TriplesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triples_written_total",
			Help:      "Statements written to dump files.",
		}),
		SkippedTriples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triples_skipped_total",
			Help:      "Statements that could not be represented in Turtle.",
		}),
		DegradedTerms: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_terms_total",
			Help:      "Terms of unknown shape written as plain strings.",
		}),
		Tasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_total",
			Help:      "Tasks handled by outcome.",
		}, []string{"outcome"}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Tasks waiting for the dispatcher.",
		}),
		DatasetsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "datasets_published_total",
			Help:      "Dataset versions published.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.Exports,
			m.ExportDuration,
			m.TriplesWritten,
			m.SkippedTriples,
			m.DegradedTerms,
			m.Tasks,
			m.QueueDepth,
			m.DatasetsCreated,
		)
	}
	return m
}

// ObserveExport records one finished export.
func (m *Metrics) ObserveExport(result string, started time.Time) {
	if m == nil {
		return
	}
	m.Exports.WithLabelValues(result).Inc()
	m.ExportDuration.Observe(time.Since(started).Seconds())
}

// AddTriples records statements written to a dump file.
func (m *Metrics) AddTriples(n int) {
	if m == nil {
		return
	}
	m.TriplesWritten.Add(float64(n))
}

// AddSkipped records statements that were dropped.
func (m *Metrics) AddSkipped(n int) {
	if m == nil || n == 0 {
		return
	}
	m.SkippedTriples.Add(float64(n))
}

// AddDegraded records terms written in degraded form.
func (m *Metrics) AddDegraded(n int) {
	if m == nil || n == 0 {
		return
	}
	m.DegradedTerms.Add(float64(n))
}

// ObserveTask records a task outcome.
func (m *Metrics) ObserveTask(outcome string) {
	if m == nil {
		return
	}
	m.Tasks.WithLabelValues(outcome).Inc()
}

// SetQueueDepth records the number of queued tasks.
func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.QueueDepth.Set(float64(n))
}

// DatasetPublished records a new dataset version.
func (m *Metrics) DatasetPublished() {
	if m == nil {
		return
	}
	m.DatasetsCreated.Inc()
}
