package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveExport(ResultSuccess, time.Now().Add(-time.Second))
	m.ObserveExport(ResultEmpty, time.Now())
	m.AddTriples(10)
	m.AddTriples(5)
	m.AddDegraded(2)
	m.AddSkipped(0)
	m.ObserveTask("success")
	m.SetQueueDepth(3)
	m.DatasetPublished()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Exports.WithLabelValues(ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Exports.WithLabelValues(ResultEmpty)))
	assert.Equal(t, 15.0, testutil.ToFloat64(m.TriplesWritten))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DegradedTerms))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SkippedTriples))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.QueueDepth))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DatasetsCreated))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ExportDuration))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveExport(ResultFailed, time.Now())
		m.AddTriples(1)
		m.AddDegraded(1)
		m.AddSkipped(1)
		m.ObserveTask("failed")
		m.SetQueueDepth(1)
		m.DatasetPublished()
	})
}
