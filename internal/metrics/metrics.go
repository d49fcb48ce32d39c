package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bars_loader"

// Metrics holds the loader's collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	lines         prometheus.Counter
	records       *prometheus.CounterVec
	rowsInserted  prometheus.Counter
	rowConflicts  prometheus.Counter
	writeErrors   prometheus.Counter
	flushDuration prometheus.Histogram
	bufferDepth   prometheus.Gauge
}

// New creates collectors on a fresh registry, together with the Go runtime
// and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		lines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_total",
			Help:      "Input lines read.",
		}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Records processed, by outcome.",
		}, []string{"outcome"}),
		rowsInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "writer",
			Name:      "rows_inserted_total",
			Help:      "Bars inserted into the database.",
		}),
		rowConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "writer",
			Name:      "row_conflicts_total",
			Help:      "Bars skipped because they were already stored.",
		}),
		writeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "writer",
			Name:      "batch_errors_total",
			Help:      "Batches that failed to insert.",
		}),
		flushDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "writer",
			Name:      "flush_duration_seconds",
			Help:      "Time spent inserting one batch.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		bufferDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "buffer_depth",
			Help:      "Accepted bars waiting for the writer.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.lines,
		m.records,
		m.rowsInserted,
		m.rowConflicts,
		m.writeErrors,
		m.flushDuration,
		m.bufferDepth,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// LineRead counts one input line.
func (m *Metrics) LineRead() {
	if m == nil {
		return
	}
	m.lines.Inc()
}

// RecordOutcome counts one record under the given outcome label.
func (m *Metrics) RecordOutcome(outcome string) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(outcome).Inc()
}

// BatchWritten records a successful flush.
func (m *Metrics) BatchWritten(inserted, conflicts int, took time.Duration) {
	if m == nil {
		return
	}
	m.rowsInserted.Add(float64(inserted))
	m.rowConflicts.Add(float64(conflicts))
	m.flushDuration.Observe(took.Seconds())
}

// BatchFailed records a failed flush.
func (m *Metrics) BatchFailed(took time.Duration) {
	if m == nil {
		return
	}
	m.writeErrors.Inc()
	m.flushDuration.Observe(took.Seconds())
}

// SetBufferDepth reports the current writer backlog.
func (m *Metrics) SetBufferDepth(n int) {
	if m == nil {
		return
	}
	m.bufferDepth.Set(float64(n))
}
