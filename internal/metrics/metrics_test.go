package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.LineRead()
	m.LineRead()
	m.RecordOutcome("accepted")
	m.RecordOutcome("month_mismatch")
	m.RecordOutcome("month_mismatch")
	m.BatchWritten(8, 2, 5*time.Millisecond)
	m.BatchFailed(time.Millisecond)
	m.SetBufferDepth(42)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.lines))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.records.WithLabelValues("accepted")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.records.WithLabelValues("month_mismatch")))
	assert.Equal(t, 8.0, testutil.ToFloat64(m.rowsInserted))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.rowConflicts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.writeErrors))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.bufferDepth))
	assert.Equal(t, 1, testutil.CollectAndCount(m.flushDuration))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.LineRead()
		m.RecordOutcome("accepted")
		m.BatchWritten(1, 0, time.Millisecond)
		m.BatchFailed(time.Millisecond)
		m.SetBufferDepth(1)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.RecordOutcome("spread_symbol")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(string(body), `bars_loader_records_total{outcome="spread_symbol"} 1`))
}
