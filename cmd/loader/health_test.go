package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/futures-bars/internal/buffer"
	"github.com/rickgao/futures-bars/internal/frontmonth"
	"github.com/rickgao/futures-bars/internal/model"
	"github.com/rickgao/futures-bars/internal/pipeline"
	"github.com/rickgao/futures-bars/internal/writer"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type fixedStats[T any] struct{ v T }

func (f fixedStats[T]) Stats() T { return f.v }

func getHealth(t *testing.T, h http.Handler) (int, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHealthHandler_Healthy(t *testing.T) {
	loadID := uuid.New()
	ps := pipeline.Stats{
		Lines:    5,
		Accepted: 3,
		Rejected: map[frontmonth.Outcome]int64{frontmonth.MonthMismatch: 2},
	}
	h := healthHandler(
		fakePinger{},
		fixedStats[pipeline.Stats]{ps},
		fixedStats[writer.WriterMetrics]{writer.WriterMetrics{Inserts: 3, Flushes: 1}},
		buffer.NewGrowableBuffer[model.Bar](8),
		loadID,
	)

	code, body := getHealth(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, loadID.String(), body["load_id"])

	components := body["components"].(map[string]interface{})
	assert.Equal(t, "connected", components["postgres"])

	pl := components["pipeline"].(map[string]interface{})
	assert.Equal(t, 3.0, pl["accepted"])
	assert.Equal(t, 2.0, pl["rejected"].(map[string]interface{})["month_mismatch"])
}

func TestHealthHandler_DatabaseDown(t *testing.T) {
	h := healthHandler(
		fakePinger{err: errors.New("connection refused")},
		fixedStats[pipeline.Stats]{pipeline.Stats{}},
		fixedStats[writer.WriterMetrics]{writer.WriterMetrics{}},
		buffer.NewGrowableBuffer[model.Bar](8),
		uuid.New(),
	)

	code, body := getHealth(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", body["status"])
}

func TestHealthHandler_WriteErrorsDegrade(t *testing.T) {
	h := healthHandler(
		fakePinger{},
		fixedStats[pipeline.Stats]{pipeline.Stats{}},
		fixedStats[writer.WriterMetrics]{writer.WriterMetrics{Errors: 1}},
		buffer.NewGrowableBuffer[model.Bar](8),
		uuid.New(),
	)

	code, body := getHealth(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "degraded", body["status"])
}
