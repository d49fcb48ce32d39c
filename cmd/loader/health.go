package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/futures-bars/internal/buffer"
	"github.com/rickgao/futures-bars/internal/model"
	"github.com/rickgao/futures-bars/internal/pipeline"
	"github.com/rickgao/futures-bars/internal/writer"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type statser[T any] interface {
	Stats() T
}

// healthHandler reports database connectivity and load progress.
func healthHandler(
	db pinger,
	p statser[pipeline.Stats],
	w statser[writer.WriterMetrics],
	bars *buffer.GrowableBuffer[model.Bar],
	loadID uuid.UUID,
) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string                 `json:"status"`
			LoadID     string                 `json:"load_id"`
			Components map[string]interface{} `json:"components"`
		}{
			Status:     "healthy",
			LoadID:     loadID.String(),
			Components: make(map[string]interface{}),
		}

		// Check database
		if err := db.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["postgres"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["postgres"] = "connected"
		}

		ps := p.Stats()
		rejected := make(map[string]int64, len(ps.Rejected))
		for outcome, n := range ps.Rejected {
			rejected[outcome.String()] = n
		}
		health.Components["pipeline"] = map[string]interface{}{
			"lines":         ps.Lines,
			"accepted":      ps.Accepted,
			"bad_arity":     ps.BadArity,
			"coerce_errors": ps.CoerceErrors,
			"rejected":      rejected,
		}

		ws := w.Stats()
		health.Components["writer"] = map[string]interface{}{
			"inserts":   ws.Inserts,
			"conflicts": ws.Conflicts,
			"errors":    ws.Errors,
			"flushes":   ws.Flushes,
		}
		if ws.Errors > 0 && health.Status == "healthy" {
			health.Status = "degraded"
		}

		bs := bars.Stats()
		health.Components["buffer"] = map[string]interface{}{
			"pending":    bs.Count,
			"capacity":   bs.Capacity,
			"high_water": bs.HighWater,
			"closed":     bs.Closed,
		}

		rw.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			rw.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(rw).Encode(health)
	})
}
