package writer

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// WriterConfig contains configuration for the bar writer.
type WriterConfig struct {
	// Table is the destination table, optionally schema-qualified.
	Table string

	// BatchSize is the number of rows to accumulate before flushing.
	BatchSize int

	// FlushInterval is the maximum time between flushes.
	FlushInterval time.Duration

	// FlushTimeout bounds a single batch insert.
	FlushTimeout time.Duration
}

// DefaultWriterConfig returns sensible defaults.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		Table:         "bars",
		BatchSize:     1000,
		FlushInterval: time.Second,
		FlushTimeout:  30 * time.Second,
	}
}

// Batcher is the subset of *pgxpool.Pool the writer needs.
type Batcher interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// WriterMetrics holds counters for a writer.
type WriterMetrics struct {
	Inserts   int64
	Conflicts int64
	Errors    int64
	Flushes   int64
	Dropped   int64 // Rows lost in failed batches
}
