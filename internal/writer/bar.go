package writer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rickgao/futures-bars/internal/buffer"
	"github.com/rickgao/futures-bars/internal/database"
	"github.com/rickgao/futures-bars/internal/metrics"
	"github.com/rickgao/futures-bars/internal/model"
)

// BarWriter consumes bars from the pipeline buffer and writes them to the
// bars table.
type BarWriter struct {
	cfg     WriterConfig
	logger  *slog.Logger
	metrics *metrics.Metrics

	// Input from the pipeline
	input *buffer.GrowableBuffer[model.Bar]

	// Database
	db        Batcher
	insertSQL string

	// Batching
	batch       []model.Bar
	batchMu     sync.Mutex
	flushMu     sync.Mutex // serializes inserts
	flushTicker *time.Ticker

	// Lifecycle
	ctx     context.Context
	cancel  context.CancelFunc
	drained chan struct{}
	wg      sync.WaitGroup

	stats WriterMetrics
}

// NewBarWriter creates a new BarWriter.
func NewBarWriter(
	cfg WriterConfig,
	input *buffer.GrowableBuffer[model.Bar],
	db Batcher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *BarWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultWriterConfig().FlushInterval
	}
	if cfg.FlushTimeout <= 0 {
		cfg.FlushTimeout = DefaultWriterConfig().FlushTimeout
	}
	return &BarWriter{
		cfg:       cfg,
		input:     input,
		db:        db,
		metrics:   m,
		logger:    logger,
		insertSQL: insertSQL(cfg.Table),
		batch:     make([]model.Bar, 0, cfg.BatchSize),
		drained:   make(chan struct{}),
	}
}

func insertSQL(table string) string {
	return fmt.Sprintf(`
		INSERT INTO %s (ts_event, ts_display, rtype, publisher_id, instrument_id,
			open, high, low, close, volume, symbol, load_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (ts_event, rtype, instrument_id, symbol) DO NOTHING
	`, database.TableIdentifier(table).Sanitize())
}

// Start begins consuming bars and writing to the database.
func (w *BarWriter) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	// Consumer goroutine
	w.wg.Add(1)
	go w.consumeLoop()

	// Flush ticker goroutine
	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("bar writer started",
		"table", w.cfg.Table,
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop waits for the input buffer to be closed and drained, then performs a
// final flush. The producer is responsible for closing the buffer. If ctx
// expires first, whatever is batched so far is still flushed.
func (w *BarWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping bar writer")

	var err error
	select {
	case <-w.drained:
	case <-ctx.Done():
		w.logger.Warn("bar writer drain timed out", "pending", w.input.Len())
		err = fmt.Errorf("drain input: %w", ctx.Err())
	}

	if w.cancel != nil {
		w.cancel()
	}
	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}

	// Final flush
	w.flush()

	stats := w.Stats()
	w.logger.Info("bar writer stopped",
		"inserts", stats.Inserts,
		"conflicts", stats.Conflicts,
		"errors", stats.Errors,
		"flushes", stats.Flushes,
	)
	return err
}

// Stats returns current metrics.
func (w *BarWriter) Stats() WriterMetrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.stats
}

// consumeLoop pulls bars until the input is closed and empty.
func (w *BarWriter) consumeLoop() {
	defer w.wg.Done()
	defer close(w.drained)

	for {
		bars := w.input.ReceiveBatch(w.cfg.BatchSize)
		if bars == nil {
			w.flush()
			return
		}
		w.metrics.SetBufferDepth(w.input.Len())
		w.handleBars(bars)
	}
}

// flushLoop periodically flushes partial batches.
func (w *BarWriter) flushLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.flushTicker.C:
			w.flush()
		}
	}
}

// handleBars adds bars to the batch, flushing when it fills.
func (w *BarWriter) handleBars(bars []model.Bar) {
	w.batchMu.Lock()
	w.batch = append(w.batch, bars...)
	shouldFlush := len(w.batch) >= w.cfg.BatchSize
	w.batchMu.Unlock()

	if shouldFlush {
		w.flush()
	}
}

// flush writes the current batch to the database.
func (w *BarWriter) flush() {
	w.flushMu.Lock()
	defer w.flushMu.Unlock()

	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return
	}

	// Take ownership of current batch
	batch := w.batch
	w.batch = make([]model.Bar, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	conflicts, err := w.batchInsert(batch)
	took := time.Since(start)
	if err != nil {
		w.logger.Error("batch insert failed", "error", err, "count", len(batch))
		w.metrics.BatchFailed(took)
		w.batchMu.Lock()
		w.stats.Errors++
		w.stats.Dropped += int64(len(batch))
		w.batchMu.Unlock()
		return
	}

	w.metrics.BatchWritten(len(batch)-conflicts, conflicts, took)
	w.batchMu.Lock()
	w.stats.Inserts += int64(len(batch) - conflicts)
	w.stats.Conflicts += int64(conflicts)
	w.stats.Flushes++
	w.batchMu.Unlock()

	w.logger.Debug("flushed bars",
		"count", len(batch),
		"conflicts", conflicts,
		"duration", took,
	)
}

// batchInsert inserts rows using pgx.Batch with ON CONFLICT DO NOTHING.
// The insert ignores writer cancellation and is bounded by FlushTimeout.
func (w *BarWriter) batchInsert(rows []model.Bar) (conflicts int, err error) {
	if w.db == nil {
		return 0, fmt.Errorf("no database configured")
	}

	parent := context.Background()
	if w.ctx != nil {
		parent = context.WithoutCancel(w.ctx)
	}
	ctx, cancel := context.WithTimeout(parent, w.cfg.FlushTimeout)
	defer cancel()

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(w.insertSQL,
			r.TsEvent, r.TsDisplay, r.RType, r.PublisherID, r.InstrumentID,
			r.Open, r.High, r.Low, r.Close, r.Volume, r.Symbol, r.LoadID,
		)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}
