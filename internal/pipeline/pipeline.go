package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/futures-bars/internal/bars"
	"github.com/rickgao/futures-bars/internal/buffer"
	"github.com/rickgao/futures-bars/internal/frontmonth"
	"github.com/rickgao/futures-bars/internal/metrics"
	"github.com/rickgao/futures-bars/internal/model"
	"github.com/rickgao/futures-bars/internal/source"
)

// Outcome labels for records rejected before or after validation.
const (
	OutcomeBadArity    = "bad_arity"
	OutcomeCoerceError = "coerce_error"
)

// ErrOutputClosed is returned when the output buffer is closed mid-run.
var ErrOutputClosed = errors.New("output buffer closed")

// LineSource yields input lines. *source.Reader and *source.Files satisfy it.
type LineSource interface {
	Next() (source.Line, bool)
	Err() error
}

// Config holds pipeline configuration.
type Config struct {
	Workers    int            // Concurrent validators
	LineBuffer int            // Lines queued ahead of the workers
	Location   *time.Location // Display timezone for accepted bars
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:    runtime.NumCPU(),
		LineBuffer: 1024,
		Location:   time.UTC,
	}
}

// Pipeline validates lines and forwards accepted bars.
type Pipeline struct {
	cfg     Config
	out     *buffer.GrowableBuffer[model.Bar]
	metrics *metrics.Metrics
	loadID  uuid.UUID
	logger  *slog.Logger

	mu    sync.Mutex
	stats Stats
}

// New creates a Pipeline writing to out.
func New(cfg Config, out *buffer.GrowableBuffer[model.Bar], m *metrics.Metrics, loadID uuid.UUID, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.LineBuffer < 1 {
		cfg.LineBuffer = cfg.Workers
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Pipeline{
		cfg:     cfg,
		out:     out,
		metrics: m,
		loadID:  loadID,
		logger:  logger,
		stats:   newStats(),
	}
}

// Run processes every line from lines. The output buffer is closed when Run
// returns, whatever the outcome, so a consumer can drain it.
func (p *Pipeline) Run(ctx context.Context, lines LineSource) (Stats, error) {
	defer p.out.Close()

	start := time.Now()
	p.logger.Info("pipeline started",
		"workers", p.cfg.Workers,
		"load_id", p.loadID,
		"display_timezone", p.cfg.Location.String(),
	)

	g, gctx := errgroup.WithContext(ctx)
	work := make(chan source.Line, p.cfg.LineBuffer)

	g.Go(func() error {
		defer close(work)
		for {
			line, ok := lines.Next()
			if !ok {
				if err := lines.Err(); err != nil {
					return fmt.Errorf("read input: %w", err)
				}
				return nil
			}
			p.metrics.LineRead()
			select {
			case work <- line:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	for i := 0; i < p.cfg.Workers; i++ {
		g.Go(func() error {
			for line := range work {
				if err := p.process(line); err != nil {
					return err
				}
			}
			return nil
		})
	}

	err := g.Wait()
	stats := p.Stats()

	p.logger.Info("pipeline finished",
		"lines", stats.Lines,
		"accepted", stats.Accepted,
		"rejected", stats.RejectedTotal(),
		"bad_arity", stats.BadArity,
		"coerce_errors", stats.CoerceErrors,
		"duration", time.Since(start),
	)
	return stats, err
}

// Stats returns a snapshot of the counters so far.
func (p *Pipeline) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats.clone()
}

// process handles one line: arity check, front-month decision, coercion.
func (p *Pipeline) process(line source.Line) error {
	fields, err := bars.Split(line.Text)
	if err != nil {
		p.logger.Warn("skipping line with unexpected number of columns",
			"source", line.Source,
			"line", line.Number,
			"error", err,
		)
		p.count(func(s *Stats) { s.BadArity++ }, OutcomeBadArity)
		return nil
	}

	res := frontmonth.Validate(line.Text)
	if !res.Accepted() {
		p.logger.Debug("record rejected",
			"line", line.Number,
			"outcome", res.Outcome.String(),
			"symbol", res.Symbol,
			"front", res.Candidate.String(),
		)
		p.count(func(s *Stats) { s.Rejected[res.Outcome]++ }, res.Outcome.String())
		return nil
	}

	bar, err := bars.Parse(fields, p.cfg.Location)
	if err != nil {
		p.logger.Warn("error processing line",
			"source", line.Source,
			"line", line.Number,
			"error", err,
		)
		p.count(func(s *Stats) { s.CoerceErrors++ }, OutcomeCoerceError)
		return nil
	}
	bar.LoadID = p.loadID

	if !p.out.Send(bar) {
		return ErrOutputClosed
	}
	p.count(func(s *Stats) { s.Accepted++ }, frontmonth.Accepted.String())
	return nil
}

func (p *Pipeline) count(update func(*Stats), outcome string) {
	p.mu.Lock()
	p.stats.Lines++
	update(&p.stats)
	p.mu.Unlock()
	p.metrics.RecordOutcome(outcome)
}
