package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"

	"github.com/rickgao/futures-bars/internal/buffer"
	"github.com/rickgao/futures-bars/internal/config"
	"github.com/rickgao/futures-bars/internal/database"
	"github.com/rickgao/futures-bars/internal/metrics"
	"github.com/rickgao/futures-bars/internal/model"
	"github.com/rickgao/futures-bars/internal/pipeline"
	"github.com/rickgao/futures-bars/internal/source"
	"github.com/rickgao/futures-bars/internal/version"
	"github.com/rickgao/futures-bars/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/loader.local.yaml", "path to config file")
	input := flag.String("input", "", "comma-separated input files or globs (overrides input.paths)")
	debug := flag.Bool("debug", false, "log every rejected record")
	flag.Parse()

	// Set up structured logging
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if err := run(*configPath, *input, logger); err != nil {
		logger.Error("loader failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, input string, logger *slog.Logger) error {
	logger.Info("starting loader", version.LogAttr(), "config", configPath)

	// Load configuration
	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if paths := splitPaths(input); len(paths) > 0 {
		cfg.Input.Paths = paths
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Pipeline.DisplayTimezone)
	if err != nil {
		return fmt.Errorf("load display timezone: %w", err)
	}
	compression, err := source.ParseCompression(cfg.Input.Compression)
	if err != nil {
		return err
	}
	paths, err := source.Expand(cfg.Input.Paths)
	if err != nil {
		return err
	}

	loadID := uuid.New()
	logger.Info("configuration loaded",
		"load_id", loadID,
		"files", len(paths),
		"table", cfg.Database.Table,
		"workers", cfg.Pipeline.Workers,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Postgres.Host,
		"port", cfg.Database.Postgres.Port,
		"database", cfg.Database.Postgres.Name,
	)
	pool, err := database.Connect(ctx, cfg.Database.Postgres)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool, cfg.Database.Table); err != nil {
		return err
	}
	logger.Info("database ready")

	m := metrics.New()
	bars := buffer.NewGrowableBuffer[model.Bar](cfg.Writers.BufferSize)

	w := writer.NewBarWriter(writer.WriterConfig{
		Table:         cfg.Database.Table,
		BatchSize:     cfg.Writers.BatchSize,
		FlushInterval: cfg.Writers.FlushInterval,
		FlushTimeout:  writer.DefaultWriterConfig().FlushTimeout,
	}, bars, pool, m, logger)

	p := pipeline.New(pipeline.Config{
		Workers:    cfg.Pipeline.Workers,
		LineBuffer: cfg.Writers.BufferSize,
		Location:   loc,
	}, bars, m, loadID, logger)

	// Health and metrics server
	mux := http.NewServeMux()
	mux.Handle("/health", healthHandler(pool, p, w, bars, loadID))
	mux.Handle(cfg.Metrics.Path, m.Handler())
	healthServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("starting health server", "port", cfg.Metrics.Port, "metrics_path", cfg.Metrics.Path)
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		healthServer.Shutdown(shutdownCtx)
	}()

	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start writer: %w", err)
	}

	opts := []source.Option{
		source.WithCompression(compression),
		source.WithSkipHeader(cfg.Input.SkipHeaderEnabled()),
	}
	files := source.OpenFiles(paths, opts...)
	defer func() {
		if err := files.Close(); err != nil {
			logger.Warn("close input", "error", err)
		}
	}()

	stats, runErr := p.Run(ctx, files)

	// Writer drains whatever the pipeline accepted, even after a signal.
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer stopCancel()
	stopErr := w.Stop(stopCtx)

	ws := w.Stats()
	logger.Info("load complete",
		"load_id", loadID,
		"files", files.FilesDone(),
		"lines", stats.Lines,
		"accepted", stats.Accepted,
		"rejected", stats.RejectedTotal(),
		"inserted", ws.Inserts,
		"conflicts", ws.Conflicts,
		"write_errors", ws.Errors,
	)

	switch {
	case runErr != nil && !errors.Is(runErr, context.Canceled):
		return fmt.Errorf("pipeline: %w", runErr)
	case stopErr != nil:
		return fmt.Errorf("writer: %w", stopErr)
	case ws.Errors > 0:
		return fmt.Errorf("%d batches failed, %d bars not stored", ws.Errors, ws.Dropped)
	}
	return nil
}

// splitPaths parses the -input flag: comma-separated paths or globs with
// surrounding whitespace removed and empty entries dropped.
func splitPaths(input string) []string {
	var paths []string
	for _, p := range strings.Split(input, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
