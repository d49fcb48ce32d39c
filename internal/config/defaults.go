package config

import (
	"runtime"
	"time"
)

// Default values for optional configuration fields.
const (
	DefaultCompression     = "auto"
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultMaxConns        = 10
	DefaultMinConns        = 2
	DefaultTable           = "bars"
	DefaultDisplayTimezone = "UTC"
	DefaultBatchSize       = 1000
	DefaultFlushInterval   = 1 * time.Second
	DefaultBufferSize      = 10000
	DefaultMetricsPort     = 9090
	DefaultMetricsPath     = "/metrics"
)

// DefaultWorkers is the pipeline worker count when none is configured.
var DefaultWorkers = runtime.NumCPU()

func (c *LoaderConfig) applyDefaults() {
	// Input defaults
	if c.Input.Compression == "" {
		c.Input.Compression = DefaultCompression
	}
	if c.Input.SkipHeader == nil {
		skip := true
		c.Input.SkipHeader = &skip
	}

	// Database defaults
	applyDBDefaults(&c.Database.Postgres)
	if c.Database.Table == "" {
		c.Database.Table = DefaultTable
	}

	// Pipeline defaults
	if c.Pipeline.Workers == 0 {
		c.Pipeline.Workers = DefaultWorkers
	}
	if c.Pipeline.DisplayTimezone == "" {
		c.Pipeline.DisplayTimezone = DefaultDisplayTimezone
	}

	// Writers defaults
	if c.Writers.BatchSize == 0 {
		c.Writers.BatchSize = DefaultBatchSize
	}
	if c.Writers.FlushInterval == 0 {
		c.Writers.FlushInterval = DefaultFlushInterval
	}
	if c.Writers.BufferSize == 0 {
		c.Writers.BufferSize = DefaultBufferSize
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
