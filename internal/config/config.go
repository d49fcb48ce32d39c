package config

import "time"

// LoaderConfig is the root configuration for a loader run.
type LoaderConfig struct {
	Input    InputConfig    `yaml:"input"`
	Database DatabaseConfig `yaml:"database"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Writers  WritersConfig  `yaml:"writers"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// InputConfig describes the vendor files to load.
type InputConfig struct {
	Paths       []string `yaml:"paths"`       // Files or glob patterns, loaded in order
	Compression string   `yaml:"compression"` // auto, zstd or none
	SkipHeader  *bool    `yaml:"skip_header"` // Drop the first line of each file (default true)
}

// DatabaseConfig holds the PostgreSQL connection and destination table.
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
	Table    string   `yaml:"table"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// PipelineConfig holds record processing settings.
type PipelineConfig struct {
	Workers         int    `yaml:"workers"`
	DisplayTimezone string `yaml:"display_timezone"` // IANA name, e.g. America/New_York
}

// WritersConfig holds batch writer settings.
type WritersConfig struct {
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}

// MetricsConfig holds Prometheus metrics and health endpoint settings.
type MetricsConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}

// SkipHeaderEnabled reports whether each input file starts with a header line.
func (c InputConfig) SkipHeaderEnabled() bool {
	return c.SkipHeader == nil || *c.SkipHeader
}
