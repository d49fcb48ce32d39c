package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Validate checks that all required fields are set and values are valid.
func (c *LoaderConfig) Validate() error {
	if len(c.Input.Paths) == 0 {
		return errors.New("input.paths is required")
	}
	for i, p := range c.Input.Paths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("input.paths[%d] is empty", i)
		}
	}
	switch strings.ToLower(c.Input.Compression) {
	case "", "auto", "zstd", "none":
	default:
		return fmt.Errorf("input.compression must be one of auto, zstd, none, got %q", c.Input.Compression)
	}

	if err := c.Database.Postgres.validate("database.postgres"); err != nil {
		return err
	}
	if !tableNamePattern.MatchString(c.Database.Table) {
		return fmt.Errorf("database.table %q is not a valid identifier", c.Database.Table)
	}

	if c.Pipeline.Workers < 1 {
		return errors.New("pipeline.workers must be >= 1")
	}
	if _, err := time.LoadLocation(c.Pipeline.DisplayTimezone); err != nil {
		return fmt.Errorf("pipeline.display_timezone: %w", err)
	}

	if c.Writers.BatchSize < 1 {
		return errors.New("writers.batch_size must be >= 1")
	}
	if c.Writers.FlushInterval <= 0 {
		return errors.New("writers.flush_interval must be > 0")
	}
	if c.Writers.BufferSize < 1 {
		return errors.New("writers.buffer_size must be >= 1")
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /, got %q", c.Metrics.Path)
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
