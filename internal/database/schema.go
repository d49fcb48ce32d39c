package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is the subset of *pgxpool.Pool needed to run DDL.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// TableIdentifier splits an optionally schema-qualified table name.
func TableIdentifier(table string) pgx.Identifier {
	return pgx.Identifier(strings.Split(table, "."))
}

// SchemaSQL returns the DDL for the bars table. Prices are nano-units.
func SchemaSQL(table string) []string {
	ident := TableIdentifier(table)
	name := ident.Sanitize()
	base := ident[len(ident)-1]

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	ts_event      TIMESTAMPTZ NOT NULL,
	ts_display    TEXT        NOT NULL,
	rtype         SMALLINT    NOT NULL,
	publisher_id  INTEGER     NOT NULL,
	instrument_id BIGINT      NOT NULL,
	open          BIGINT      NOT NULL,
	high          BIGINT      NOT NULL,
	low           BIGINT      NOT NULL,
	close         BIGINT      NOT NULL,
	volume        BIGINT      NOT NULL,
	symbol        TEXT        NOT NULL,
	load_id       UUID        NOT NULL,
	UNIQUE (ts_event, rtype, instrument_id, symbol)
)`, name),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (symbol, ts_event)`,
			pgx.Identifier{base + "_symbol_ts_idx"}.Sanitize(), name),
	}
}

// EnsureSchema creates the bars table and its indexes if missing.
func EnsureSchema(ctx context.Context, db Execer, table string) error {
	for _, stmt := range SchemaSQL(table) {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema for %s: %w", table, err)
		}
	}
	return nil
}
