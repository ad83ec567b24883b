package core

// store.go persists parsed loads to PostgreSQL.
//
// Values go in through the COPY protocol, which is dramatically faster than
// row-at-a-time inserts for the bulk path. Cells that failed to parse are
// stored as NULL so downstream queries can distinguish "missing" from zero.

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store writes load metadata and parsed values to PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the tables the store needs if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS loads (
    id         UUID PRIMARY KEY,
    file_name  TEXT NOT NULL,
    row_count  INTEGER NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS load_columns (
    load_id        UUID NOT NULL REFERENCES loads(id) ON DELETE CASCADE,
    position       INTEGER NOT NULL,
    name           TEXT NOT NULL,
    column_type    TEXT NOT NULL,
    format         TEXT NOT NULL DEFAULT '',
    has_fractional BOOLEAN NOT NULL DEFAULT FALSE,
    parsed_count   INTEGER NOT NULL,
    failed_count   INTEGER NOT NULL,
    PRIMARY KEY (load_id, position)
);

CREATE TABLE IF NOT EXISTS load_values (
    load_id    UUID NOT NULL REFERENCES loads(id) ON DELETE CASCADE,
    position   INTEGER NOT NULL,
    row_number INTEGER NOT NULL,
    value      DOUBLE PRECISION
);

CREATE INDEX IF NOT EXISTS load_values_by_column
    ON load_values (load_id, position, row_number);
`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SaveLoad persists one finished load: the metadata row, the per-column type
// reports, and every parsed value via COPY. Runs in a single transaction so a
// failed load leaves nothing behind.
func (s *Store) SaveLoad(ctx context.Context, result *LoadResult, columns [][]Sample) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO loads (id, file_name, row_count) VALUES ($1, $2, $3)`,
		result.LoadID, result.FileName, result.Rows,
	)
	if err != nil {
		return fmt.Errorf("insert load: %w", err)
	}

	for pos, report := range result.Columns {
		_, err = tx.Exec(ctx,
			`INSERT INTO load_columns (load_id, position, name, column_type, format, has_fractional, parsed_count, failed_count)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			result.LoadID, pos, report.Name,
			report.Info.Type.String(), report.Info.Format, report.Info.HasFractional,
			report.Parsed, report.Failed,
		)
		if err != nil {
			return fmt.Errorf("insert column %q: %w", report.Name, err)
		}
	}

	rows := make([][]any, 0, result.Rows*len(columns))
	for pos, column := range columns {
		for rowNum, sample := range column {
			rows = append(rows, []any{
				result.LoadID,
				pos,
				rowNum,
				pgtype.Float8{Float64: sample.Value, Valid: sample.OK},
			})
		}
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"load_values"},
		[]string{"load_id", "position", "row_number", "value"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copy values: %w", err)
	}

	return tx.Commit(ctx)
}
