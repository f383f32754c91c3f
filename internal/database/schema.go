package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// TableName is the single table holding products.
const TableName = "produits"

// SchemaDDL creates the products table if it does not exist.
const SchemaDDL = `
CREATE TABLE IF NOT EXISTS produits (
    id         BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    name       VARCHAR(255)   NOT NULL,
    price      NUMERIC(10, 2) NOT NULL CHECK (price >= 0),
    category   VARCHAR(100)   NOT NULL,
    created_at TIMESTAMPTZ    NOT NULL DEFAULT NOW()
)`

// Querier is the subset of pgxpool.Pool used for schema checks.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TableExists reports whether the products table is present in the current schema.
func TableExists(ctx context.Context, db Querier) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, TableName).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", TableName, err)
	}
	return exists, nil
}

// EnsureSchema checks for the products table. When it is missing the DDL is
// logged, and executed if create is true.
func EnsureSchema(ctx context.Context, db Querier, create bool, logger zerolog.Logger) error {
	exists, err := TableExists(ctx, db)
	if err != nil {
		return err
	}

	if exists {
		logger.Info().Str("table", TableName).Msg("table found")
		return nil
	}

	if !create {
		logger.Warn().
			Str("table", TableName).
			Str("ddl", SchemaDDL).
			Msg("table does not exist, create it before serving requests")
		return nil
	}

	if _, err := db.Exec(ctx, SchemaDDL); err != nil {
		return fmt.Errorf("failed to create table %s: %w", TableName, err)
	}

	logger.Info().Str("table", TableName).Msg("table created")
	return nil
}
