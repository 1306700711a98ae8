package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sagarc03/noteshare/database/internal"
)

// Migrate creates the notes table and its indexes if they do not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool, table string) error {
	if !internal.IsValidTableName(table) {
		return fmt.Errorf("migrate: invalid table name: %s", table)
	}

	quotedTable := pgx.Identifier{table}.Sanitize()
	indexListing := pgx.Identifier{fmt.Sprintf("idx_%s_listing", table)}.Sanitize()
	indexOwner := pgx.Identifier{fmt.Sprintf("idx_%s_owner", table)}.Sanitize()

	sql := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			file_name TEXT NOT NULL,
			file_path TEXT NOT NULL UNIQUE,
			uploaded_by UUID NOT NULL,
			uploaded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS %s
		ON %s (uploaded_at DESC, id DESC);

		CREATE INDEX IF NOT EXISTS %s
		ON %s (uploaded_by, uploaded_at DESC, id DESC);
	`,
		quotedTable,
		indexListing, quotedTable,
		indexOwner, quotedTable,
	)

	_, err := pool.Exec(ctx, sql)
	if err != nil {
		return fmt.Errorf("create notes table: %w", err)
	}
	return nil
}

// DropTable removes the notes table. Intended for tests.
func DropTable(ctx context.Context, pool *pgxpool.Pool, table string) error {
	if !internal.IsValidTableName(table) {
		return fmt.Errorf("drop table: invalid table name: %s", table)
	}

	quotedTable := pgx.Identifier{table}.Sanitize()
	if _, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", quotedTable)); err != nil {
		return fmt.Errorf("drop table: %w", err)
	}
	return nil
}
