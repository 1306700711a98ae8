package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sagarc03/noteshare/database/internal"
)

// quoteIdentifier safely quotes a SQLite identifier
func quoteIdentifier(name string) string {
	return `"` + name + `"`
}

// Migrate creates the notes table and its indexes if they do not exist.
func Migrate(ctx context.Context, db *sql.DB, table string) error {
	if !internal.IsValidTableName(table) {
		return fmt.Errorf("migrate: invalid table name: %s", table)
	}

	quotedTable := quoteIdentifier(table)
	indexListing := quoteIdentifier(fmt.Sprintf("idx_%s_listing", table))
	indexOwner := quoteIdentifier(fmt.Sprintf("idx_%s_owner", table))

	createTableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT NOT NULL PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			file_name TEXT NOT NULL,
			file_path TEXT NOT NULL UNIQUE,
			uploaded_by TEXT NOT NULL,
			uploaded_at TEXT NOT NULL
		)
	`, quotedTable)

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	indexSQL := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s ON %s (uploaded_at DESC, id DESC)
	`, indexListing, quotedTable)

	if _, err := db.ExecContext(ctx, indexSQL); err != nil {
		return fmt.Errorf("create index listing: %w", err)
	}

	indexSQL = fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s ON %s (uploaded_by, uploaded_at DESC, id DESC)
	`, indexOwner, quotedTable)

	if _, err := db.ExecContext(ctx, indexSQL); err != nil {
		return fmt.Errorf("create index owner: %w", err)
	}

	return nil
}

// DropTable removes the notes table. Intended for tests.
func DropTable(ctx context.Context, db *sql.DB, table string) error {
	if !internal.IsValidTableName(table) {
		return fmt.Errorf("drop table: invalid table name: %s", table)
	}

	dropSQL := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdentifier(table))
	if _, err := db.ExecContext(ctx, dropSQL); err != nil {
		return fmt.Errorf("drop table: %w", err)
	}

	return nil
}

// ValidateSchema checks that the notes table exists with the expected columns.
func ValidateSchema(ctx context.Context, db *sql.DB, table string) error {
	if !internal.IsValidTableName(table) {
		return fmt.Errorf("validate schema: invalid table name: %s", table)
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, quoteIdentifier(table)))
	if err != nil {
		return fmt.Errorf("validate schema: %w", err)
	}
	defer func() { _ = rows.Close() }()

	expected := map[string]bool{
		"id": false, "title": false, "description": false, "file_name": false,
		"file_path": false, "uploaded_by": false, "uploaded_at": false,
	}

	found := 0
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dfltValue sql.NullString

		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("validate schema: scan: %w", err)
		}

		if _, ok := expected[name]; ok {
			expected[name] = true
			found++
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("validate schema: rows: %w", err)
	}

	if found == 0 {
		return fmt.Errorf("validate schema: table %s does not exist", table)
	}

	for name, ok := range expected {
		if !ok {
			return fmt.Errorf("validate schema: table %s is missing column %s", table, name)
		}
	}

	return nil
}
