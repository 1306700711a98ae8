package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sagarc03/noteshare/database/internal"
)

type columnInfo struct {
	dataType   string
	isNullable bool
}

var expectedNoteSchema = map[string]columnInfo{
	"id":          {dataType: "uuid", isNullable: false},
	"title":       {dataType: "text", isNullable: false},
	"description": {dataType: "text", isNullable: false},
	"file_name":   {dataType: "text", isNullable: false},
	"file_path":   {dataType: "text", isNullable: false},
	"uploaded_by": {dataType: "uuid", isNullable: false},
	"uploaded_at": {dataType: "timestamp with time zone", isNullable: false},
}

// ValidateSchema checks that the notes table exists and its columns
// match the expected types and nullability.
func ValidateSchema(ctx context.Context, pool *pgxpool.Pool, table string) error {
	if !internal.IsValidTableName(table) {
		return fmt.Errorf("validate schema: invalid table name: %s", table)
	}

	exists, err := tableExists(ctx, pool, table)
	if err != nil {
		return fmt.Errorf("validate schema: %w", err)
	}

	if !exists {
		return fmt.Errorf("validate schema: table %s does not exist", table)
	}

	query := `
		SELECT column_name, data_type, is_nullable
		FROM information_schema.columns
		WHERE table_name = $1
		ORDER BY ordinal_position
	`

	rows, err := pool.Query(ctx, query, table)
	if err != nil {
		return fmt.Errorf("validate schema: query columns: %w", err)
	}
	defer rows.Close()

	actualColumns := make(map[string]columnInfo)
	for rows.Next() {
		var name, dataType, nullable string
		if err := rows.Scan(&name, &dataType, &nullable); err != nil {
			return fmt.Errorf("validate schema: scan column: %w", err)
		}
		actualColumns[name] = columnInfo{
			dataType:   strings.ToLower(dataType),
			isNullable: nullable == "YES",
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("validate schema: rows error: %w", err)
	}

	var missingColumns []string
	var mismatchedColumns []string

	for colName, expected := range expectedNoteSchema {
		actual, ok := actualColumns[colName]
		if !ok {
			missingColumns = append(missingColumns, colName)
			continue
		}

		if actual.dataType != expected.dataType {
			mismatchedColumns = append(mismatchedColumns,
				fmt.Sprintf("%s: expected %s, got %s", colName, expected.dataType, actual.dataType))
		}

		if actual.isNullable != expected.isNullable {
			mismatchedColumns = append(mismatchedColumns,
				fmt.Sprintf("%s: expected nullable=%v, got nullable=%v", colName, expected.isNullable, actual.isNullable))
		}
	}

	if len(missingColumns) > 0 || len(mismatchedColumns) > 0 {
		var errMsg strings.Builder
		fmt.Fprintf(&errMsg, "table %s schema validation failed:\n", table)

		if len(missingColumns) > 0 {
			fmt.Fprintf(&errMsg, "  missing columns: %s\n", strings.Join(missingColumns, ", "))
		}

		if len(mismatchedColumns) > 0 {
			fmt.Fprintf(&errMsg, "  mismatched columns:\n")
			for _, msg := range mismatchedColumns {
				fmt.Fprintf(&errMsg, "    - %s\n", msg)
			}
		}

		return errors.New(errMsg.String())
	}

	return nil
}

func tableExists(ctx context.Context, pool *pgxpool.Pool, table string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`
	err := pool.QueryRow(ctx, query, table).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check table exists: %w", err)
	}
	return exists, nil
}
