// Package postgres implements the note repo on a pgx connection pool
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sagarc03/noteshare"
	"github.com/sagarc03/noteshare/database/internal"
)

const noteColumns = "id, title, description, file_name, file_path, uploaded_by, uploaded_at"

type Repo struct {
	pool      *pgxpool.Pool
	tableName string
}

func NewRepo(pool *pgxpool.Pool, table string) (*Repo, error) {
	if !internal.IsValidTableName(table) {
		return nil, fmt.Errorf("new repo: invalid table name: %s", table)
	}

	return &Repo{pool: pool, tableName: table}, nil
}

// Ping verifies database connectivity
func (r *Repo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *Repo) Create(ctx context.Context, n noteshare.Note) (noteshare.Note, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (title, description, file_name, file_path, uploaded_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s
	`, r.tableName, noteColumns)

	var created noteshare.Note
	err := r.pool.QueryRow(ctx, query, n.Title, n.Description, n.FileName, n.FilePath, n.UploadedBy).Scan(
		&created.ID, &created.Title, &created.Description, &created.FileName,
		&created.FilePath, &created.UploadedBy, &created.UploadedAt,
	)
	if err != nil {
		return noteshare.Note{}, fmt.Errorf("create: %w", err)
	}

	return created, nil
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (noteshare.Note, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, noteColumns, r.tableName)
	return r.getOne(ctx, query, id)
}

func (r *Repo) GetByIDAndOwner(ctx context.Context, id, owner uuid.UUID) (noteshare.Note, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND uploaded_by = $2`, noteColumns, r.tableName)
	return r.getOne(ctx, query, id, owner)
}

func (r *Repo) getOne(ctx context.Context, query string, args ...any) (noteshare.Note, error) {
	var n noteshare.Note
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&n.ID, &n.Title, &n.Description, &n.FileName, &n.FilePath, &n.UploadedBy, &n.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return noteshare.Note{}, noteshare.ErrNotFound
		}
		return noteshare.Note{}, fmt.Errorf("get: %w", err)
	}

	return n, nil
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tableName)

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete: %w", noteshare.ErrNotFound)
	}

	return nil
}

func (r *Repo) Recent(ctx context.Context, limit int) ([]noteshare.Note, error) {
	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		ORDER BY uploaded_at DESC, id DESC
		LIMIT $1
	`, noteColumns, r.tableName)

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("recent: %w", err)
	}
	defer rows.Close()

	return scanNotes(rows, limit, "recent")
}

func (r *Repo) ByOwner(ctx context.Context, owner uuid.UUID, q noteshare.ListQuery) (noteshare.ListResult, error) {
	return r.listPage(ctx, "uploaded_by = $1", []any{owner}, q.Limit, q.Cursor, "by owner")
}

func (r *Repo) Search(ctx context.Context, q noteshare.SearchQuery) (noteshare.ListResult, error) {
	pattern := "%" + internal.EscapeLikePattern(q.Term) + "%"
	where := "(title ILIKE $1 OR description ILIKE $1)"
	return r.listPage(ctx, where, []any{pattern}, q.Limit, q.Cursor, "search")
}

func (r *Repo) KeyExists(ctx context.Context, key string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE file_path = $1)`, r.tableName)

	var exists bool
	if err := r.pool.QueryRow(ctx, query, key).Scan(&exists); err != nil {
		return false, fmt.Errorf("key exists: %w", err)
	}

	return exists, nil
}

// listPage runs a filtered, newest-first, cursor-paginated listing.
// whereCondition must number its placeholders from $1; cursor and limit
// placeholders are appended after whereArgs.
func (r *Repo) listPage(ctx context.Context, whereCondition string, whereArgs []any, limit int, cursorStr, opName string) (noteshare.ListResult, error) {
	cursor, err := internal.DecodeCursor(cursorStr)
	if err != nil {
		return noteshare.ListResult{}, fmt.Errorf("%s: %w: %w", opName, noteshare.ErrInvalidInput, err)
	}

	if limit <= 0 {
		limit = 20
	}

	args := append([]any{}, whereArgs...)
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s`, noteColumns, r.tableName, whereCondition)

	if cursorStr != "" {
		query += fmt.Sprintf(" AND (uploaded_at, id) < ($%d, $%d)", len(args)+1, len(args)+2)
		args = append(args, cursor.UploadedAt, cursor.ID)
	}

	query += fmt.Sprintf(" ORDER BY uploaded_at DESC, id DESC LIMIT $%d", len(args)+1)
	args = append(args, limit+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return noteshare.ListResult{}, fmt.Errorf("%s: %w", opName, err)
	}
	defer rows.Close()

	items, err := scanNotes(rows, limit, opName)
	if err != nil {
		return noteshare.ListResult{}, err
	}

	var nextCursor string
	if len(items) > limit {
		// Cursor points to the last item of the current page
		lastItem := items[limit-1]
		nextCursor = internal.EncodeCursor(lastItem.UploadedAt, lastItem.ID)
		items = items[:limit]
	}

	return noteshare.ListResult{Items: items, NextCursor: nextCursor}, nil
}

func scanNotes(rows pgx.Rows, capacity int, opName string) ([]noteshare.Note, error) {
	items := make([]noteshare.Note, 0, capacity)
	for rows.Next() {
		var n noteshare.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Description, &n.FileName, &n.FilePath, &n.UploadedBy, &n.UploadedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", opName, err)
		}
		items = append(items, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", opName, err)
	}

	return items, nil
}
