// Package sqlite implements the note repo using SQLite
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sagarc03/noteshare"
	"github.com/sagarc03/noteshare/database/internal"
)

const noteColumns = "id, title, description, file_name, file_path, uploaded_by, uploaded_at"

// timeLayout pads fractional seconds to nine digits. RFC3339Nano trims
// trailing zeros, which breaks TEXT comparison for rows within the same
// second; fixed-width UTC strings order chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Repo struct {
	db        *sql.DB
	tableName string
}

func NewRepo(db *sql.DB, table string) (*Repo, error) {
	if !internal.IsValidTableName(table) {
		return nil, fmt.Errorf("new repo: invalid table name: %s", table)
	}

	return &Repo{db: db, tableName: table}, nil
}

// Ping verifies database connectivity
func (r *Repo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repo) Create(ctx context.Context, n noteshare.Note) (noteshare.Note, error) {
	id := uuid.New()
	uploadedAt := time.Now().UTC()

	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?)`, r.tableName, noteColumns)

	_, err := r.db.ExecContext(ctx, query,
		id.String(), n.Title, n.Description, n.FileName, n.FilePath,
		n.UploadedBy.String(), uploadedAt.Format(timeLayout),
	)
	if err != nil {
		return noteshare.Note{}, fmt.Errorf("create: %w", err)
	}

	n.ID = id
	n.UploadedAt = uploadedAt
	return n, nil
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (noteshare.Note, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT %s FROM %s WHERE id = ?`, noteColumns, r.tableName)
	return r.getOne(ctx, query, id.String())
}

func (r *Repo) GetByIDAndOwner(ctx context.Context, id, owner uuid.UUID) (noteshare.Note, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT %s FROM %s WHERE id = ? AND uploaded_by = ?`, noteColumns, r.tableName)
	return r.getOne(ctx, query, id.String(), owner.String())
}

func (r *Repo) getOne(ctx context.Context, query string, args ...any) (noteshare.Note, error) {
	row := r.db.QueryRowContext(ctx, query, args...)

	n, err := scanNote(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return noteshare.Note{}, noteshare.ErrNotFound
		}
		return noteshare.Note{}, fmt.Errorf("get: %w", err)
	}

	return n, nil
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`DELETE FROM %s WHERE id = ?`, r.tableName)

	result, err := r.db.ExecContext(ctx, query, id.String())
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("delete: %w", noteshare.ErrNotFound)
	}

	return nil
}

func (r *Repo) Recent(ctx context.Context, limit int) ([]noteshare.Note, error) {
	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT %s FROM %s ORDER BY uploaded_at DESC, id DESC LIMIT ?`, noteColumns, r.tableName)

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectNotes(rows, limit, "recent")
}

func (r *Repo) ByOwner(ctx context.Context, owner uuid.UUID, q noteshare.ListQuery) (noteshare.ListResult, error) {
	return r.listPage(ctx, "uploaded_by = ?", []any{owner.String()}, q.Limit, q.Cursor, "by owner")
}

func (r *Repo) Search(ctx context.Context, q noteshare.SearchQuery) (noteshare.ListResult, error) {
	pattern := "%" + internal.EscapeLikePattern(q.Term) + "%"
	where := `(title LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\')`
	return r.listPage(ctx, where, []any{pattern, pattern}, q.Limit, q.Cursor, "search")
}

func (r *Repo) KeyExists(ctx context.Context, key string) (bool, error) {
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT EXISTS (SELECT 1 FROM %s WHERE file_path = ?)`, r.tableName)

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, key).Scan(&exists); err != nil {
		return false, fmt.Errorf("key exists: %w", err)
	}

	return exists, nil
}

func (r *Repo) listPage(ctx context.Context, whereCondition string, whereArgs []any, limit int, cursorStr, opName string) (noteshare.ListResult, error) {
	cursor, err := internal.DecodeCursor(cursorStr)
	if err != nil {
		return noteshare.ListResult{}, fmt.Errorf("%s: %w: %w", opName, noteshare.ErrInvalidInput, err)
	}

	if limit <= 0 {
		limit = 20
	}

	args := append([]any{}, whereArgs...)
	query := fmt.Sprintf( //nolint:gosec // G201: table name is validated
		`SELECT %s FROM %s WHERE %s`, noteColumns, r.tableName, whereCondition)

	if cursorStr != "" {
		query += ` AND (uploaded_at, id) < (?, ?)`
		args = append(args, cursor.UploadedAt.UTC().Format(timeLayout), cursor.ID.String())
	}

	query += ` ORDER BY uploaded_at DESC, id DESC LIMIT ?`
	args = append(args, limit+1)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return noteshare.ListResult{}, fmt.Errorf("%s: %w", opName, err)
	}
	defer func() { _ = rows.Close() }()

	items, err := collectNotes(rows, limit, opName)
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

func collectNotes(rows *sql.Rows, capacity int, opName string) ([]noteshare.Note, error) {
	items := make([]noteshare.Note, 0, capacity)
	for rows.Next() {
		n, err := scanNote(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", opName, err)
		}
		items = append(items, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", opName, err)
	}

	return items, nil
}

// scanNote reads one row, parsing the TEXT-stored uuid and timestamp columns.
func scanNote(scan func(dest ...any) error) (noteshare.Note, error) {
	var n noteshare.Note
	var idStr, ownerStr, uploadedAt string

	if err := scan(&idStr, &n.Title, &n.Description, &n.FileName, &n.FilePath, &ownerStr, &uploadedAt); err != nil {
		return noteshare.Note{}, err
	}

	var err error
	n.ID, err = uuid.Parse(idStr)
	if err != nil {
		return noteshare.Note{}, fmt.Errorf("parse id: %w", err)
	}

	n.UploadedBy, err = uuid.Parse(ownerStr)
	if err != nil {
		return noteshare.Note{}, fmt.Errorf("parse uploaded_by: %w", err)
	}

	n.UploadedAt, err = time.Parse(time.RFC3339Nano, uploadedAt)
	if err != nil {
		return noteshare.Note{}, fmt.Errorf("parse uploaded_at: %w", err)
	}

	return n, nil
}
