// Package internal holds helpers shared by the database backends:
// pagination cursors, LIKE-pattern escaping, and table name validation.
package internal

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Cursor marks a position in a newest-first note listing. Pages are
// keyed on (uploaded_at, id) descending; the cursor records the last
// item of the previous page.
type Cursor struct {
	UploadedAt time.Time
	ID         uuid.UUID
}

// EncodeCursor encodes cursor data to a base64 string for pagination.
func EncodeCursor(uploadedAt time.Time, id uuid.UUID) string {
	data := uploadedAt.Format(time.RFC3339Nano) + "|" + id.String()
	return base64.URLEncoding.EncodeToString([]byte(data))
}

// DecodeCursor decodes a pagination cursor string back to cursor data.
// An empty cursor decodes to the zero Cursor, meaning "first page".
func DecodeCursor(cursor string) (Cursor, error) {
	if cursor == "" {
		return Cursor{}, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return Cursor{}, fmt.Errorf("decode cursor: invalid encoding: %w", err)
	}

	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 {
		return Cursor{}, fmt.Errorf("decode cursor: invalid format")
	}

	uploadedAt, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("decode cursor: invalid timestamp: %w", err)
	}

	id, err := uuid.Parse(parts[1])
	if err != nil {
		return Cursor{}, fmt.Errorf("decode cursor: invalid id: %w", err)
	}

	return Cursor{UploadedAt: uploadedAt, ID: id}, nil
}

// EscapeLikePattern escapes special LIKE characters (%, _, \) so a
// search term matches literally.
func EscapeLikePattern(pattern string) string {
	pattern = strings.ReplaceAll(pattern, `\`, `\\`)
	pattern = strings.ReplaceAll(pattern, `%`, `\%`)
	pattern = strings.ReplaceAll(pattern, `_`, `\_`)
	return pattern
}

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}
