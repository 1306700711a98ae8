package noteshare

import (
	"time"

	"github.com/google/uuid"
)

// Note is the persisted metadata record for one uploaded document.
// FilePath is the opaque object store key; it is empty only while an
// upload is in flight and is never exposed with a missing blob.
type Note struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	FileName    string    `json:"file_name"`
	FilePath    string    `json:"file_path,omitempty"`
	UploadedBy  uuid.UUID `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// CreateNote carries the caller-supplied fields of an upload.
type CreateNote struct {
	Title       string
	Description string
	FileName    string
	Owner       uuid.UUID
}

// ListQuery selects a page of notes, newest first.
type ListQuery struct {
	Limit  int
	Cursor string
}

// SearchQuery selects notes whose title or description contains Term,
// case-insensitively, newest first.
type SearchQuery struct {
	Term   string
	Limit  int
	Cursor string
}

type ListResult struct {
	Items      []Note `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
}
