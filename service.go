package noteshare

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NoteRepo defines the interface for note metadata persistence.
// Implementations must handle concurrent access safely; row-level
// atomicity in the backing store is what resolves concurrent deletes.
//
// All methods accept a context for cancellation and timeout control.
type NoteRepo interface {
	// Create persists a new note row and returns it with the repo-assigned
	// ID and server-assigned upload timestamp.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - n: Note with title, description, file name, storage key, and owner set
	//
	// Returns:
	//   - Note: The persisted note with ID and UploadedAt filled in
	//   - error: Any database or validation error
	Create(ctx context.Context, n Note) (Note, error)

	// GetByID retrieves a note by its ID.
	//
	// Returns ErrNotFound if no such note exists.
	GetByID(ctx context.Context, id uuid.UUID) (Note, error)

	// GetByIDAndOwner retrieves a note by ID, constrained to an owner.
	//
	// Returns ErrNotFound when the note is absent OR owned by someone
	// else; callers cannot distinguish the two, which keeps note
	// existence from leaking to non-owners.
	GetByIDAndOwner(ctx context.Context, id, owner uuid.UUID) (Note, error)

	// Delete removes a note row by ID.
	//
	// Returns ErrNotFound if the row is already gone, so a losing
	// concurrent delete surfaces as a distinguishable failure rather
	// than a silent success.
	Delete(ctx context.Context, id uuid.UUID) error

	// Recent retrieves up to limit notes ordered newest first.
	Recent(ctx context.Context, limit int) ([]Note, error)

	// ByOwner retrieves a cursor-paginated page of one owner's notes,
	// newest first.
	ByOwner(ctx context.Context, owner uuid.UUID, q ListQuery) (ListResult, error)

	// Search retrieves a cursor-paginated page of notes whose title or
	// description contains the term case-insensitively, newest first.
	Search(ctx context.Context, q SearchQuery) (ListResult, error)

	// KeyExists reports whether any note row references the given
	// storage key. Used by reconciliation to find orphaned blobs.
	KeyExists(ctx context.Context, key string) (bool, error)
}

// ObjectStore defines the interface for the remote blob store holding
// uploaded files. Implementations can target MinIO/S3, a Supabase-style
// storage REST API, or any backend with equivalent operations.
//
// Required property: deleting an absent key is not an error, so delete
// retries and reconciliation stay idempotent.
type ObjectStore interface {
	// Put writes a blob under the given key and returns the backend's
	// normalized acknowledgement. The error covers transport failures
	// only; whether the write counts as durable is decided from the
	// acknowledgement (PutAck.Succeeded), not from err == nil.
	Put(ctx context.Context, key string, content io.Reader, size int64, contentType string) (PutAck, error)

	// SignedURL returns a time-limited read URL for a blob.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)

	// PublicURL returns the unauthenticated URL for a blob, valid only
	// when the backing bucket is public. No liveness check is made.
	PublicURL(key string) string

	// Delete removes the given blobs. Absent keys are skipped silently.
	Delete(ctx context.Context, keys []string) error
}

// ObjectLister is an optional ObjectStore capability used by
// reconciliation to enumerate stored keys.
type ObjectLister interface {
	ListKeys(ctx context.Context) ([]string, error)
}

// NoteService orchestrates the note lifecycle across the record store
// and the object store, keeping metadata and blobs consistent: a row is
// only ever written after its blob, and a row is only ever removed
// after its blob.
type NoteService struct {
	repo           NoteRepo
	store          ObjectStore
	cleanupTimeout time.Duration
}

// ServiceConfig holds configuration options for NoteService.
type ServiceConfig struct {
	CleanupTimeout time.Duration // Timeout for blob cleanup after a failed row write (default: 30s)
}

func NewNoteService(repo NoteRepo, store ObjectStore, cfg ServiceConfig) (*NoteService, error) {
	if repo == nil || store == nil {
		return nil, fmt.Errorf("new note service: %w: repo and store are required", ErrInvalidInput)
	}
	cleanupTimeout := cfg.CleanupTimeout
	if cleanupTimeout <= 0 {
		cleanupTimeout = 30 * time.Second
	}
	return &NoteService{
		repo:           repo,
		store:          store,
		cleanupTimeout: cleanupTimeout,
	}, nil
}

// Upload validates the note fields, writes the blob, then persists the
// row. The blob write comes first so a row never references an unwritten
// blob; the reverse (an orphaned blob after a failed row write) is the
// one accepted inconsistency, and even that is narrowed by a best-effort
// cleanup delete under a detached context.
//
// Error types returned:
//   - ErrValidation: title empty after trimming; nothing was written
//   - ErrInvalidInput: missing file name or owner; nothing was written
//   - ErrUploadFailed: the store rejected or did not acknowledge the
//     blob write; no row was persisted. The wrapped detail carries the
//     acknowledgement diagnostics for logging.
//   - Wrapped repo errors: the blob was written but the row was not.
func (s *NoteService) Upload(ctx context.Context, req CreateNote, content io.Reader, size int64) (Note, error) {
	if err := ctx.Err(); err != nil {
		return Note{}, fmt.Errorf("upload note: %w", err)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return Note{}, fmt.Errorf("upload note: %w: title cannot be empty", ErrValidation)
	}

	if req.FileName == "" {
		return Note{}, fmt.Errorf("upload note: %w: file name cannot be empty", ErrInvalidInput)
	}

	if req.Owner == uuid.Nil {
		return Note{}, fmt.Errorf("upload note: %w: owner is required", ErrInvalidInput)
	}

	key := NewStorageKey(req.FileName)

	ack, putErr := s.store.Put(ctx, key, content, size, ContentTypeFor(req.FileName))
	if putErr != nil {
		return Note{}, fmt.Errorf("upload note %q: %w: %w", title, ErrUploadFailed, putErr)
	}

	if !ack.Succeeded() {
		return Note{}, fmt.Errorf("upload note %q: %w: %s", title, ErrUploadFailed, ack.Diagnostic())
	}

	n := Note{
		Title:       title,
		Description: req.Description,
		FileName:    req.FileName,
		FilePath:    key,
		UploadedBy:  req.Owner,
	}

	created, createErr := s.repo.Create(ctx, n)
	if createErr != nil {
		// Use a background context for cleanup since the original context may be cancelled
		cleanupCtx, cancel := context.WithTimeout(context.Background(), s.cleanupTimeout)
		defer cancel()

		if delErr := s.store.Delete(cleanupCtx, []string{key}); delErr != nil {
			slog.Error("orphaned blob left behind", "key", key, "insert_err", createErr, "cleanup_err", delErr)
			return Note{}, fmt.Errorf("upload note %q: row insert failed (%w) and blob cleanup failed: %w", title, createErr, delErr)
		}
		return Note{}, fmt.Errorf("upload note %q: row insert failed: %w", title, createErr)
	}

	return created, nil
}

// Delete removes a note owned by the requester: blob first, then row.
// A store-side delete failure surfaces as ErrDeleteFailed with the row
// untouched, which keeps metadata and blob consistent and makes the
// call safe to retry. Deleting an already-absent note is ErrNotFound,
// never a silent success.
func (s *NoteService) Delete(ctx context.Context, noteID, requester uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	note, err := s.repo.GetByIDAndOwner(ctx, noteID, requester)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	if note.FilePath != "" {
		if delErr := s.store.Delete(ctx, []string{note.FilePath}); delErr != nil {
			return fmt.Errorf("delete note %s: %w: %w", noteID, ErrDeleteFailed, delErr)
		}
	}

	if err := s.repo.Delete(ctx, noteID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	return nil
}

func (s *NoteService) Get(ctx context.Context, id uuid.UUID) (Note, error) {
	if err := ctx.Err(); err != nil {
		return Note{}, fmt.Errorf("get note: %w", err)
	}

	note, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Note{}, fmt.Errorf("get note: %w", err)
	}

	return note, nil
}

func (s *NoteService) Recent(ctx context.Context, limit int) ([]Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("recent notes: %w", err)
	}

	notes, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent notes: %w", err)
	}

	return notes, nil
}

func (s *NoteService) ByOwner(ctx context.Context, owner uuid.UUID, q ListQuery) (ListResult, error) {
	if err := ctx.Err(); err != nil {
		return ListResult{}, fmt.Errorf("notes by owner: %w", err)
	}

	result, err := s.repo.ByOwner(ctx, owner, q)
	if err != nil {
		return ListResult{}, fmt.Errorf("notes by owner: %w", err)
	}

	return result, nil
}

func (s *NoteService) Search(ctx context.Context, q SearchQuery) (ListResult, error) {
	if err := ctx.Err(); err != nil {
		return ListResult{}, fmt.Errorf("search notes: %w", err)
	}

	result, err := s.repo.Search(ctx, q)
	if err != nil {
		return ListResult{}, fmt.Errorf("search notes: %w", err)
	}

	return result, nil
}

// Reconcile removes blobs no note row references. Uploads accept a
// narrow window where a blob is written but its row is not; this sweep
// is the out-of-band pass that closes it. The store must implement
// ObjectLister.
//
// Returns the number of orphaned blobs removed.
func (s *NoteService) Reconcile(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("reconcile: %w", err)
	}

	lister, ok := s.store.(ObjectLister)
	if !ok {
		return 0, fmt.Errorf("reconcile: %w: object store does not support listing", ErrInvalidInput)
	}

	keys, listErr := lister.ListKeys(ctx)
	if listErr != nil {
		return 0, fmt.Errorf("reconcile: %w", listErr)
	}

	removed := 0
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return removed, fmt.Errorf("reconcile: %w", err)
		}

		exists, err := s.repo.KeyExists(ctx, key)
		if err != nil {
			return removed, fmt.Errorf("reconcile %q: %w", key, err)
		}
		if exists {
			continue
		}

		if err := s.store.Delete(ctx, []string{key}); err != nil {
			return removed, fmt.Errorf("reconcile %q: %w", key, err)
		}

		slog.Info("removed orphaned blob", "key", key)
		removed++
	}

	return removed, nil
}
