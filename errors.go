package noteshare

import "errors"

var (
	// ErrNotFound is returned when a note is absent or not owned by the requester
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned when user-supplied note fields fail validation
	ErrValidation = errors.New("validation failed")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized is returned when authentication fails
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUploadFailed is returned when the object store rejected or did not acknowledge a blob write
	ErrUploadFailed = errors.New("upload failed")
	// ErrDeleteFailed is returned when the object store could not delete a blob; the note row is kept
	ErrDeleteFailed = errors.New("delete failed")
	// ErrFileUnavailable is returned when a note has no resolvable blob
	ErrFileUnavailable = errors.New("file unavailable")
	// ErrFetchFailed is returned when relaying blob bytes through a signed URL fails
	ErrFetchFailed = errors.New("fetch failed")
	// ErrInternal is returned when an internal error occurs
	ErrInternal = errors.New("internal error")
)
