package noteshare

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultSignedURLTTL bounds how long a delivery link stays valid.
	DefaultSignedURLTTL = 60 * time.Second
	// DefaultFetchTimeout bounds a single blob fetch during relay.
	DefaultFetchTimeout = 30 * time.Second
)

// FetchError describes a failed blob fetch through a signed URL. It
// separates the two failure families callers treat differently: Timeout
// marks a retriable network/timeout failure, StatusCode a definitive
// non-2xx answer from the store. Matches ErrFetchFailed under errors.Is.
type FetchError struct {
	StatusCode int
	Timeout    bool
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("fetch timed out: %v", e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("fetch returned status %d", e.StatusCode)
	default:
		return fmt.Sprintf("fetch failed: %v", e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetchFailed }

// PreviewResult is either inline content (PDFs, relayed through the
// service) or a signed URL the caller redirects to (everything else,
// rendered by the client).
type PreviewResult struct {
	Inline      bool
	Content     []byte
	ContentType string
	RedirectURL string
}

// DownloadInfo carries the response metadata for a relayed download.
type DownloadInfo struct {
	FileName      string
	ContentType   string
	ContentLength int64
	Disposition   string
}

// Relay produces short-lived signed URLs for notes and, where the
// client cannot follow a redirect usefully, fetches the blob and
// re-serves the bytes. Relaying doubles bandwidth but lets the service
// control disposition and caching headers the store's signed URL
// cannot express.
type Relay struct {
	store        ObjectStore
	client       *http.Client
	signedURLTTL time.Duration
	fetchTimeout time.Duration
}

// RelayConfig holds configuration options for Relay.
type RelayConfig struct {
	SignedURLTTL time.Duration // validity of issued signed URLs (default: 60s)
	FetchTimeout time.Duration // per-fetch bound when relaying bytes (default: 30s)
	Client       *http.Client  // fetch client (default: http.DefaultClient with the fetch timeout applied per request)
}

func NewRelay(store ObjectStore, cfg RelayConfig) (*Relay, error) {
	if store == nil {
		return nil, fmt.Errorf("new relay: %w: store is required", ErrInvalidInput)
	}

	ttl := cfg.SignedURLTTL
	if ttl <= 0 {
		ttl = DefaultSignedURLTTL
	}

	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}

	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}

	return &Relay{
		store:        store,
		client:       client,
		signedURLTTL: ttl,
		fetchTimeout: fetchTimeout,
	}, nil
}

// SignedURL resolves a time-limited read URL for the note's blob.
// Absence of a URL is the reported condition, not an error: an unset
// file path or a store failure both come back as ("", false), with the
// store failure logged.
func (r *Relay) SignedURL(ctx context.Context, note Note) (string, bool) {
	if note.FilePath == "" {
		return "", false
	}

	url, err := r.store.SignedURL(ctx, note.FilePath, r.signedURLTTL)
	if err != nil {
		slog.Warn("signed url resolution failed", "note_id", note.ID, "key", note.FilePath, "err", err)
		return "", false
	}
	if url == "" {
		return "", false
	}

	return url, true
}

// Preview prepares a note for inline viewing. PDFs are fetched through
// the signed URL and returned as inline bytes so the response can carry
// an inline disposition; other types return the signed URL itself for
// the caller to redirect to or embed.
//
// Error types returned:
//   - ErrFileUnavailable: no signed URL could be resolved
//   - *FetchError (matches ErrFetchFailed): the PDF fetch failed;
//     Timeout and StatusCode distinguish retriable from definitive
func (r *Relay) Preview(ctx context.Context, note Note) (PreviewResult, error) {
	if err := ctx.Err(); err != nil {
		return PreviewResult{}, fmt.Errorf("preview note: %w", err)
	}

	url, ok := r.SignedURL(ctx, note)
	if !ok {
		return PreviewResult{}, fmt.Errorf("preview note %s: %w", note.ID, ErrFileUnavailable)
	}

	if !IsPDF(note.FileName) {
		return PreviewResult{RedirectURL: url}, nil
	}

	body, _, err := r.fetch(ctx, url)
	if err != nil {
		return PreviewResult{}, fmt.Errorf("preview note %s: %w", note.ID, err)
	}
	defer func() { _ = body.Close() }()

	content, err := io.ReadAll(body)
	if err != nil {
		return PreviewResult{}, fmt.Errorf("preview note %s: %w", note.ID, &FetchError{Err: err})
	}

	return PreviewResult{
		Inline:      true,
		Content:     content,
		ContentType: "application/pdf",
	}, nil
}

// Download always fetches and relays the blob, never redirects, so the
// response can set an attachment disposition and an accurate length.
// Content type is application/pdf for .pdf names and a generic binary
// type otherwise. The caller must close the returned reader.
func (r *Relay) Download(ctx context.Context, note Note) (DownloadInfo, io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return DownloadInfo{}, nil, fmt.Errorf("download note: %w", err)
	}

	url, ok := r.SignedURL(ctx, note)
	if !ok {
		return DownloadInfo{}, nil, fmt.Errorf("download note %s: %w", note.ID, ErrFileUnavailable)
	}

	body, length, err := r.fetch(ctx, url)
	if err != nil {
		return DownloadInfo{}, nil, fmt.Errorf("download note %s: %w", note.ID, err)
	}

	contentType := "application/octet-stream"
	if IsPDF(note.FileName) {
		contentType = "application/pdf"
	}

	info := DownloadInfo{
		FileName:      note.FileName,
		ContentType:   contentType,
		ContentLength: length,
		Disposition:   fmt.Sprintf("attachment; filename=%q", SanitizeFileName(note.FileName)),
	}

	return info, body, nil
}

// fetch retrieves blob bytes through a signed URL, bounded by the
// configured fetch timeout. Failures come back as *FetchError.
func (r *Relay) fetch(ctx context.Context, url string) (io.ReadCloser, int64, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, r.fetchTimeout)

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, 0, &FetchError{Err: err}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		cancel()
		return nil, 0, &FetchError{Err: err, Timeout: isTimeout(err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		cancel()
		return nil, 0, &FetchError{StatusCode: resp.StatusCode}
	}

	// The body outlives this call; tie the fetch context's lifetime to it.
	return &cancelReadCloser{rc: resp.Body, cancel: cancel}, resp.ContentLength, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

type cancelReadCloser struct {
	rc     io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelReadCloser) Read(p []byte) (int, error) { return c.rc.Read(p) }

func (c *cancelReadCloser) Close() error {
	c.cancel()
	return c.rc.Close()
}
