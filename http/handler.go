package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/sagarc03/noteshare"
)

type Service interface {
	Upload(ctx context.Context, req noteshare.CreateNote, content io.Reader, size int64) (noteshare.Note, error)
	Delete(ctx context.Context, noteID, requester uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (noteshare.Note, error)
	Recent(ctx context.Context, limit int) ([]noteshare.Note, error)
	ByOwner(ctx context.Context, owner uuid.UUID, q noteshare.ListQuery) (noteshare.ListResult, error)
	Search(ctx context.Context, q noteshare.SearchQuery) (noteshare.ListResult, error)
}

type Deliverer interface {
	SignedURL(ctx context.Context, note noteshare.Note) (string, bool)
	Preview(ctx context.Context, note noteshare.Note) (noteshare.PreviewResult, error)
	Download(ctx context.Context, note noteshare.Note) (noteshare.DownloadInfo, io.ReadCloser, error)
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type HandlerConfig struct {
	Tokens        noteshare.TokenStore
	PublicRead    bool
	MaxUploadSize int64
	CORS          CORSConfig
}

const defaultMaxUploadSize = 32 << 20 // 32 MiB

// Handler provides HTTP handlers for note sharing operations.
type Handler struct {
	config    HandlerConfig
	service   Service
	deliverer Deliverer
}

// NewHandler creates a new Handler with the given configuration, service
// and delivery relay.
func NewHandler(config *HandlerConfig, service Service, deliverer Deliverer) *Handler {
	cfg := *config
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = defaultMaxUploadSize
	}
	return &Handler{
		config:    cfg,
		service:   service,
		deliverer: deliverer,
	}
}

// Router returns an http.Handler with all note routes configured.
// Read routes are public when PublicRead is set, otherwise they require
// a bearer token like the write routes do.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Route("/api/notes", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if !h.config.PublicRead {
				r.Use(RequireUser(h.config.Tokens))
			}
			r.Get("/", h.handleRecent)
			r.Get("/search", h.handleSearch)
			r.Get("/{id}", h.handleGet)
			r.Get("/{id}/url", h.handleSignedURL)
			r.Get("/{id}/preview", h.handlePreview)
			r.Get("/{id}/download", h.handleDownload)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireUser(h.config.Tokens))
			r.Get("/mine", h.handleMine)
			r.Post("/", h.handleUpload)
			r.Delete("/{id}", h.handleDelete)
		})
	})

	return r
}

func limitFrom(r *http.Request, fallback int) int {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(limitStr)
	if err != nil {
		return fallback
	}
	return max(1, min(100, parsed))
}

func noteIDFrom(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

func (h *Handler) handleRecent(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.Recent(r.Context(), limitFrom(r, 20))
	if err != nil {
		HandleError(w, err)
		return
	}
	if notes == nil {
		notes = []noteshare.Note{}
	}

	_ = WriteJSON(w, http.StatusOK, noteshare.ListResult{Items: notes})
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := noteshare.SearchQuery{
		Term:   r.URL.Query().Get("q"),
		Limit:  limitFrom(r, 20),
		Cursor: r.URL.Query().Get("cursor"),
	}

	result, err := h.service.Search(r.Context(), query)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleMine(w http.ResponseWriter, r *http.Request) {
	owner, ok := UserFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	query := noteshare.ListQuery{
		Limit:  limitFrom(r, 20),
		Cursor: r.URL.Query().Get("cursor"),
	}

	result, err := h.service.ByOwner(r.Context(), owner, query)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := noteIDFrom(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "invalid_input", "Invalid note id")
		return
	}

	note, err := h.service.Get(r.Context(), id)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, note)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	owner, ok := UserFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadSize)
	if err := r.ParseMultipartForm(h.config.MaxUploadSize); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_input", "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_input", "Missing file")
		return
	}
	defer func() { _ = file.Close() }()

	req := noteshare.CreateNote{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		FileName:    header.Filename,
		Owner:       owner,
	}

	created, err := h.service.Upload(r.Context(), req, file, header.Size)
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	owner, ok := UserFrom(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	id, idOK := noteIDFrom(r)
	if !idOK {
		WriteError(w, http.StatusBadRequest, "invalid_input", "Invalid note id")
		return
	}

	if err := h.service.Delete(r.Context(), id, owner); err != nil {
		HandleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSignedURL(w http.ResponseWriter, r *http.Request) {
	note, ok := h.fetchNote(w, r)
	if !ok {
		return
	}

	url, ok := h.deliverer.SignedURL(r.Context(), note)
	if !ok {
		WriteError(w, http.StatusNotFound, "file_unavailable", "File unavailable")
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	note, ok := h.fetchNote(w, r)
	if !ok {
		return
	}

	preview, err := h.deliverer.Preview(r.Context(), note)
	if err != nil {
		HandleError(w, err)
		return
	}

	if !preview.Inline {
		http.Redirect(w, r, preview.RedirectURL, http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", preview.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(preview.Content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(preview.Content)
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	note, ok := h.fetchNote(w, r)
	if !ok {
		return
	}

	info, content, err := h.deliverer.Download(r.Context(), note)
	if err != nil {
		HandleError(w, err)
		return
	}
	defer func() { _ = content.Close() }()

	w.Header().Set("Content-Type", info.ContentType)
	w.Header().Set("Content-Disposition", info.Disposition)
	if info.ContentLength >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.ContentLength, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, content); err != nil {
		slog.Warn("download relay interrupted", "note_id", note.ID, "err", err)
	}
}

func (h *Handler) fetchNote(w http.ResponseWriter, r *http.Request) (noteshare.Note, bool) {
	id, ok := noteIDFrom(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "invalid_input", "Invalid note id")
		return noteshare.Note{}, false
	}

	note, err := h.service.Get(r.Context(), id)
	if err != nil {
		HandleError(w, err)
		return noteshare.Note{}, false
	}

	return note, true
}
