package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sagarc03/noteshare"
)

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errCode,
		Message: message,
	}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// HandleError writes the appropriate error response based on error type
func HandleError(w http.ResponseWriter, err error) {
	slog.Error("request error", "error", err)

	switch {
	case errors.Is(err, noteshare.ErrValidation):
		WriteError(w, http.StatusBadRequest, "validation_failed", "Validation failed")
	case errors.Is(err, noteshare.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, "invalid_input", "Invalid input")
	case errors.Is(err, noteshare.ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
	case errors.Is(err, noteshare.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", "Note not found")
	case errors.Is(err, noteshare.ErrFileUnavailable):
		WriteError(w, http.StatusNotFound, "file_unavailable", "File unavailable")
	case errors.Is(err, noteshare.ErrFetchFailed):
		var fetchErr *noteshare.FetchError
		if errors.As(err, &fetchErr) && fetchErr.Timeout {
			WriteError(w, http.StatusGatewayTimeout, "fetch_timeout", "Upstream fetch timed out")
			return
		}
		WriteError(w, http.StatusBadGateway, "fetch_failed", "Upstream fetch failed")
	case errors.Is(err, noteshare.ErrUploadFailed):
		WriteError(w, http.StatusBadGateway, "upload_failed", "Storage backend rejected the upload, try again")
	case errors.Is(err, noteshare.ErrDeleteFailed):
		WriteError(w, http.StatusBadGateway, "delete_failed", "Storage backend could not delete the file, try again")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}
