package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vaughan-dsouza/nerv/internal/store"
	"github.com/vaughan-dsouza/nerv/internal/utils"
)

// ValidationError is a caller mistake reported as 400 with its message.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func invalid(msg string) error {
	return &ValidationError{Msg: msg}
}

// respondError maps domain errors to responses. resource names the thing in
// 404 messages; a foreign resource reads the same as a missing one.
func respondError(w http.ResponseWriter, r *http.Request, log *slog.Logger, resource string, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		utils.JSONError(w, http.StatusBadRequest, ve.Msg)
	case errors.Is(err, store.ErrInvalidStatus):
		utils.JSONError(w, http.StatusBadRequest, "status must be one of: pending, in-progress, completed, archived")
	case errors.Is(err, store.ErrNotFound):
		utils.JSONError(w, http.StatusNotFound, resource+" not found")
	case errors.Is(err, store.ErrDuplicateEmail):
		utils.JSONError(w, http.StatusConflict, "email already registered")
	default:
		log.Error("request failed",
			slog.String("resource", resource),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", chimw.GetReqID(r.Context())),
			slog.Any("error", err),
		)
		utils.JSONError(w, http.StatusInternalServerError, "internal server error")
	}
}

// ownerID returns the verified caller id or writes 401.
func ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := utils.IdentityFromContext(r.Context())
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return id.UserID, true
}
