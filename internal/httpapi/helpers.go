package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/polyblog/polyblog/content"
	"github.com/polyblog/polyblog/internal/auth"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	return decoder.Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	var notFound *content.NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: notFound.Error(),
		}
	}

	if errors.Is(err, content.ErrSlugExists) ||
		errors.Is(err, content.ErrTranslationExists) ||
		errors.Is(err, content.ErrValidation) {
		return http.StatusBadRequest, errorResponse{
			Error:   "bad_request",
			Message: err.Error(),
		}
	}

	if errors.Is(err, auth.ErrInvalidCredentials) || errors.Is(err, auth.ErrInvalidToken) {
		return http.StatusUnauthorized, errorResponse{
			Error:   "unauthorized",
			Message: err.Error(),
		}
	}

	return http.StatusInternalServerError, errorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	}
}
