package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/common"
)

// envelope is the uniform response body: exactly one of data or error is set.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondOK(w http.ResponseWriter, data any) {
	respondJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func respondCreated(w http.ResponseWriter, data any) {
	respondJSON(w, http.StatusCreated, envelope{Success: true, Data: data})
}

func respondAccepted(w http.ResponseWriter, data any) {
	respondJSON(w, http.StatusAccepted, envelope{Success: true, Data: data})
}

// respondError maps application errors to status codes and hides internal
// detail from 5xx responses.
func respondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := common.HTTPStatus(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
		msg = "internal error"
	}
	respondJSON(w, status, envelope{Success: false, Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return common.WrapError(common.ErrInvalidInput, "decode request body")
	}
	if dec.More() {
		return common.WrapError(common.ErrInvalidInput, "trailing data in request body")
	}
	return nil
}

func badRequest(msg string) error {
	return common.WrapError(common.ErrInvalidInput, msg)
}

// notFoundAs rewrites a repository not-found into a clearer message.
func notFoundAs(err error, msg string) error {
	if errors.Is(err, common.ErrNotFound) {
		return common.WrapError(common.ErrNotFound, msg)
	}
	return err
}
