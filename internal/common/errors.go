package common

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
	ErrDatabase     = errors.New("database error")

	// ErrOCRInputInvalid is fatal for the affected document only: raw input
	// is missing its required text. Other documents in a batch proceed.
	ErrOCRInputInvalid = errors.New("ocr input invalid")

	// ErrTranslationUnavailable is recoverable: the pipeline falls back to
	// the original-language text and records a warning.
	ErrTranslationUnavailable = errors.New("translation unavailable")

	// ErrRuleConfiguration is recoverable per rule: a malformed definition
	// is reported as a failed check and evaluation continues.
	ErrRuleConfiguration = errors.New("rule configuration error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus maps application errors to response status codes.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrOCRInputInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
