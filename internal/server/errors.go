// Package server provides the HTTP API for the manuscript editor.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/manuscript-editor/internal/llm"
	"github.com/jonathan/manuscript-editor/internal/rendering"
	"github.com/jonathan/manuscript-editor/internal/wizard"
)

// ErrSessionNotFound indicates the session id is unknown or was deleted
type ErrSessionNotFound struct {
	ID string
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("session not found: %s", e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		notFound    *ErrSessionNotFound
		invalid     *ErrValidation
		fieldErrs   validator.ValidationErrors
		stageFailed *wizard.StageFailedError
		backend     *llm.BackendError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &invalid), errors.As(err, &fieldErrs), wizard.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, llm.ErrMissingCredential):
		return http.StatusPreconditionFailed
	case errors.As(err, &stageFailed), errors.Is(err, wizard.ErrNothingToRetry), errors.Is(err, rendering.ErrNothingToExport):
		return http.StatusConflict
	case errors.As(err, &backend):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
