package llm

import "errors"

// ErrMissingCredential is returned when no API key is configured.
var ErrMissingCredential = errors.New("missing credential: no Gemini API key configured")

// BackendError wraps any failure surfaced by the generation backend
// (network, quota, authentication, malformed response).
type BackendError struct {
	Message string
	Cause   error
}

func (e *BackendError) Error() string {
	return e.Message
}

func (e *BackendError) Unwrap() error {
	return e.Cause
}

// newBackendError builds a BackendError whose message is the cause's text.
func newBackendError(cause error) *BackendError {
	msg := "generation failed"
	if cause != nil {
		msg = cause.Error()
	}
	return &BackendError{Message: msg, Cause: cause}
}

// IsBackendError reports whether err is or wraps a BackendError.
func IsBackendError(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}
