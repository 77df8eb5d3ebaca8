package wizard

import (
	"errors"
	"fmt"

	"github.com/jonathan/manuscript-editor/internal/types"
)

// Validation errors block the transition and leave the session untouched.
var (
	ErrEmptyDraft = errors.New("draft is empty: paste a rough draft, abstract or data points")
	ErrEmptyTitle = errors.New("selected title is empty: paste the title you chose")
)

// InvalidInputError reports a malformed confirm input.
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// StageFailedError is returned under PolicyBlock when the user tries to leave
// a stage whose artifact failed to generate.
type StageFailedError struct {
	Stage   types.Stage
	Message string
}

func (e *StageFailedError) Error() string {
	return fmt.Sprintf("stage %s failed: %s", e.Stage, e.Message)
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	var iie *InvalidInputError
	return errors.Is(err, ErrEmptyDraft) || errors.Is(err, ErrEmptyTitle) || errors.As(err, &iie)
}
