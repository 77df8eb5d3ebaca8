package types

import (
	"github.com/go-playground/validator/v10"
)

// MaxDraftLength bounds the raw draft accepted from a client, in characters
// (runes). The validate tag on ConfirmRequest.Draft uses the same limit.
const MaxDraftLength = 200000

// CreateSessionRequest opens a new editing session. The credential and model
// are chosen once per session.
type CreateSessionRequest struct {
	APIKey string `json:"api_key,omitempty" validate:"omitempty,min=8"`
	Model  string `json:"model,omitempty" validate:"omitempty,max=64"`
}

// ConfirmRequest carries the user inputs for the confirm action of the
// current stage. Which fields are required depends on the stage and is
// enforced by the stage controller, not here.
type ConfirmRequest struct {
	Draft          string `json:"draft,omitempty" validate:"max=200000"`
	ManuscriptType string `json:"manuscript_type,omitempty" validate:"max=64"`
	SelectedTitle  string `json:"selected_title,omitempty" validate:"max=1000"`
}

// Validate validates the CreateSessionRequest using the validator.
func (r *CreateSessionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ConfirmRequest using the validator.
func (r *ConfirmRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
