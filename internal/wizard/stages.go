// Package wizard implements the stage controller that drives a session
// through the five manuscript stages.
package wizard

import (
	"strings"

	"github.com/jonathan/manuscript-editor/internal/prompts"
	"github.com/jonathan/manuscript-editor/internal/types"
)

// Input carries the user inputs for a confirm action. Only the fields the
// current stage reads are used.
type Input struct {
	Draft          string
	ManuscriptType types.ManuscriptType
	SelectedTitle  string
}

// stageDescriptor defines one stage of the flow. Adding a stage means adding
// a row to the table, not a new branch in the controller.
type stageDescriptor struct {
	stage types.Stage
	// prompt builds the generation prompt on entry; nil for stages without an artifact
	prompt func(*types.Session) (string, error)
	// validate checks the confirm inputs against the session; it must not mutate
	validate func(*Controller, Input) error
	// apply stores the confirm inputs into the session
	apply func(*types.Session, Input)
	// terminal stages reset the session on confirm instead of advancing
	terminal bool
	next     types.Stage
}

func buildFor(stage types.Stage) func(*types.Session) (string, error) {
	return func(s *types.Session) (string, error) {
		return prompts.Build(stage, s)
	}
}

var stageTable = map[types.Stage]stageDescriptor{
	types.StageDraft: {
		stage:    types.StageDraft,
		validate: validateDraft,
		apply: func(s *types.Session, in Input) {
			s.RawDraft = in.Draft
			s.ManuscriptType = in.ManuscriptType
			if s.ManuscriptType == "" {
				s.ManuscriptType = types.OriginalArticle
			}
		},
		next: types.StageTitle,
	},
	types.StageTitle: {
		stage:    types.StageTitle,
		prompt:   buildFor(types.StageTitle),
		validate: validateTitle,
		apply: func(s *types.Session, in Input) {
			s.SelectedTitle = strings.TrimSpace(in.SelectedTitle)
		},
		next: types.StagePrePaper,
	},
	types.StagePrePaper: {
		stage:  types.StagePrePaper,
		prompt: buildFor(types.StagePrePaper),
		next:   types.StageReview,
	},
	types.StageReview: {
		stage:  types.StageReview,
		prompt: buildFor(types.StageReview),
		next:   types.StagePostPaper,
	},
	types.StagePostPaper: {
		stage:    types.StagePostPaper,
		prompt:   buildFor(types.StagePostPaper),
		terminal: true,
		next:     types.StageDraft,
	},
}

func validateDraft(c *Controller, in Input) error {
	if strings.TrimSpace(in.Draft) == "" {
		return ErrEmptyDraft
	}
	if err := c.gen.CheckCredential(); err != nil {
		return err
	}
	if in.ManuscriptType != "" && !in.ManuscriptType.Valid() {
		return &InvalidInputError{Field: "manuscript_type", Message: "unsupported manuscript type: " + string(in.ManuscriptType)}
	}
	return nil
}

func validateTitle(_ *Controller, in Input) error {
	if strings.TrimSpace(in.SelectedTitle) == "" {
		return ErrEmptyTitle
	}
	return nil
}
