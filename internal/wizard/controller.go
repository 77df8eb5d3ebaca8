package wizard

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jonathan/manuscript-editor/internal/llm"
	"github.com/jonathan/manuscript-editor/internal/types"
)

// Generator is the generation capability the controller depends on.
// *llm.Gateway implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string, selector llm.ModelSelector) (string, error)
	CheckCredential() error
}

// FailurePolicy decides whether a failed artifact blocks advancement.
type FailurePolicy string

const (
	// PolicyProceed lets the user advance past a failed stage; the error text
	// becomes the stage's visible result and feeds later prompts.
	PolicyProceed FailurePolicy = "proceed"
	// PolicyBlock refuses to advance until the failed stage is retried successfully.
	PolicyBlock FailurePolicy = "block"
)

// ParseFailurePolicy parses a policy name; empty selects PolicyProceed.
func ParseFailurePolicy(value string) (FailurePolicy, error) {
	switch FailurePolicy(value) {
	case "", PolicyProceed:
		return PolicyProceed, nil
	case PolicyBlock:
		return PolicyBlock, nil
	default:
		return "", fmt.Errorf("unknown failure policy: %q", value)
	}
}

// ErrNothingToRetry is returned by Retry when the current stage has no failed artifact.
var ErrNothingToRetry = errors.New("current stage has no failed artifact to retry")

// EventKind identifies a controller progress event.
type EventKind string

// Event kinds
const (
	EventStageEntered EventKind = "stage"
	EventGenerating   EventKind = "generating"
	EventGenerated    EventKind = "artifact"
	EventReset        EventKind = "reset"
)

// Event reports controller progress to an observer.
type Event struct {
	Kind     EventKind
	Stage    types.Stage
	Artifact types.Artifact
}

// Controller drives one session through the stages. It is not safe for
// concurrent use; callers serialize access per session.
type Controller struct {
	session  *types.Session
	gen      Generator
	model    llm.ModelSelector
	policy   FailurePolicy
	verbose  bool
	observer func(Event)
}

// Option configures a Controller.
type Option func(*Controller)

// WithModel selects the model used for every generation call of the session.
func WithModel(selector llm.ModelSelector) Option {
	return func(c *Controller) {
		if selector != "" {
			c.model = selector
		}
	}
}

// WithPolicy sets the failure policy.
func WithPolicy(policy FailurePolicy) Option {
	return func(c *Controller) {
		if policy != "" {
			c.policy = policy
		}
	}
}

// WithVerbose enables progress logging.
func WithVerbose(verbose bool) Option {
	return func(c *Controller) {
		c.verbose = verbose
	}
}

// New creates a controller owning a fresh session.
func New(gen Generator, opts ...Option) *Controller {
	c := &Controller{
		session: types.NewSession(),
		gen:     gen,
		model:   llm.ModelFlash,
		policy:  PolicyProceed,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns a copy of the current session state.
func (c *Controller) Session() *types.Session {
	return c.session.Clone()
}

// Stage returns the current stage.
func (c *Controller) Stage() types.Stage {
	return c.session.Stage
}

// Model returns the session's model selector.
func (c *Controller) Model() llm.ModelSelector {
	return c.model
}

// Policy returns the session's failure policy.
func (c *Controller) Policy() FailurePolicy {
	return c.policy
}

// SetObserver installs fn to receive progress events; nil removes it.
func (c *Controller) SetObserver(fn func(Event)) {
	c.observer = fn
}

func (c *Controller) emit(ev Event) {
	if c.observer != nil {
		c.observer(ev)
	}
}

// Confirm performs the confirm action of the current stage: validate the
// inputs, store them, advance to the next stage and generate its artifact.
// On the terminal stage it resets the session instead. Validation failures
// return an error without touching the session or the generator.
func (c *Controller) Confirm(ctx context.Context, in Input) error {
	desc, ok := stageTable[c.session.Stage]
	if !ok {
		return fmt.Errorf("no descriptor for stage %s", c.session.Stage)
	}

	if desc.validate != nil {
		if err := desc.validate(c, in); err != nil {
			return err
		}
	}

	if desc.prompt != nil {
		// an artifact is always populated once its stage is reached
		c.EnsureGenerated(ctx)
		if a := c.session.ArtifactFor(desc.stage); c.policy == PolicyBlock && !desc.terminal && a.IsFailed() {
			return &StageFailedError{Stage: desc.stage, Message: a.Error}
		}
	}

	if desc.apply != nil {
		desc.apply(c.session, in)
	}

	if desc.terminal {
		c.Restart()
		return nil
	}

	c.session.Stage = desc.next
	if c.verbose {
		log.Printf("[WIZARD] entered stage %s", c.session.Stage)
	}
	c.emit(Event{Kind: EventStageEntered, Stage: c.session.Stage})
	c.EnsureGenerated(ctx)
	return nil
}

// EnsureGenerated generates the current stage's artifact if it is still
// pending and reports whether a generation call was issued. Calling it again
// for the same stage never issues another call. A generation failure is
// recorded as a Failed artifact rather than returned.
func (c *Controller) EnsureGenerated(ctx context.Context) bool {
	desc, ok := stageTable[c.session.Stage]
	if !ok || desc.prompt == nil {
		return false
	}
	artifact := c.session.ArtifactFor(desc.stage)
	if !artifact.IsPending() {
		return false
	}

	c.emit(Event{Kind: EventGenerating, Stage: desc.stage})
	*artifact = c.generate(ctx, desc)
	c.emit(Event{Kind: EventGenerated, Stage: desc.stage, Artifact: *artifact})
	return true
}

func (c *Controller) generate(ctx context.Context, desc stageDescriptor) types.Artifact {
	prompt, err := desc.prompt(c.session)
	if err != nil {
		if c.verbose {
			log.Printf("[WIZARD] build %s prompt: %v", desc.stage, err)
		}
		return types.Failed(err.Error())
	}

	if c.verbose {
		log.Printf("[WIZARD] generating %s artifact", desc.stage)
	}
	text, err := c.gen.Generate(ctx, prompt, c.model)
	if err != nil {
		if c.verbose {
			log.Printf("[WIZARD] %s generation failed: %v", desc.stage, err)
		}
		return types.Failed(err.Error())
	}
	return types.Ready(text)
}

// Retry regenerates the current stage's artifact if, and only if, it failed.
// Ready artifacts are never regenerated.
func (c *Controller) Retry(ctx context.Context) error {
	artifact := c.session.ArtifactFor(c.session.Stage)
	if artifact == nil || !artifact.IsFailed() {
		return ErrNothingToRetry
	}
	*artifact = types.Artifact{}
	c.EnsureGenerated(ctx)
	return nil
}

// Restart discards the session and starts a new project at DRAFT.
func (c *Controller) Restart() {
	c.session.Reset()
	if c.verbose {
		log.Printf("[WIZARD] session reset")
	}
	c.emit(Event{Kind: EventReset, Stage: types.StageDraft})
}

// SubmitDraft confirms the DRAFT stage.
func (c *Controller) SubmitDraft(ctx context.Context, draft string, mt types.ManuscriptType) error {
	if err := c.expect(types.StageDraft); err != nil {
		return err
	}
	return c.Confirm(ctx, Input{Draft: draft, ManuscriptType: mt})
}

// SelectTitle confirms the TITLE stage with the user's chosen title.
func (c *Controller) SelectTitle(ctx context.Context, title string) error {
	if err := c.expect(types.StageTitle); err != nil {
		return err
	}
	return c.Confirm(ctx, Input{SelectedTitle: title})
}

// Advance confirms a stage that takes no input (PRE_PAPER, REVIEW, POST_PAPER).
func (c *Controller) Advance(ctx context.Context) error {
	switch c.session.Stage {
	case types.StageDraft, types.StageTitle:
		return &InvalidInputError{Field: "stage", Message: fmt.Sprintf("stage %s requires input to confirm", c.session.Stage)}
	}
	return c.Confirm(ctx, Input{})
}

func (c *Controller) expect(stage types.Stage) error {
	if c.session.Stage != stage {
		return &InvalidInputError{Field: "stage", Message: fmt.Sprintf("session is at stage %s, not %s", c.session.Stage, stage)}
	}
	return nil
}
