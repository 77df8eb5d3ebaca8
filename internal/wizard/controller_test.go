package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/manuscript-editor/internal/llm"
	"github.com/jonathan/manuscript-editor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGenerator records prompts and answers from a function.
type stubGenerator struct {
	credential error
	respond    func(prompt string) (string, error)
	prompts    []string
	selectors  []llm.ModelSelector
}

func (s *stubGenerator) Generate(_ context.Context, prompt string, selector llm.ModelSelector) (string, error) {
	s.prompts = append(s.prompts, prompt)
	s.selectors = append(s.selectors, selector)
	return s.respond(prompt)
}

func (s *stubGenerator) CheckCredential() error {
	return s.credential
}

func (s *stubGenerator) calls() int {
	return len(s.prompts)
}

func echoGenerator() *stubGenerator {
	return &stubGenerator{respond: func(prompt string) (string, error) { return prompt, nil }}
}

func failingGenerator(message string) *stubGenerator {
	return &stubGenerator{respond: func(string) (string, error) {
		return "", &llm.BackendError{Message: message}
	}}
}

func TestNew_FreshSession(t *testing.T) {
	c := New(echoGenerator())

	assert.Equal(t, types.NewSession(), c.Session())
	assert.Equal(t, types.StageDraft, c.Stage())
	assert.Equal(t, llm.ModelFlash, c.Model())
	assert.Equal(t, PolicyProceed, c.Policy())
}

func TestConfirmDraft_EmptyDraft(t *testing.T) {
	gen := echoGenerator()
	c := New(gen)

	for _, draft := range []string{"", "   \n\t"} {
		err := c.SubmitDraft(context.Background(), draft, types.OriginalArticle)
		assert.ErrorIs(t, err, ErrEmptyDraft)
		assert.True(t, IsValidation(err))
	}

	assert.Equal(t, types.StageDraft, c.Stage())
	assert.Equal(t, types.NewSession(), c.Session())
	assert.Equal(t, 0, gen.calls())
}

func TestConfirmDraft_MissingCredential(t *testing.T) {
	gen := echoGenerator()
	gen.credential = llm.ErrMissingCredential
	c := New(gen)

	err := c.SubmitDraft(context.Background(), "Patients with X show Y", types.CaseReport)
	assert.ErrorIs(t, err, llm.ErrMissingCredential)
	assert.Equal(t, types.StageDraft, c.Stage())
	assert.Empty(t, c.Session().RawDraft)
	assert.Equal(t, 0, gen.calls())
}

func TestConfirmDraft_EmptyDraftReportedBeforeCredential(t *testing.T) {
	gen := echoGenerator()
	gen.credential = llm.ErrMissingCredential
	c := New(gen)

	err := c.SubmitDraft(context.Background(), "  ", types.OriginalArticle)
	assert.ErrorIs(t, err, ErrEmptyDraft)
	assert.NotErrorIs(t, err, llm.ErrMissingCredential)
}

func TestConfirmDraft_MissingCredentialWithRealGateway(t *testing.T) {
	c := New(llm.NewGateway(""))

	err := c.SubmitDraft(context.Background(), "draft", types.OriginalArticle)
	assert.ErrorIs(t, err, llm.ErrMissingCredential)
	assert.Equal(t, types.StageDraft, c.Stage())
}

func TestConfirmDraft_InvalidManuscriptType(t *testing.T) {
	gen := echoGenerator()
	c := New(gen)

	err := c.Confirm(context.Background(), Input{Draft: "d", ManuscriptType: "letter"})
	var iie *InvalidInputError
	require.ErrorAs(t, err, &iie)
	assert.Equal(t, "manuscript_type", iie.Field)
	assert.Equal(t, types.StageDraft, c.Stage())
	assert.Equal(t, 0, gen.calls())
}

func TestConfirmDraft_DefaultsManuscriptType(t *testing.T) {
	c := New(echoGenerator())

	require.NoError(t, c.Confirm(context.Background(), Input{Draft: "d"}))
	assert.Equal(t, types.OriginalArticle, c.Session().ManuscriptType)
}

func TestConfirmDraft_AdvancesAndGeneratesTitles(t *testing.T) {
	gen := echoGenerator()
	c := New(gen, WithModel(llm.ModelPro))

	require.NoError(t, c.SubmitDraft(context.Background(), "Patients with X show Y", types.SLRMetaAnalysis))

	s := c.Session()
	assert.Equal(t, types.StageTitle, s.Stage)
	assert.Equal(t, "Patients with X show Y", s.RawDraft)
	assert.Equal(t, types.SLRMetaAnalysis, s.ManuscriptType)
	assert.True(t, s.CandidateTitles.IsReady())
	assert.Equal(t, 1, gen.calls())
	assert.Equal(t, []llm.ModelSelector{llm.ModelPro}, gen.selectors)
}

func TestConfirmTitle_EmptyTitle(t *testing.T) {
	gen := echoGenerator()
	c := New(gen)
	require.NoError(t, c.SubmitDraft(context.Background(), "draft", types.OriginalArticle))
	before := c.Session()

	err := c.SelectTitle(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyTitle)
	assert.Equal(t, before, c.Session())
	assert.Equal(t, 1, gen.calls())
}

func TestEnsureGenerated_Idempotent(t *testing.T) {
	gen := echoGenerator()
	c := New(gen)
	ctx := context.Background()

	require.NoError(t, c.SubmitDraft(ctx, "draft", types.OriginalArticle))
	assert.False(t, c.EnsureGenerated(ctx))
	assert.False(t, c.EnsureGenerated(ctx))
	assert.Equal(t, 1, gen.calls())

	require.NoError(t, c.SelectTitle(ctx, "T"))
	assert.False(t, c.EnsureGenerated(ctx))
	require.NoError(t, c.Advance(ctx))
	assert.False(t, c.EnsureGenerated(ctx))
	require.NoError(t, c.Advance(ctx))
	assert.False(t, c.EnsureGenerated(ctx))
	assert.Equal(t, 4, gen.calls(), "one call per generated stage")
}

func TestEnsureGenerated_DraftIsNoop(t *testing.T) {
	gen := echoGenerator()
	c := New(gen)

	assert.False(t, c.EnsureGenerated(context.Background()))
	assert.Equal(t, 0, gen.calls())
}

func TestStageOrder(t *testing.T) {
	c := New(echoGenerator())
	ctx := context.Background()

	var seen []types.Stage
	c.SetObserver(func(ev Event) {
		if ev.Kind == EventStageEntered || ev.Kind == EventReset {
			seen = append(seen, ev.Stage)
		}
	})

	require.NoError(t, c.SubmitDraft(ctx, "draft", types.OriginalArticle))
	require.NoError(t, c.SelectTitle(ctx, "T"))
	require.NoError(t, c.Advance(ctx))
	require.NoError(t, c.Advance(ctx))
	require.NoError(t, c.Advance(ctx))

	assert.Equal(t, []types.Stage{
		types.StageTitle,
		types.StagePrePaper,
		types.StageReview,
		types.StagePostPaper,
		types.StageDraft,
	}, seen)
}

func TestAdvance_RequiresInputStages(t *testing.T) {
	c := New(echoGenerator())
	ctx := context.Background()

	assert.Error(t, c.Advance(ctx))
	require.NoError(t, c.SubmitDraft(ctx, "draft", types.OriginalArticle))
	assert.Error(t, c.Advance(ctx))
	assert.Equal(t, types.StageTitle, c.Stage())
}

func TestSubmitDraft_WrongStage(t *testing.T) {
	c := New(echoGenerator())
	ctx := context.Background()
	require.NoError(t, c.SubmitDraft(ctx, "draft", types.OriginalArticle))

	err := c.SubmitDraft(ctx, "another", types.CaseReport)
	assert.Error(t, err)
	assert.Equal(t, types.OriginalArticle, c.Session().ManuscriptType, "type is fixed after DRAFT")
	assert.Equal(t, "draft", c.Session().RawDraft)
}

func TestEndToEnd_EchoBackend(t *testing.T) {
	gen := echoGenerator()
	c := New(gen)
	ctx := context.Background()

	require.NoError(t, c.SubmitDraft(ctx, "Patients with X show Y", types.OriginalArticle))
	require.NoError(t, c.SelectTitle(ctx, "Effect of Y on X"))
	require.NoError(t, c.Advance(ctx))
	require.NoError(t, c.Advance(ctx))

	s := c.Session()
	require.Equal(t, types.StagePostPaper, s.Stage)

	titles := s.CandidateTitles.Display()
	assert.Contains(t, titles, "Patients with X show Y")
	assert.Contains(t, titles, "exactly 5 candidate titles")

	prePaper := s.PrePaper.Display()
	assert.Contains(t, prePaper, "Effect of Y on X")
	assert.Contains(t, prePaper, "PATHOPHYSIOLOGY")
	assert.Contains(t, prePaper, "BIOMOLECULAR")
	assert.NotContains(t, prePaper, "PRISMA")

	review := s.ReviewFeedback.Display()
	assert.Contains(t, review, prePaper)

	postPaper := s.PostPaper.Display()
	assert.Contains(t, postPaper, review)
	assert.Contains(t, postPaper, "Effect of Y on X")

	assert.Equal(t, 4, gen.calls())
}

func TestRestart_AfterPostPaper(t *testing.T) {
	c := New(echoGenerator())
	ctx := context.Background()

	require.NoError(t, c.SubmitDraft(ctx, "draft", types.CaseReport))
	require.NoError(t, c.SelectTitle(ctx, "T"))
	require.NoError(t, c.Advance(ctx))
	require.NoError(t, c.Advance(ctx))
	require.Equal(t, types.StagePostPaper, c.Stage())

	// confirming the terminal stage starts a new project
	require.NoError(t, c.Advance(ctx))
	assert.Equal(t, types.NewSession(), c.Session())
}

func TestRestart_FromAnyStage(t *testing.T) {
	c := New(echoGenerator())
	ctx := context.Background()
	require.NoError(t, c.SubmitDraft(ctx, "draft", types.CaseReport))

	c.Restart()
	assert.Equal(t, types.NewSession(), c.Session())
}

func TestRestart_RegeneratesInNewProject(t *testing.T) {
	gen := echoGenerator()
	c := New(gen)
	ctx := context.Background()

	require.NoError(t, c.SubmitDraft(ctx, "first", types.OriginalArticle))
	c.Restart()
	require.NoError(t, c.SubmitDraft(ctx, "second", types.OriginalArticle))

	assert.Equal(t, 2, gen.calls())
	assert.Contains(t, c.Session().CandidateTitles.Display(), "second")
}

func TestGatewayFailure_NonBlocking(t *testing.T) {
	gen := failingGenerator("quota exceeded")
	c := New(gen)
	ctx := context.Background()

	require.NoError(t, c.SubmitDraft(ctx, "draft", types.OriginalArticle))

	titles := c.Session().CandidateTitles
	assert.True(t, titles.IsFailed())
	assert.Equal(t, "quota exceeded", titles.Error)
	assert.Contains(t, titles.Display(), "quota exceeded")

	require.NoError(t, c.SelectTitle(ctx, "Chosen anyway"))
	assert.Equal(t, types.StagePrePaper, c.Stage())
	assert.True(t, c.Session().PrePaper.IsFailed())
}

func TestGatewayFailure_ErrorFeedsNextPrompt(t *testing.T) {
	calls := 0
	gen := &stubGenerator{respond: func(prompt string) (string, error) {
		calls++
		if calls == 2 {
			return "", errors.New("quota exceeded")
		}
		return prompt, nil
	}}
	c := New(gen)
	ctx := context.Background()

	require.NoError(t, c.SubmitDraft(ctx, "draft", types.OriginalArticle))
	require.NoError(t, c.SelectTitle(ctx, "T"))
	require.NoError(t, c.Advance(ctx))

	assert.Contains(t, gen.prompts[2], "Error: quota exceeded")
}

func TestGatewayFailure_BlockPolicy(t *testing.T) {
	gen := failingGenerator("quota exceeded")
	c := New(gen, WithPolicy(PolicyBlock))
	ctx := context.Background()

	require.NoError(t, c.SubmitDraft(ctx, "draft", types.OriginalArticle))

	err := c.SelectTitle(ctx, "T")
	var sfe *StageFailedError
	require.ErrorAs(t, err, &sfe)
	assert.Equal(t, types.StageTitle, sfe.Stage)
	assert.Equal(t, types.StageTitle, c.Stage())
	assert.Empty(t, c.Session().SelectedTitle)
	assert.Equal(t, 1, gen.calls())
}

func TestRetry(t *testing.T) {
	fail := true
	gen := &stubGenerator{respond: func(prompt string) (string, error) {
		if fail {
			return "", errors.New("quota exceeded")
		}
		return "five titles", nil
	}}
	c := New(gen, WithPolicy(PolicyBlock))
	ctx := context.Background()

	require.NoError(t, c.SubmitDraft(ctx, "draft", types.OriginalArticle))
	require.True(t, c.Session().CandidateTitles.IsFailed())

	fail = false
	require.NoError(t, c.Retry(ctx))
	assert.Equal(t, types.Ready("five titles"), c.Session().CandidateTitles)
	assert.Equal(t, 2, gen.calls())

	// ready artifacts are never regenerated
	assert.ErrorIs(t, c.Retry(ctx), ErrNothingToRetry)
	assert.Equal(t, 2, gen.calls())

	require.NoError(t, c.SelectTitle(ctx, "T"))
	assert.Equal(t, types.StagePrePaper, c.Stage())
}

func TestRetry_AtDraft(t *testing.T) {
	c := New(echoGenerator())
	assert.ErrorIs(t, c.Retry(context.Background()), ErrNothingToRetry)
}

func TestObserver_GenerationEvents(t *testing.T) {
	c := New(echoGenerator())
	var kinds []EventKind
	c.SetObserver(func(ev Event) { kinds = append(kinds, ev.Kind) })

	require.NoError(t, c.SubmitDraft(context.Background(), "draft", types.OriginalArticle))
	assert.Equal(t, []EventKind{EventStageEntered, EventGenerating, EventGenerated}, kinds)

	c.SetObserver(nil)
	c.Restart()
	assert.Len(t, kinds, 3)
}

func TestParseFailurePolicy(t *testing.T) {
	p, err := ParseFailurePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyProceed, p)

	p, err = ParseFailurePolicy("block")
	require.NoError(t, err)
	assert.Equal(t, PolicyBlock, p)

	_, err = ParseFailurePolicy("retry")
	assert.Error(t, err)
}

func TestSessionIsCopied(t *testing.T) {
	c := New(echoGenerator())
	s := c.Session()
	s.RawDraft = "mutated"
	assert.Empty(t, c.Session().RawDraft)
}
