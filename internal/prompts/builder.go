package prompts

import (
	"fmt"

	"github.com/jonathan/manuscript-editor/internal/types"
)

const manuscriptFile = "manuscript.json"

// TitleDraftLimit is how many characters of the draft the title prompt quotes.
const TitleDraftLimit = 1000

// MinimumWordTarget is the revised manuscript length requested from the model.
const MinimumWordTarget = 6000

var structureKeys = map[types.ManuscriptType]string{
	types.OriginalArticle: "structure-original-article",
	types.SLRMetaAnalysis: "structure-slr-meta-analysis",
	types.CaseReport:      "structure-case-report",
}

// Build returns the prompt issued on entry to stage. It reads the session
// and never modifies it. DRAFT has no prompt.
func Build(stage types.Stage, s *types.Session) (string, error) {
	switch stage {
	case types.StageTitle:
		return BuildTitlePrompt(s.RawDraft)
	case types.StagePrePaper:
		return BuildPrePaperPrompt(s.SelectedTitle, s.RawDraft, s.ManuscriptType)
	case types.StageReview:
		return BuildReviewPrompt(s.PrePaper.Display())
	case types.StagePostPaper:
		return BuildPostPaperPrompt(s.SelectedTitle, s.ReviewFeedback.Display(), s.PrePaper.Display())
	default:
		return "", fmt.Errorf("stage %s has no prompt", stage)
	}
}

// BuildTitlePrompt asks for five scored candidate titles for the draft.
func BuildTitlePrompt(draft string) (string, error) {
	template, err := Get(manuscriptFile, "title-brainstorm")
	if err != nil {
		return "", err
	}
	return Format(template, map[string]string{
		"Draft": truncateRunes(draft, TitleDraftLimit),
	}), nil
}

// StructureFor returns the structural instructions for a manuscript type.
func StructureFor(mt types.ManuscriptType) (string, error) {
	key, ok := structureKeys[mt]
	if !ok {
		return "", fmt.Errorf("no structure template for manuscript type %q", mt)
	}
	return Get(manuscriptFile, key)
}

// BuildPrePaperPrompt asks for a complete manuscript in the structure of the
// given manuscript type.
func BuildPrePaperPrompt(title, draft string, mt types.ManuscriptType) (string, error) {
	structure, err := StructureFor(mt)
	if err != nil {
		return "", err
	}
	template, err := Get(manuscriptFile, "pre-paper")
	if err != nil {
		return "", err
	}
	return Format(template, map[string]string{
		"Title":          title,
		"Draft":          draft,
		"ManuscriptType": mt.Label(),
		"Structure":      structure,
	}), nil
}

// BuildReviewPrompt asks two simulated reviewers to critique the pre-paper.
func BuildReviewPrompt(prePaper string) (string, error) {
	template, err := Get(manuscriptFile, "peer-review")
	if err != nil {
		return "", err
	}
	return Format(template, map[string]string{
		"PrePaper": prePaper,
	}), nil
}

// BuildPostPaperPrompt asks for the revision of the pre-paper against the review.
func BuildPostPaperPrompt(title, review, prePaper string) (string, error) {
	template, err := Get(manuscriptFile, "post-paper")
	if err != nil {
		return "", err
	}
	return Format(template, map[string]string{
		"Title":    title,
		"Review":   review,
		"PrePaper": prePaper,
		"MinWords": fmt.Sprintf("%d", MinimumWordTarget),
	}), nil
}

// truncateRunes returns at most n characters of s without splitting a rune.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
