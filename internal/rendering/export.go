package rendering

import (
	"fmt"

	"github.com/jonathan/manuscript-editor/internal/types"
)

// Export is a downloadable file produced from a stage artifact.
type Export struct {
	Stage       types.Stage
	Filename    string
	ContentType string
	Body        []byte
}

// Fixed export filenames
const (
	TitlesFilename    = "candidate_titles.txt"
	PrePaperFilename  = "pre_paper.txt"
	ReviewFilename    = "peer_review.txt"
	PostPaperFilename = "manuscript_final.html"
	PostPaperPDFName  = "manuscript_final.pdf"
)

const (
	contentTypeText = "text/plain; charset=utf-8"
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypePDF  = "application/pdf"
)

// ExportFor builds the export for a stage's artifact. Failed artifacts are
// exported with their visible error text; pending ones cannot be exported.
func ExportFor(stage types.Stage, s *types.Session) (*Export, error) {
	artifact := s.ArtifactFor(stage)
	if artifact == nil {
		return nil, fmt.Errorf("stage %s has no artifact to export", stage)
	}
	if artifact.IsPending() {
		return nil, ErrNothingToExport
	}

	text := artifact.Display()
	switch stage {
	case types.StageTitle:
		return &Export{Stage: stage, Filename: TitlesFilename, ContentType: contentTypeText, Body: []byte(text)}, nil
	case types.StagePrePaper:
		return &Export{Stage: stage, Filename: PrePaperFilename, ContentType: contentTypeText, Body: []byte(text)}, nil
	case types.StageReview:
		return &Export{Stage: stage, Filename: ReviewFilename, ContentType: contentTypeText, Body: []byte(text)}, nil
	default:
		doc, err := ManuscriptDocument(text, s.SelectedTitle)
		if err != nil {
			return nil, err
		}
		return &Export{Stage: stage, Filename: PostPaperFilename, ContentType: contentTypeHTML, Body: []byte(doc)}, nil
	}
}

// Render returns the HTML shown for a stage's artifact: an info box for the
// titles, escaped text for the pre-paper, a reviewer box for the review and
// the full document for the post-paper.
func Render(stage types.Stage, s *types.Session) (string, error) {
	artifact := s.ArtifactFor(stage)
	if artifact == nil {
		return "", fmt.Errorf("stage %s has no artifact to render", stage)
	}
	if artifact.IsPending() {
		return "", ErrNothingToExport
	}

	text := artifact.Display()
	switch stage {
	case types.StageTitle:
		return TitlesHTML(text), nil
	case types.StagePrePaper:
		return `<pre class="pre-paper">` + TextHTML(text) + `</pre>`, nil
	case types.StageReview:
		return ReviewHTML(text), nil
	default:
		return ManuscriptDocument(text, s.SelectedTitle)
	}
}
