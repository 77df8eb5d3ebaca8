package types

// ArtifactView is the JSON form of an Artifact.
type ArtifactView struct {
	Status  ArtifactStatus `json:"status"`
	Text    string         `json:"text,omitempty"`
	Error   string         `json:"error,omitempty"`
	Display string         `json:"display"`
}

// SessionSnapshot is a read-only JSON view of a session.
type SessionSnapshot struct {
	ID              string       `json:"id,omitempty"`
	Stage           string       `json:"stage"`
	StageNumber     int          `json:"stage_number"`
	ManuscriptType  string       `json:"manuscript_type"`
	ManuscriptLabel string       `json:"manuscript_label"`
	Model           string       `json:"model,omitempty"`
	RawDraft        string       `json:"raw_draft"`
	SelectedTitle   string       `json:"selected_title"`
	CandidateTitles ArtifactView `json:"candidate_titles"`
	PrePaper        ArtifactView `json:"pre_paper"`
	ReviewFeedback  ArtifactView `json:"review_feedback"`
	PostPaper       ArtifactView `json:"post_paper"`
}

// View converts an artifact to its JSON form.
func (a Artifact) View() ArtifactView {
	return ArtifactView{
		Status:  a.State(),
		Text:    a.Text,
		Error:   a.Error,
		Display: a.Display(),
	}
}

// Snapshot returns the JSON view of the session. Stage numbers are 1-based
// to match what the user sees.
func (s *Session) Snapshot() SessionSnapshot {
	return SessionSnapshot{
		Stage:           s.Stage.String(),
		StageNumber:     int(s.Stage) + 1,
		ManuscriptType:  string(s.ManuscriptType),
		ManuscriptLabel: s.ManuscriptType.Label(),
		RawDraft:        s.RawDraft,
		SelectedTitle:   s.SelectedTitle,
		CandidateTitles: s.CandidateTitles.View(),
		PrePaper:        s.PrePaper.View(),
		ReviewFeedback:  s.ReviewFeedback.View(),
		PostPaper:       s.PostPaper.View(),
	}
}
