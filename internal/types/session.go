// Package types provides type definitions for the session state shared by the manuscript editor.
package types

import (
	"fmt"
	"strings"
)

// Stage is one step of the five-step manuscript pipeline.
// Stages are totally ordered; the zero value is StageDraft.
type Stage int

// Stage constants in pipeline order
const (
	StageDraft Stage = iota
	StageTitle
	StagePrePaper
	StageReview
	StagePostPaper
)

var stageNames = map[Stage]string{
	StageDraft:     "draft",
	StageTitle:     "title",
	StagePrePaper:  "pre_paper",
	StageReview:    "review",
	StagePostPaper: "post_paper",
}

// Stages returns all stages in pipeline order.
func Stages() []Stage {
	return []Stage{StageDraft, StageTitle, StagePrePaper, StageReview, StagePostPaper}
}

// String returns the wire name of the stage (e.g. "pre_paper").
func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Valid reports whether s is one of the five pipeline stages.
func (s Stage) Valid() bool {
	_, ok := stageNames[s]
	return ok
}

// ParseStage parses a stage wire name.
func ParseStage(name string) (Stage, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for stage, n := range stageNames {
		if n == name {
			return stage, nil
		}
	}
	return StageDraft, fmt.Errorf("unknown stage: %q", name)
}

// ManuscriptType selects the structural template used for the pre-paper.
type ManuscriptType string

// Manuscript type constants
const (
	OriginalArticle ManuscriptType = "original_article"
	SLRMetaAnalysis ManuscriptType = "slr_meta_analysis"
	CaseReport      ManuscriptType = "case_report"
)

const defaultManuscript = OriginalArticle

var manuscriptLabels = map[ManuscriptType]string{
	OriginalArticle: "Original Article",
	SLRMetaAnalysis: "SLR/Meta-Analysis",
	CaseReport:      "Case Report",
}

// ManuscriptTypes returns the supported manuscript types in display order.
func ManuscriptTypes() []ManuscriptType {
	return []ManuscriptType{OriginalArticle, SLRMetaAnalysis, CaseReport}
}

// Label returns the human readable name (e.g. "Case Report").
func (m ManuscriptType) Label() string {
	if label, ok := manuscriptLabels[m]; ok {
		return label
	}
	return string(m)
}

// Valid reports whether m is a supported manuscript type.
func (m ManuscriptType) Valid() bool {
	_, ok := manuscriptLabels[m]
	return ok
}

// ParseManuscriptType accepts either the wire value ("case_report") or the
// display label ("Case Report"), case-insensitively. An empty string yields
// the default type (Original Article).
func ParseManuscriptType(value string) (ManuscriptType, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultManuscript, nil
	}
	for mt, label := range manuscriptLabels {
		if strings.EqualFold(value, string(mt)) || strings.EqualFold(value, label) {
			return mt, nil
		}
	}
	return "", fmt.Errorf("unknown manuscript type: %q", value)
}

// Session is the mutable state of one editing session.
// It is owned by exactly one controller and never shared between sessions.
type Session struct {
	Stage           Stage
	ManuscriptType  ManuscriptType
	RawDraft        string
	CandidateTitles Artifact
	SelectedTitle   string
	PrePaper        Artifact
	ReviewFeedback  Artifact
	PostPaper       Artifact
}

// NewSession returns a session at the DRAFT stage with every field empty.
func NewSession() *Session {
	return &Session{
		Stage:          StageDraft,
		ManuscriptType: defaultManuscript,
	}
}

// Reset clears every field and returns the session to DRAFT.
func (s *Session) Reset() {
	*s = *NewSession()
}

// ArtifactFor returns a pointer to the artifact produced at the given stage,
// or nil for DRAFT, which produces no artifact.
func (s *Session) ArtifactFor(stage Stage) *Artifact {
	switch stage {
	case StageTitle:
		return &s.CandidateTitles
	case StagePrePaper:
		return &s.PrePaper
	case StageReview:
		return &s.ReviewFeedback
	case StagePostPaper:
		return &s.PostPaper
	default:
		return nil
	}
}

// Clone returns a copy of the session. Artifacts hold only values so a
// shallow copy is sufficient.
func (s *Session) Clone() *Session {
	c := *s
	return &c
}
