package types

// ArtifactStatus tags the state of a stage artifact.
type ArtifactStatus string

// Artifact status constants
const (
	ArtifactPending ArtifactStatus = "pending"
	ArtifactReady   ArtifactStatus = "ready"
	ArtifactFailed  ArtifactStatus = "failed"
)

// Artifact is the single cached result of a stage's generation call.
// The zero value is a pending artifact.
type Artifact struct {
	Status ArtifactStatus
	Text   string // generated text, set when Ready
	Error  string // failure message, set when Failed
}

// Ready returns an artifact holding generated text.
func Ready(text string) Artifact {
	return Artifact{Status: ArtifactReady, Text: text}
}

// Failed returns an artifact recording a generation failure.
func Failed(message string) Artifact {
	return Artifact{Status: ArtifactFailed, Error: message}
}

// State returns the artifact status, treating the zero value as pending.
func (a Artifact) State() ArtifactStatus {
	if a.Status == "" {
		return ArtifactPending
	}
	return a.Status
}

// IsPending reports whether the artifact has not been generated yet.
func (a Artifact) IsPending() bool {
	return a.State() == ArtifactPending
}

// IsReady reports whether generation succeeded.
func (a Artifact) IsReady() bool {
	return a.State() == ArtifactReady
}

// IsFailed reports whether generation failed.
func (a Artifact) IsFailed() bool {
	return a.State() == ArtifactFailed
}

// Display returns what the user sees for the artifact: the generated text,
// "Error: <message>" for a failure, or "" while pending. Downstream prompts
// are built from this value, so a failed stage feeds its error text forward.
func (a Artifact) Display() string {
	switch a.State() {
	case ArtifactReady:
		return a.Text
	case ArtifactFailed:
		return "Error: " + a.Error
	default:
		return ""
	}
}
