// Package observability provides formatted output utilities for the terminal wizard.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/manuscript-editor/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxPreviewLines is how many artifact lines a preview box shows
	maxPreviewLines = 12
)

var stageTitles = map[types.Stage]string{
	types.StageDraft:     "1. DRAFT & MANUSCRIPT TYPE",
	types.StageTitle:     "2. TITLE SELECTION (scored 1-10)",
	types.StagePrePaper:  "3. PRE-PAPER DRAFT",
	types.StageReview:    "4. PEER REVIEW SIMULATION",
	types.StagePostPaper: "5. POST-PAPER (publication ready)",
}

// StageTitle returns the heading shown for a stage.
func StageTitle(stage types.Stage) string {
	if title, ok := stageTitles[stage]; ok {
		return title
	}
	return strings.ToUpper(stage.String())
}

// Printer handles formatted output for the wizard
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens a line to width characters, marking the cut with "...".
func truncate(line string, width int) string {
	runes := []rune(line)
	if len(runes) <= width {
		return line
	}
	return string(runes[:width-3]) + "..."
}

// PrintArtifact outputs a preview of a stage artifact.
func (p *Printer) PrintArtifact(stage types.Stage, artifact types.Artifact) {
	var content string
	switch artifact.State() {
	case types.ArtifactPending:
		content = "(not generated yet)"
	case types.ArtifactFailed:
		content = "⚠ " + artifact.Display()
	default:
		content = preview(artifact.Text, maxPreviewLines)
	}
	p.printBox(StageTitle(stage), content)
}

// PrintFull writes the whole artifact text without a box, for stages the
// user needs to read in full (the candidate titles).
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintFull(stage types.Stage, artifact types.Artifact) {
	fmt.Fprintf(p.out, "\n=== %s ===\n%s\n\n", StageTitle(stage), artifact.Display())
}

// PrintSession outputs a one-box summary of the session.
func (p *Printer) PrintSession(s *types.Session) {
	if s == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Stage:    %s\n", StageTitle(s.Stage)))
	sb.WriteString(fmt.Sprintf("Type:     %s\n", s.ManuscriptType.Label()))
	if s.SelectedTitle != "" {
		sb.WriteString(fmt.Sprintf("Title:    %s\n", s.SelectedTitle))
	}
	sb.WriteString(fmt.Sprintf("Draft:    %d characters\n", len([]rune(s.RawDraft))))
	sb.WriteString("\n")

	for _, stage := range types.Stages()[1:] {
		artifact := s.ArtifactFor(stage)
		sb.WriteString(fmt.Sprintf("%-10s %s\n", stage.String(), statusMark(artifact.State())))
	}

	p.printBox("SESSION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintManuscriptStats reports the manuscript length against a target and
// how many tables it carries. A short manuscript or one without tables is
// flagged.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintManuscriptStats(words, tables, target int) {
	mark := "✅"
	if words < target || tables == 0 {
		mark = "⚠"
	}
	fmt.Fprintf(p.out, "%s Final manuscript: %d words (target %d), %d tables\n", mark, words, target, tables)
}

func statusMark(status types.ArtifactStatus) string {
	switch status {
	case types.ArtifactReady:
		return "✓ ready"
	case types.ArtifactFailed:
		return "✗ failed"
	default:
		return "· pending"
	}
}

// preview returns at most n lines of text, noting how many were omitted.
func preview(text string, n int) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) <= n {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[:n], "\n") + fmt.Sprintf("\n... and %d more lines", len(lines)-n)
}
