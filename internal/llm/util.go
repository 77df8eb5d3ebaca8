// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import "strings"

// CleanCodeBlock removes a markdown code fence wrapping the whole response.
// Models often wrap HTML documents in ```html ... ``` blocks even when asked
// for raw markup. Text without a leading fence is returned trimmed.
func CleanCodeBlock(text string) string {
	text = strings.TrimSpace(text)

	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	// Skip potential language identifier on first line
	if idx := strings.Index(text, "\n"); idx >= 0 {
		firstLine := text[:idx]
		if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "<") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
