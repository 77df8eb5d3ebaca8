package llm

import (
	"testing"
)

func TestCleanCodeBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "html code block",
			input:    "```html\n<h1>Title</h1>\n```",
			expected: "<h1>Title</h1>",
		},
		{
			name:     "generic code block",
			input:    "```\n<p>body</p>\n```",
			expected: "<p>body</p>",
		},
		{
			name:     "markup on first line",
			input:    "```<p>inline</p>```",
			expected: "<p>inline</p>",
		},
		{
			name:     "plain text",
			input:    "  Abstract\nIntroduction  ",
			expected: "Abstract\nIntroduction",
		},
		{
			name:     "fence in the middle is kept",
			input:    "Intro\n```\ncode\n```",
			expected: "Intro\n```\ncode\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanCodeBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanCodeBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}
