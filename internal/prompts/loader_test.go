package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("manuscript.json", "title-brainstorm")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "exactly 5 candidate titles")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("manuscript.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestMustGet_ValidPrompt(t *testing.T) {
	ClearCache()

	assert.NotPanics(t, func() {
		prompt := MustGet("manuscript.json", "peer-review")
		assert.NotEmpty(t, prompt)
	})
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	result := Format(template, data)
	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", result)
}

func TestFormat_NoPlaceholders(t *testing.T) {
	template := "No placeholders here"
	data := map[string]string{"Key": "Value"}

	result := Format(template, data)
	assert.Equal(t, template, result)
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"
	data := map[string]string{}

	result := Format(template, data)
	assert.Equal(t, template, result) // Placeholder remains
}

func TestFormat_ValuesAreNotExpanded(t *testing.T) {
	template := "Title: {{.Title}} Draft: {{.Draft}}"
	data := map[string]string{
		"Title": "T",
		"Draft": "contains {{.Title}} literally",
	}

	for i := 0; i < 20; i++ {
		assert.Equal(t, "Title: T Draft: contains {{.Title}} literally", Format(template, data))
	}
}

func TestList(t *testing.T) {
	ClearCache()

	keys, err := List("manuscript.json")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"peer-review",
		"post-paper",
		"pre-paper",
		"structure-case-report",
		"structure-original-article",
		"structure-slr-meta-analysis",
		"title-brainstorm",
	}, keys)
}

func TestCaching(t *testing.T) {
	ClearCache()

	prompt1, err := Get("manuscript.json", "post-paper")
	require.NoError(t, err)

	prompt2, err := Get("manuscript.json", "post-paper")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}
