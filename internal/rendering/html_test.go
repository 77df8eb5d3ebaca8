package rendering

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplate_Embedded(t *testing.T) {
	tmpl, err := parseTemplate()
	require.NoError(t, err)
	assert.NotNil(t, tmpl)
}

func TestReviewHTML(t *testing.T) {
	out := ReviewHTML("Reviewer 1: <weak> methods\nReviewer 2: fine")

	assert.True(t, strings.HasPrefix(out, `<div class="reviewer-box">`))
	assert.Contains(t, out, "&lt;weak&gt;")
	assert.Contains(t, out, "methods<br>Reviewer 2")
	assert.NotContains(t, out, "\n")
}

func TestTitlesHTML(t *testing.T) {
	out := TitlesHTML("- A & B (9/10)")
	assert.Equal(t, `<div class="info-box">- A &amp; B (9/10)</div>`, out)
}

func TestIsFullDocument(t *testing.T) {
	assert.True(t, IsFullDocument("<!DOCTYPE html><html><body></body></html>"))
	assert.True(t, IsFullDocument("  <HTML lang=\"en\"><body>x</body></HTML>"))
	assert.False(t, IsFullDocument("<h1>Title</h1><p>Body</p>"))
}

func TestManuscriptDocument_WrapsFragment(t *testing.T) {
	doc, err := ManuscriptDocument("```html\n<h1>Effect of Y on X</h1><table><tr><td>1</td></tr></table>\n```", "Effect of Y <on> X")
	require.NoError(t, err)

	assert.True(t, IsFullDocument(doc))
	assert.Contains(t, doc, "<title>Effect of Y &lt;on&gt; X</title>")
	assert.Contains(t, doc, "<h1>Effect of Y on X</h1><table>")
	assert.NotContains(t, doc, "```")
}

func TestManuscriptDocument_KeepsFullDocument(t *testing.T) {
	full := "<!DOCTYPE html><html><head><title>T</title></head><body><p>x</p></body></html>"
	doc, err := ManuscriptDocument(full, "ignored")
	require.NoError(t, err)
	assert.Equal(t, full, doc)
}

func TestManuscriptDocument_DefaultTitle(t *testing.T) {
	doc, err := ManuscriptDocument("<p>x</p>", "  ")
	require.NoError(t, err)

	assert.Contains(t, doc, "<title>"+DefaultDocumentTitle+"</title>")
}

func TestWordCount(t *testing.T) {
	markup := `<html><head><title>Not counted</title><style>p {color: red;}</style></head>
<body><h1>Effect of Y</h1><p>Patients with X show Y.</p><script>var a = 1;</script></body></html>`

	count, err := WordCount(markup)
	require.NoError(t, err)
	assert.Equal(t, 8, count)
}

func TestTableCount(t *testing.T) {
	count, err := TableCount("<table></table><p>x</p><table><tr><td>1</td></tr></table>")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
