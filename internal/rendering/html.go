package rendering

import (
	_ "embed"
	"html"
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/manuscript-editor/internal/llm"
)

//go:embed document.html.tmpl
var documentTemplate string

// DefaultDocumentTitle is used when the session has no selected title.
const DefaultDocumentTitle = "Manuscript"

// documentData is the data passed to the document template
type documentData struct {
	Title string
	Body  template.HTML
}

// parseTemplate parses the embedded document template.
func parseTemplate() (*template.Template, error) {
	tmpl, err := template.New("manuscript").Parse(documentTemplate)
	if err != nil {
		return nil, &TemplateError{
			Message: "failed to parse template",
			Cause:   err,
		}
	}
	return tmpl, nil
}

// TextHTML escapes plain text and keeps its line breaks.
func TextHTML(text string) string {
	return strings.ReplaceAll(html.EscapeString(text), "\n", "<br>")
}

// ReviewHTML renders reviewer feedback as a highlighted box.
func ReviewHTML(text string) string {
	return `<div class="reviewer-box">` + TextHTML(text) + `</div>`
}

// TitlesHTML renders the candidate titles as an info box.
func TitlesHTML(text string) string {
	return `<div class="info-box">` + TextHTML(text) + `</div>`
}

// IsFullDocument reports whether markup is already a complete HTML document.
func IsFullDocument(markup string) bool {
	lower := strings.ToLower(strings.TrimSpace(markup))
	return strings.HasPrefix(lower, "<!doctype html") || strings.Contains(lower, "<html")
}

// ManuscriptDocument returns the revised manuscript as a complete HTML
// document. Code fences are stripped; a body fragment is wrapped in the
// document template with title as the page title.
func ManuscriptDocument(markup, title string) (string, error) {
	markup = llm.CleanCodeBlock(markup)
	if IsFullDocument(markup) {
		return markup, nil
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultDocumentTitle
	}

	tmpl, err := parseTemplate()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, documentData{Title: title, Body: template.HTML(markup)}); err != nil { //nolint:gosec // generated manuscript markup is rendered as-is
		return "", &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}
	return sb.String(), nil
}

// parseDocument parses markup with goquery.
func parseDocument(markup string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, &RenderError{
			Message: "failed to parse HTML",
			Cause:   err,
		}
	}
	return doc, nil
}

// WordCount counts the words of visible text in markup.
func WordCount(markup string) (int, error) {
	doc, err := parseDocument(markup)
	if err != nil {
		return 0, err
	}
	doc.Find("script, style, head").Remove()
	return len(strings.Fields(doc.Text())), nil
}

// TableCount returns how many <table> elements markup contains.
func TableCount(markup string) (int, error) {
	doc, err := parseDocument(markup)
	if err != nil {
		return 0, err
	}
	return doc.Find("table").Length(), nil
}
