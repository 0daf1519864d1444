// Package page holds the landing-page document model and the engine
// that drives generation and AI edits through an llm.Provider.
package page

import (
	"fmt"
	"strings"
)

// Document is the current generated/edited HTML+CSS pair for one
// session. The HTML always contains exactly one <body> region, which is
// the editable content; the CSS holds at most one :root token block.
type Document struct {
	HTML string `json:"html"`
	CSS  string `json:"css"`
}

const (
	bodyOpen  = "<body>"
	bodyClose = "</body>"
)

// documentShell is the fixed page frame around a generated body. The
// stylesheet link matches the export archive layout.
const documentShell = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>%s – Landing</title>
  <meta name="description" content="%s">
  <link rel="stylesheet" href="./styles.css" />
</head>
<body>
%s
</body>
</html>`

// BuildDocument wraps a generated body and stylesheet into a complete
// Document.
func BuildDocument(title, metaDescription, bodyHTML, css string) Document {
	return Document{
		HTML: fmt.Sprintf(documentShell, title, metaDescription, bodyHTML),
		CSS:  css,
	}
}

// bodySpan locates the editable region between the body tags.
func (d Document) bodySpan() (start, end int, ok bool) {
	i := strings.Index(d.HTML, bodyOpen)
	if i < 0 {
		return 0, 0, false
	}
	start = i + len(bodyOpen)
	end = strings.LastIndex(d.HTML, bodyClose)
	if end < start {
		return 0, 0, false
	}
	return start, end, true
}

// Body returns the editable region between the document's body tags,
// or "" when the document is empty.
func (d Document) Body() string {
	start, end, ok := d.bodySpan()
	if !ok {
		return ""
	}
	return d.HTML[start:end]
}

// WithBody returns a copy of d whose body region is replaced.
func (d Document) WithBody(body string) Document {
	start, end, ok := d.bodySpan()
	if !ok {
		return d
	}
	d.HTML = d.HTML[:start] + body + d.HTML[end:]
	return d
}

// IsEmpty reports whether the document has been generated yet.
func (d Document) IsEmpty() bool {
	return d.HTML == "" && d.CSS == ""
}

// Inline renders a self-contained preview document with the stylesheet
// embedded, suitable for an iframe srcdoc or a preview endpoint.
func (d Document) Inline() string {
	return fmt.Sprintf(`<!DOCTYPE html><html><head><meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>%s</style></head><body>%s</body></html>`, d.CSS, d.Body())
}
