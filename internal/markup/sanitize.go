// Package markup implements the regex-based text transforms lpforge
// applies to LLM-generated HTML and CSS: denylist sanitization, style
// token extraction/rewriting, image placeholder location, and first
// heading/subtext patching.
//
// The matchers assume the markup shape the generation prompt asks for
// (double-quoted attributes, a single :root token block, dummy image
// divs). They are deliberately narrow: everything outside a matched
// span passes through byte for byte, which is what makes the transforms
// safe to run repeatedly over free-form generated documents.
package markup

import "regexp"

var (
	scriptRe = regexp.MustCompile(`(?is)<script.*?>.*?</script>`)

	// Event handler attributes, double- and single-quoted. RE2 has no
	// backreferences, so the two quote styles are separate patterns.
	// The leading whitespace is captured and kept, not consumed, so a
	// word boundary inside another attribute name never matches.
	eventAttrDQRe = regexp.MustCompile(`(?is)(\s)on\w+\s*=\s*"[^"]*"`)
	eventAttrSQRe = regexp.MustCompile(`(?is)(\s)on\w+\s*=\s*'[^']*'`)
)

// Sanitize strips <script> regions and on* event handler attributes
// from html. It is idempotent and best-effort denylisting only: it does
// not validate nesting or attempt to close every injection vector.
func Sanitize(html string) string {
	html = scriptRe.ReplaceAllString(html, "")
	html = eventAttrDQRe.ReplaceAllString(html, "$1")
	html = eventAttrSQRe.ReplaceAllString(html, "$1")
	return html
}
