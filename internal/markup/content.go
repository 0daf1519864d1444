package markup

import (
	"regexp"
	"strings"
)

var (
	headingRe = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)

	// The sub/lead block may be a <p> or a <div>; the close tag must
	// match the open tag, which RE2 cannot express with one pattern.
	subtextPRe   = regexp.MustCompile(`(?is)<p\s+class=['"](?:sub|lead)['"][^>]*>(.*?)</p>`)
	subtextDivRe = regexp.MustCompile(`(?is)<div\s+class=['"](?:sub|lead)['"][^>]*>(.*?)</div>`)
)

// ExtractHeading returns the inner text of the first <h1>. The bool is
// false when the document has no heading.
func ExtractHeading(html string) (string, bool) {
	m := headingRe.FindStringSubmatch(html)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// ReplaceHeading swaps the inner text of the first <h1>, preserving the
// tag's attributes. text is inserted literally; escaping is the
// caller's concern. Returns the input unchanged (false) when no
// heading exists.
func ReplaceHeading(html, text string) (string, bool) {
	loc := headingRe.FindStringSubmatchIndex(html)
	if loc == nil {
		return html, false
	}
	return html[:loc[2]] + text + html[loc[3]:], true
}

// ExtractSubtext returns the inner text of the first <p> or <div>
// whose class is exactly "sub" or "lead".
func ExtractSubtext(html string) (string, bool) {
	loc := firstSubtext(html)
	if loc == nil {
		return "", false
	}
	return strings.TrimSpace(html[loc[2]:loc[3]]), true
}

// ReplaceSubtext swaps the inner text of the first sub/lead block,
// with the same contract as ReplaceHeading.
func ReplaceSubtext(html, text string) (string, bool) {
	loc := firstSubtext(html)
	if loc == nil {
		return html, false
	}
	return html[:loc[2]] + text + html[loc[3]:], true
}

// firstSubtext returns the submatch indices of whichever sub/lead
// variant occurs earliest in html.
func firstSubtext(html string) []int {
	p := subtextPRe.FindStringSubmatchIndex(html)
	d := subtextDivRe.FindStringSubmatchIndex(html)
	switch {
	case p == nil:
		return d
	case d == nil:
		return p
	case d[0] < p[0]:
		return d
	default:
		return p
	}
}
