package markup

import (
	"encoding/base64"
	"regexp"
	"strings"
)

// Placeholder is one located dummy image slot: its byte offset in the
// scanned HTML and the exact markup span it covers. Offsets are only
// valid until the next structural change; callers must re-scan after
// every generation, AI edit, or replacement.
type Placeholder struct {
	Offset int    `json:"offset"`
	Markup string `json:"markup"`
}

var (
	// A placeholder is a div whose opening tag carries either
	// aria-label="image" or a class containing "img".
	placeholderRe = regexp.MustCompile(`(?is)<div[^>]*?(?:aria-label\s*=\s*"image"[^>]*|class\s*=\s*"[^"]*img[^"]*"[^>]*)>.*?</div>`)

	classAttrRe = regexp.MustCompile(`(?i)class\s*=\s*"([^"]+)"`)
	ariaLabelRe = regexp.MustCompile(`(?i)aria-label\s*=\s*"([^"]+)"`)
)

// FindPlaceholders scans html from scratch and returns every image
// placeholder in document order.
func FindPlaceholders(html string) []Placeholder {
	locs := placeholderRe.FindAllStringIndex(html, -1)
	out := make([]Placeholder, 0, len(locs))
	for _, l := range locs {
		out = append(out, Placeholder{Offset: l[0], Markup: html[l[0]:l[1]]})
	}
	return out
}

// ReplacePlaceholder swaps the first verbatim occurrence of markup in
// html for an <img> tag pointing at dataURI, carrying over the
// placeholder's class and aria-label. The bool reports whether a
// replacement happened; when the markup no longer occurs (a prior edit
// rewrote the region) the input is returned unchanged.
func ReplacePlaceholder(html, markup, dataURI string) (string, bool) {
	class := ""
	if m := classAttrRe.FindStringSubmatch(markup); m != nil {
		class = m[1]
	}
	alt := "image"
	if m := ariaLabelRe.FindStringSubmatch(markup); m != nil {
		alt = m[1]
	}
	img := `<img src="` + dataURI + `" alt="` + alt + `" class="` + class + `"/>`
	out := strings.Replace(html, markup, img, 1)
	return out, out != html
}

// DataURI encodes raw image bytes as an inline base64 data reference.
func DataURI(mime string, data []byte) string {
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
