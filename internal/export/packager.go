// Package export packages a finished landing page into a deployable
// zip archive: index.html, styles.css, an empty script.js and the
// uploaded images extracted from data URIs into an assets directory.
package export

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"

	"github.com/lpforge/lpforge/internal/page"
)

// dataURIRe matches embedded images: src="data:<mime>;base64,<payload>".
var dataURIRe = regexp.MustCompile(`src="(data:[^"]+)"`)

// extByMIME maps image MIME types to asset file extensions. Unknown
// types fall back to png.
var extByMIME = map[string]string{
	"image/png":     "png",
	"image/jpeg":    "jpg",
	"image/jpg":     "jpg",
	"image/webp":    "webp",
	"image/gif":     "gif",
	"image/svg+xml": "svg",
}

// Options controls archive construction.
type Options struct {
	// Minify runs the HTML and CSS through a minifier before writing.
	Minify bool
}

// asset is one decoded image bound for the archive.
type asset struct {
	name string
	data []byte
}

// Archive builds the deployable zip for a document. Each embedded
// data-URI image becomes assets/img_<n>.<ext>, numbered left to right,
// and its src is rewritten to the relative asset path.
func Archive(doc page.Document, opts Options) ([]byte, error) {
	htmlOut, assets := extractAssets(doc.HTML)
	cssOut := doc.CSS

	var err error
	if opts.Minify {
		htmlOut, cssOut, err = minifyPair(htmlOut, cssOut)
		if err != nil {
			return nil, fmt.Errorf("minifying page: %w", err)
		}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	files := []struct {
		name string
		data []byte
	}{
		{"index.html", []byte(htmlOut)},
		{"styles.css", []byte(cssOut)},
		{"script.js", nil},
	}
	for _, a := range assets {
		files = append(files, struct {
			name string
			data []byte
		}{"assets/" + a.name, a.data})
	}

	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			return nil, fmt.Errorf("adding %s: %w", f.name, err)
		}
		if _, err := w.Write(f.data); err != nil {
			return nil, fmt.Errorf("writing %s: %w", f.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}
	return buf.Bytes(), nil
}

// extractAssets pulls every data-URI image out of the HTML, in document
// order, and rewrites each occurrence to its asset path. A URI that
// appears twice yields two files; occurrences are consumed left to
// right so numbering stays stable. Undecodable payloads are skipped
// and keep their data URI.
func extractAssets(htmlIn string) (string, []asset) {
	matches := dataURIRe.FindAllStringSubmatch(htmlIn, -1)
	if len(matches) == 0 {
		return htmlIn, nil
	}

	n := 0
	var assets []asset
	for _, m := range matches {
		uri := m[1]
		mime, data, err := decodeDataURI(uri)
		if err != nil {
			continue
		}
		ext, ok := extByMIME[mime]
		if !ok {
			ext = "png"
		}
		n++
		name := fmt.Sprintf("img_%d.%s", n, ext)
		assets = append(assets, asset{name: name, data: data})
		htmlIn = strings.Replace(htmlIn, uri, "./assets/"+name, 1)
	}
	return htmlIn, assets
}

// decodeDataURI splits data:<mime>;base64,<payload> and decodes the
// payload.
func decodeDataURI(uri string) (mime string, data []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data URI")
	}
	head, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URI")
	}
	mime = strings.TrimSuffix(head, ";base64")
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decoding image payload: %w", err)
	}
	return mime, data, nil
}

func minifyPair(htmlIn, cssIn string) (string, string, error) {
	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/css", css.Minify)

	htmlOut, err := m.String("text/html", htmlIn)
	if err != nil {
		return "", "", err
	}
	cssOut, err := m.String("text/css", cssIn)
	if err != nil {
		return "", "", err
	}
	return htmlOut, cssOut, nil
}
