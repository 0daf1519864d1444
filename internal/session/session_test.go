package session

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/lpforge/lpforge/internal/page"
)

const stubBody = `<h1>Acme</h1><p class="sub">Small tools</p><div aria-label="image" class="img img--hero"></div>`
const stubCSS = ":root{\n  --bg: #ffffff;\n  --accent: #5b8cff;\n}\nbody{background:var(--bg)}"

// stubGenerator returns a fixed document, or a scripted error.
type stubGenerator struct {
	genErr  error
	editErr error
	edited  page.Document
	outcome page.EditOutcome
}

func (s *stubGenerator) Generate(ctx context.Context, theme string, temperature float64, brief page.Brief) (page.Document, error) {
	if s.genErr != nil {
		return page.Document{}, s.genErr
	}
	return page.BuildDocument(brief.Title, brief.MetaDescription, stubBody, stubCSS), nil
}

func (s *stubGenerator) Edit(ctx context.Context, doc page.Document, instruction string) (page.Document, page.EditOutcome, error) {
	if s.editErr != nil {
		return doc, page.EditOutcome{}, s.editErr
	}
	return s.edited, s.outcome, nil
}

func newTestServer(t *testing.T, gen Generator) (*httptest.Server, *Store) {
	t.Helper()
	store := NewStore()
	r := chi.NewRouter()
	RegisterRoutes(r, store, gen, Defaults{
		Theme:       "minimal",
		Temperature: 1.0,
		Brief:       page.Brief{Title: "Acme", MetaDescription: "desc"},
	})
	RegisterWS(r, store)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, store
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var out map[string]json.RawMessage
	data, _ := io.ReadAll(resp.Body)
	if len(data) > 0 && strings.Contains(resp.Header.Get("Content-Type"), "json") {
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("invalid JSON response %q: %v", data, err)
		}
	}
	return resp, out
}

func createSession(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/sessions", map[string]any{})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status %d", resp.StatusCode)
	}
	var id string
	if err := json.Unmarshal(body["id"], &id); err != nil || id == "" {
		t.Fatalf("create: no session id in %v", body)
	}
	return id
}

func generate(t *testing.T, srv *httptest.Server, id string) {
	t.Helper()
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/sessions/"+id+"/generate", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate: status %d", resp.StatusCode)
	}
}

func TestCreateAppliesDefaultsAndOverrides(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{})

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/sessions", map[string]any{
		"theme": "brutalist",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var theme string
	json.Unmarshal(body["theme"], &theme)
	if theme != "brutalist" {
		t.Errorf("theme = %q, want override", theme)
	}
	var temp float64
	json.Unmarshal(body["temperature"], &temp)
	if temp != 1.0 {
		t.Errorf("temperature = %v, want default 1.0", temp)
	}
}

func TestUnknownSessionIs404(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{})

	for _, path := range []string{
		"/api/sessions/nope",
		"/api/sessions/nope/tokens",
		"/api/sessions/nope/placeholders",
	} {
		resp, body := doJSON(t, http.MethodGet, srv.URL+path, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s: status %d, want 404", path, resp.StatusCode)
		}
		if _, ok := body["error"]; !ok {
			t.Errorf("%s: expected JSON error body", path)
		}
	}
}

func TestGeneratePopulatesDocument(t *testing.T) {
	srv, store := newTestServer(t, &stubGenerator{})
	id := createSession(t, srv)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/sessions/"+id+"/generate", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var count int
	json.Unmarshal(body["placeholder_count"], &count)
	if count != 1 {
		t.Errorf("placeholder_count = %d, want 1", count)
	}

	sess, _ := store.Get(id)
	if sess.Document().IsEmpty() {
		t.Error("document must be stored after generation")
	}
}

func TestGenerateFailureLeavesDocumentUntouched(t *testing.T) {
	gen := &stubGenerator{}
	srv, store := newTestServer(t, gen)
	id := createSession(t, srv)
	generate(t, srv, id)
	sess, _ := store.Get(id)
	before := sess.Document()

	gen.genErr = errors.New("model unavailable")
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/sessions/"+id+"/generate", nil)
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status %d, want 502", resp.StatusCode)
	}
	if _, ok := body["error"]; !ok {
		t.Error("expected JSON error body")
	}
	if sess.Document() != before {
		t.Error("failed generation must not touch the document")
	}
}

func TestEditBeforeGenerateIs400(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{})
	id := createSession(t, srv)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/sessions/"+id+"/edit",
		map[string]string{"instruction": "darker"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status %d, want 400", resp.StatusCode)
	}
}

func TestEditStoresChangedDocument(t *testing.T) {
	gen := &stubGenerator{
		edited:  page.BuildDocument("Acme", "desc", "<h1>Edited</h1>", stubCSS),
		outcome: page.EditOutcome{BodyChanged: true},
	}
	srv, store := newTestServer(t, gen)
	id := createSession(t, srv)
	generate(t, srv, id)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/sessions/"+id+"/edit",
		map[string]string{"instruction": "change the heading"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var outcome page.EditOutcome
	json.Unmarshal(body["outcome"], &outcome)
	if !outcome.BodyChanged || outcome.CSSChanged {
		t.Errorf("outcome = %+v", outcome)
	}

	sess, _ := store.Get(id)
	if !strings.Contains(sess.Document().HTML, "<h1>Edited</h1>") {
		t.Error("edited document must be stored")
	}
}

func TestEditFailureIs502AndKeepsDocument(t *testing.T) {
	gen := &stubGenerator{}
	srv, store := newTestServer(t, gen)
	id := createSession(t, srv)
	generate(t, srv, id)
	sess, _ := store.Get(id)
	before := sess.Document()

	gen.editErr = errors.New("rate limited")
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/sessions/"+id+"/edit",
		map[string]string{"instruction": "anything"})
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status %d, want 502", resp.StatusCode)
	}
	if sess.Document() != before {
		t.Error("failed edit must not touch the document")
	}
}

func TestTokensRoundTrip(t *testing.T) {
	srv, store := newTestServer(t, &stubGenerator{})
	id := createSession(t, srv)
	generate(t, srv, id)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/sessions/"+id+"/tokens", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get tokens: status %d", resp.StatusCode)
	}
	var tokens []map[string]string
	json.Unmarshal(body["tokens"], &tokens)
	if len(tokens) != 2 || tokens[0]["name"] != "--bg" || tokens[1]["name"] != "--accent" {
		t.Fatalf("tokens = %v", tokens)
	}

	resp, body = doJSON(t, http.MethodPut, srv.URL+"/api/sessions/"+id+"/tokens", map[string]any{
		"tokens": []map[string]string{{"name": "--bg", "value": "#000000"}},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put tokens: status %d", resp.StatusCode)
	}
	json.Unmarshal(body["tokens"], &tokens)
	if tokens[0]["value"] != "#000000" {
		t.Errorf("updated value = %q", tokens[0]["value"])
	}
	if tokens[1]["name"] != "--accent" {
		t.Error("untouched token must survive a partial write")
	}

	sess, _ := store.Get(id)
	if !strings.Contains(sess.Document().CSS, "background:var(--bg)") {
		t.Error("non-root CSS must be untouched by a token write")
	}
}

func TestPutTokensEmptyListIs400(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{})
	id := createSession(t, srv)

	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/api/sessions/"+id+"/tokens",
		map[string]any{"tokens": []any{}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status %d, want 400", resp.StatusCode)
	}
}

func TestHeadingAndSubtextRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{})
	id := createSession(t, srv)
	generate(t, srv, id)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/sessions/"+id+"/heading", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	var text string
	var found bool
	json.Unmarshal(body["text"], &text)
	json.Unmarshal(body["found"], &found)
	if !found || text != "Acme" {
		t.Errorf("heading = %q found=%v", text, found)
	}

	resp, body = doJSON(t, http.MethodPut, srv.URL+"/api/sessions/"+id+"/heading",
		map[string]string{"text": "New Name"})
	var replaced bool
	json.Unmarshal(body["replaced"], &replaced)
	if resp.StatusCode != http.StatusOK || !replaced {
		t.Errorf("put heading: status %d replaced=%v", resp.StatusCode, replaced)
	}

	_, body = doJSON(t, http.MethodGet, srv.URL+"/api/sessions/"+id+"/subtext", nil)
	json.Unmarshal(body["text"], &text)
	if text != "Small tools" {
		t.Errorf("subtext = %q", text)
	}
}

func TestPutHeadingNoMatchIs200ReplacedFalse(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{})
	id := createSession(t, srv)
	// No generation: the body has no h1.

	resp, body := doJSON(t, http.MethodPut, srv.URL+"/api/sessions/"+id+"/heading",
		map[string]string{"text": "X"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d, want 200", resp.StatusCode)
	}
	var replaced bool
	json.Unmarshal(body["replaced"], &replaced)
	if replaced {
		t.Error("replaced must be false when no heading exists")
	}
}

func uploadImage(t *testing.T, url, field, filename, contentType string, data []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(data)
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestUploadReplacesPlaceholder(t *testing.T) {
	srv, store := newTestServer(t, &stubGenerator{})
	id := createSession(t, srv)
	generate(t, srv, id)

	resp := uploadImage(t, srv.URL+"/api/sessions/"+id+"/placeholders/0",
		"image", "photo.png", "image/png", []byte{0x89, 'P', 'N', 'G'})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}

	sess, _ := store.Get(id)
	html := sess.Document().HTML
	if !strings.Contains(html, `src="data:image/png;base64,`) {
		t.Error("upload must inline the image as a data URI")
	}
	if strings.Contains(html, `aria-label="image" class="img img--hero"></div>`) {
		t.Error("placeholder div must be gone after upload")
	}
}

func TestUploadRejectsDisallowedType(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{})
	id := createSession(t, srv)
	generate(t, srv, id)

	resp := uploadImage(t, srv.URL+"/api/sessions/"+id+"/placeholders/0",
		"image", "movie.gif", "image/gif", []byte("GIF89a"))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status %d, want 400 for image/gif", resp.StatusCode)
	}
}

func TestUploadOutOfRangeIndexIs404(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{})
	id := createSession(t, srv)
	generate(t, srv, id)

	resp := uploadImage(t, srv.URL+"/api/sessions/"+id+"/placeholders/5",
		"image", "photo.png", "image/png", []byte{1})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status %d, want 404", resp.StatusCode)
	}
}

func TestExportReturnsZip(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{})
	id := createSession(t, srv)
	generate(t, srv, id)

	resp, err := http.Get(srv.URL + "/api/sessions/" + id + "/export")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/zip" {
		t.Errorf("Content-Type = %q", ct)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("response is not a zip: %v", err)
	}
	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, want := range []string{"index.html", "styles.css", "script.js"} {
		if !names[want] {
			t.Errorf("archive missing %s", want)
		}
	}
}

func TestExportBeforeGenerateIs400(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{})
	id := createSession(t, srv)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/sessions/"+id+"/export", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status %d, want 400", resp.StatusCode)
	}
}

func TestWebsocketReceivesDocumentAfterMutation(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{})
	id := createSession(t, srv)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/sessions/" + id
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	generate(t, srv, id)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event struct {
		Type string `json:"type"`
		HTML string `json:"html"`
		CSS  string `json:"css"`
	}
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("reading document event: %v", err)
	}
	if event.Type != "document" {
		t.Errorf("event type = %q", event.Type)
	}
	if !strings.Contains(event.HTML, "<h1>Acme</h1>") || event.CSS == "" {
		t.Error("event must carry the full document")
	}
}

func TestDeleteSession(t *testing.T) {
	srv, store := newTestServer(t, &stubGenerator{})
	id := createSession(t, srv)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/sessions/"+id, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status %d, want 204", resp.StatusCode)
	}
	if _, ok := store.Get(id); ok {
		t.Error("session must be gone after delete")
	}
}
