package session

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lpforge/lpforge/internal/export"
	"github.com/lpforge/lpforge/internal/markup"
	"github.com/lpforge/lpforge/internal/page"
)

// maxUploadBytes caps a placeholder image upload.
const maxUploadBytes = 10 << 20

// defaultEditInstruction is used when an edit request carries no
// instruction.
const defaultEditInstruction = "Refine the whole page: improve hierarchy, spacing and contrast while keeping the structure."

var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
	"image/webp": true,
}

// Generator produces and edits documents. Satisfied by *page.Engine.
type Generator interface {
	Generate(ctx context.Context, theme string, temperature float64, brief page.Brief) (page.Document, error)
	Edit(ctx context.Context, doc page.Document, instruction string) (page.Document, page.EditOutcome, error)
}

// Defaults seeds new sessions when the create request omits fields.
type Defaults struct {
	Theme       string
	Temperature float64
	Brief       page.Brief
}

// RegisterRoutes mounts the studio API.
func RegisterRoutes(r chi.Router, store *Store, gen Generator, defaults Defaults) {
	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", handleCreate(store, defaults))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handleSnapshot(store))
			r.Delete("/", handleDelete(store))
			r.Post("/generate", handleGenerate(store, gen))
			r.Post("/edit", handleEdit(store, gen))
			r.Get("/tokens", handleGetTokens(store))
			r.Put("/tokens", handlePutTokens(store))
			r.Get("/heading", handleGetHeading(store))
			r.Put("/heading", handlePutHeading(store))
			r.Get("/subtext", handleGetSubtext(store))
			r.Put("/subtext", handlePutSubtext(store))
			r.Get("/placeholders", handleListPlaceholders(store))
			r.Post("/placeholders/{index}", handleUploadImage(store))
			r.Get("/preview", handlePreview(store))
			r.Get("/export", handleExport(store))
		})
	})
}

// RegisterWS mounts the websocket preview channel. Kept separate from
// RegisterRoutes so request-timeout middleware does not apply to the
// long-lived connection.
func RegisterWS(r chi.Router, store *Store) {
	r.Get("/ws/sessions/{id}", handleWatch(store))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// loadSession resolves the {id} URL param; a miss writes the 404.
func loadSession(store *Store, w http.ResponseWriter, r *http.Request) (*Session, bool) {
	sess, ok := store.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
	}
	return sess, ok
}

// sessionResponse is the session snapshot shape shared by create and
// get.
type sessionResponse struct {
	ID               string        `json:"id"`
	Theme            string        `json:"theme"`
	Temperature      float64       `json:"temperature"`
	Brief            page.Brief    `json:"brief"`
	Document         page.Document `json:"document"`
	PlaceholderCount int           `json:"placeholder_count"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func snapshot(sess *Session) sessionResponse {
	doc := sess.Document()
	theme, temp := sess.Settings()
	return sessionResponse{
		ID:               sess.ID,
		Theme:            theme,
		Temperature:      temp,
		Brief:            sess.Brief,
		Document:         doc,
		PlaceholderCount: len(markup.FindPlaceholders(doc.Body())),
		CreatedAt:        sess.CreatedAt,
		UpdatedAt:        sess.Modified(),
	}
}

type createRequest struct {
	Theme       string      `json:"theme"`
	Temperature float64     `json:"temperature"`
	Brief       *page.Brief `json:"brief"`
}

func handleCreate(store *Store, defaults Defaults) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		theme := defaults.Theme
		if req.Theme != "" {
			theme = req.Theme
		}
		temperature := defaults.Temperature
		if req.Temperature > 0 {
			temperature = req.Temperature
		}
		brief := defaults.Brief
		if req.Brief != nil {
			brief = *req.Brief
		}

		sess := store.Create(theme, temperature, brief)
		writeJSON(w, http.StatusCreated, snapshot(sess))
	}
}

func handleSnapshot(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := loadSession(store, w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, snapshot(sess))
	}
}

func handleDelete(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := loadSession(store, w, r); !ok {
			return
		}
		store.Delete(chi.URLParam(r, "id"))
		w.WriteHeader(http.StatusNoContent)
	}
}

type generateRequest struct {
	Theme       string  `json:"theme"`
	Temperature float64 `json:"temperature"`
}

func handleGenerate(store *Store, gen Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := loadSession(store, w, r)
		if !ok {
			return
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		sess.Configure(req.Theme, req.Temperature)
		theme, temperature := sess.Settings()

		doc, err := gen.Generate(r.Context(), theme, temperature, sess.Brief)
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		sess.SetDocument(doc)
		writeJSON(w, http.StatusOK, snapshot(sess))
	}
}

type editRequest struct {
	Instruction string `json:"instruction"`
}

type editResponse struct {
	Document page.Document    `json:"document"`
	Outcome  page.EditOutcome `json:"outcome"`
}

func handleEdit(store *Store, gen Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := loadSession(store, w, r)
		if !ok {
			return
		}
		doc := sess.Document()
		if doc.IsEmpty() {
			writeError(w, http.StatusBadRequest, "generate a page before editing")
			return
		}

		var req editRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		instruction := strings.TrimSpace(req.Instruction)
		if instruction == "" {
			instruction = defaultEditInstruction
		}

		updated, outcome, err := gen.Edit(r.Context(), doc, instruction)
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		if outcome.CSSChanged || outcome.BodyChanged {
			sess.SetDocument(updated)
		}
		writeJSON(w, http.StatusOK, editResponse{Document: updated, Outcome: outcome})
	}
}

func handleGetTokens(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := loadSession(store, w, r)
		if !ok {
			return
		}
		tokens := markup.ExtractTokens(sess.Document().CSS)
		if tokens == nil {
			tokens = []markup.Token{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"tokens": tokens})
	}
}

type putTokensRequest struct {
	Tokens []markup.Token `json:"tokens"`
}

func handlePutTokens(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := loadSession(store, w, r)
		if !ok {
			return
		}

		var req putTokensRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(req.Tokens) == 0 {
			writeError(w, http.StatusBadRequest, "tokens are required")
			return
		}

		doc := sess.Document()
		doc.CSS = markup.ApplyTokens(doc.CSS, req.Tokens)
		sess.SetDocument(doc)

		tokens := markup.ExtractTokens(doc.CSS)
		if tokens == nil {
			tokens = []markup.Token{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"tokens": tokens})
	}
}

type textResponse struct {
	Text  string `json:"text"`
	Found bool   `json:"found"`
}

type putTextRequest struct {
	Text string `json:"text"`
}

type replacedResponse struct {
	Replaced bool `json:"replaced"`
}

func handleGetHeading(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := loadSession(store, w, r)
		if !ok {
			return
		}
		text, found := markup.ExtractHeading(sess.Document().Body())
		writeJSON(w, http.StatusOK, textResponse{Text: text, Found: found})
	}
}

func handlePutHeading(store *Store) http.HandlerFunc {
	return putText(store, markup.ReplaceHeading)
}

func handleGetSubtext(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := loadSession(store, w, r)
		if !ok {
			return
		}
		text, found := markup.ExtractSubtext(sess.Document().Body())
		writeJSON(w, http.StatusOK, textResponse{Text: text, Found: found})
	}
}

func handlePutSubtext(store *Store) http.HandlerFunc {
	return putText(store, markup.ReplaceSubtext)
}

// putText is the shared body of the heading and subtext writers.
func putText(store *Store, replace func(html, text string) (string, bool)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := loadSession(store, w, r)
		if !ok {
			return
		}

		var req putTextRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		doc := sess.Document()
		newBody, replaced := replace(doc.Body(), req.Text)
		if replaced {
			sess.SetDocument(doc.WithBody(newBody))
		}
		writeJSON(w, http.StatusOK, replacedResponse{Replaced: replaced})
	}
}

func handleListPlaceholders(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := loadSession(store, w, r)
		if !ok {
			return
		}
		placeholders := markup.FindPlaceholders(sess.Document().Body())
		if placeholders == nil {
			placeholders = []markup.Placeholder{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"placeholders": placeholders})
	}
}

func handleUploadImage(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := loadSession(store, w, r)
		if !ok {
			return
		}

		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil || index < 0 {
			writeError(w, http.StatusBadRequest, "invalid placeholder index")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart body")
			return
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			writeError(w, http.StatusBadRequest, "image file is required")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "reading image: "+err.Error())
			return
		}

		mimeType := header.Header.Get("Content-Type")
		if i := strings.Index(mimeType, ";"); i >= 0 {
			mimeType = mimeType[:i]
		}
		mimeType = strings.ToLower(strings.TrimSpace(mimeType))
		if mimeType == "" {
			mimeType = http.DetectContentType(data)
		}
		if !allowedImageTypes[mimeType] {
			writeError(w, http.StatusBadRequest, "unsupported image type: "+mimeType)
			return
		}

		doc := sess.Document()
		placeholders := markup.FindPlaceholders(doc.Body())
		if index >= len(placeholders) {
			writeError(w, http.StatusNotFound, "placeholder not found")
			return
		}

		uri := markup.DataURI(mimeType, data)
		newBody, replaced := markup.ReplacePlaceholder(doc.Body(), placeholders[index].Markup, uri)
		if replaced {
			sess.SetDocument(doc.WithBody(newBody))
		}

		remaining := markup.FindPlaceholders(sess.Document().Body())
		if remaining == nil {
			remaining = []markup.Placeholder{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"replaced":     replaced,
			"placeholders": remaining,
		})
	}
}

func handlePreview(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := loadSession(store, w, r)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(sess.Document().Inline()))
	}
}

func handleExport(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := loadSession(store, w, r)
		if !ok {
			return
		}
		doc := sess.Document()
		if doc.IsEmpty() {
			writeError(w, http.StatusBadRequest, "generate a page before exporting")
			return
		}

		minify := r.URL.Query().Get("minify") == "true"
		data, err := export.Archive(doc, export.Options{Minify: minify})
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", `attachment; filename="landing_page.zip"`)
		w.Write(data)
	}
}
