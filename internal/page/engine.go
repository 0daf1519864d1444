package page

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/lpforge/lpforge/internal/llm"
	"github.com/lpforge/lpforge/internal/markup"
)

const (
	// styleSeedMax bounds the random seed injected into the generation
	// prompt so the same brief still produces varied layouts.
	styleSeedMax = 10_000_000

	defaultCallTimeout = 120 * time.Second
	defaultMaxRetries  = 2
	editTemperature    = 0.8
)

// EngineConfig tunes the generation engine. Zero values fall back to
// sensible defaults.
type EngineConfig struct {
	Model       string
	Temperature float64
	CallTimeout time.Duration
	MaxRetries  int
}

// Engine turns a Brief into a Document and applies free-form edit
// instructions, calling the configured LLM provider with retries and a
// per-call timeout. Safe for concurrent use.
type Engine struct {
	provider    llm.Provider
	model       string
	temperature float64
	callTimeout time.Duration
	maxRetries  uint64
}

func NewEngine(provider llm.Provider, cfg EngineConfig) *Engine {
	e := &Engine{
		provider:    provider,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		callTimeout: cfg.CallTimeout,
		maxRetries:  defaultMaxRetries,
	}
	if e.callTimeout <= 0 {
		e.callTimeout = defaultCallTimeout
	}
	if cfg.MaxRetries > 0 {
		e.maxRetries = uint64(cfg.MaxRetries)
	}
	return e
}

// generateResponse is the JSON contract for a full-page generation.
type generateResponse struct {
	Title string `json:"title"`
	Meta  struct {
		Description string `json:"description"`
	} `json:"meta"`
	CSS      string `json:"css"`
	BodyHTML string `json:"body_html"`
}

// editResponse is the JSON contract for an edit instruction. Empty
// fields mean "unchanged".
type editResponse struct {
	CSS      string `json:"css"`
	BodyHTML string `json:"body_html"`
}

// EditOutcome reports which halves of the document an edit touched.
type EditOutcome struct {
	CSSChanged  bool `json:"css_changed"`
	BodyChanged bool `json:"body_changed"`
}

// Generate produces a fresh Document for the brief in the given theme.
// A temperature <= 0 uses the engine default. The returned body is
// sanitized; the HTML shell uses the brief's title and meta description
// so user-entered values win over whatever the model echoes back.
func (e *Engine) Generate(ctx context.Context, theme string, temperature float64, brief Brief) (Document, error) {
	if temperature <= 0 {
		temperature = e.temperature
	}
	seed := rand.IntN(styleSeedMax) + 1

	resp, err := e.complete(ctx, llm.CompletionRequest{
		Model: e.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: generateSystemPrompt},
			{Role: llm.RoleUser, Content: buildGeneratePrompt(theme, brief, seed)},
		},
		Temperature: temperature,
		JSONMode:    true,
	})
	if err != nil {
		return Document{}, fmt.Errorf("generating page: %w", err)
	}

	var gen generateResponse
	if err := json.Unmarshal([]byte(stripFences(resp.Content)), &gen); err != nil {
		return Document{}, fmt.Errorf("parsing generation response: %w", err)
	}
	if strings.TrimSpace(gen.CSS) == "" {
		return Document{}, fmt.Errorf("generation response missing css")
	}
	if strings.TrimSpace(gen.BodyHTML) == "" {
		return Document{}, fmt.Errorf("generation response missing body_html")
	}

	body := markup.Sanitize(gen.BodyHTML)
	return BuildDocument(brief.Title, brief.MetaDescription, body, gen.CSS), nil
}

// Edit applies a free-form instruction to the document. A field the
// model returns empty is left untouched; a returned body is sanitized
// before it replaces the current one. On error the input document is
// returned unchanged.
func (e *Engine) Edit(ctx context.Context, doc Document, instruction string) (Document, EditOutcome, error) {
	resp, err := e.complete(ctx, llm.CompletionRequest{
		Model: e.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: editSystemPrompt},
			{Role: llm.RoleUser, Content: buildEditPrompt(doc.CSS, doc.Body(), instruction)},
		},
		Temperature: editTemperature,
		JSONMode:    true,
	})
	if err != nil {
		return doc, EditOutcome{}, fmt.Errorf("editing page: %w", err)
	}

	var edit editResponse
	if err := json.Unmarshal([]byte(stripFences(resp.Content)), &edit); err != nil {
		return doc, EditOutcome{}, fmt.Errorf("parsing edit response: %w", err)
	}

	var outcome EditOutcome
	if strings.TrimSpace(edit.CSS) != "" {
		doc.CSS = edit.CSS
		outcome.CSSChanged = true
	}
	if strings.TrimSpace(edit.BodyHTML) != "" {
		doc = doc.WithBody(markup.Sanitize(edit.BodyHTML))
		outcome.BodyChanged = true
	}
	return doc, outcome, nil
}

// complete runs one provider call with a per-attempt timeout and
// exponential backoff on transient failures.
func (e *Engine) complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	var resp *llm.CompletionResponse
	backoff := retry.WithMaxRetries(e.maxRetries, retry.NewExponential(time.Second))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
		defer cancel()

		r, err := e.provider.Complete(callCtx, req)
		if err != nil {
			if llm.IsTransient(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// stripFences removes a markdown code fence some models wrap around
// JSON output despite JSON mode.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
