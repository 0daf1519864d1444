package mcp

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lpforge/lpforge/internal/config"
	"github.com/lpforge/lpforge/internal/page"
)

// stubEngine implements session.Generator for testing.
type stubEngine struct {
	err       error
	lastTheme string
	lastBrief page.Brief
}

func (s *stubEngine) Generate(_ context.Context, theme string, temperature float64, brief page.Brief) (page.Document, error) {
	s.lastTheme = theme
	s.lastBrief = brief
	if s.err != nil {
		return page.Document{}, s.err
	}
	return page.BuildDocument(brief.Title, brief.MetaDescription, "<h1>"+brief.Title+"</h1>", ":root{}"), nil
}

func (s *stubEngine) Edit(_ context.Context, doc page.Document, _ string) (page.Document, page.EditOutcome, error) {
	return doc, page.EditOutcome{}, nil
}

func textContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		t.Fatalf("unexpected content type %T", result.Content[0])
	}
	return tc.Text
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"generate_landing_page", generateLandingPageTool, "generate_landing_page"},
		{"list_themes", listThemesTool, "list_themes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	engine := &stubEngine{}
	srv := NewServer(engine, config.DefaultConfig())

	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.engine != engine {
		t.Error("engine not set correctly")
	}
}

func TestHandleGenerateLandingPage(t *testing.T) {
	ctx := context.Background()

	t.Run("writes archive", func(t *testing.T) {
		outPath := filepath.Join(t.TempDir(), "page.zip")
		engine := &stubEngine{}
		srv := NewServer(engine, config.DefaultConfig())

		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"title":       "Acme",
			"theme":       "dark-mode",
			"features":    "fast, simple",
			"output_path": outPath,
		}

		result, err := srv.handleGenerateLandingPage(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		if engine.lastTheme != "dark-mode" {
			t.Errorf("theme = %q", engine.lastTheme)
		}
		if len(engine.lastBrief.Features) != 2 {
			t.Errorf("features = %v", engine.lastBrief.Features)
		}

		data, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("archive not written: %v", err)
		}
		if _, err := zip.NewReader(bytes.NewReader(data), int64(len(data))); err != nil {
			t.Fatalf("output is not a zip: %v", err)
		}
		if !strings.Contains(textContent(t, result), outPath) {
			t.Error("result text should name the output path")
		}
	})

	t.Run("missing title", func(t *testing.T) {
		srv := NewServer(&stubEngine{}, config.DefaultConfig())
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleGenerateLandingPage(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing title")
		}
	})

	t.Run("unknown theme", func(t *testing.T) {
		srv := NewServer(&stubEngine{}, config.DefaultConfig())
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{
			"title": "Acme",
			"theme": "baroque",
		}

		result, err := srv.handleGenerateLandingPage(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for unknown theme")
		}
	})

	t.Run("generation failure", func(t *testing.T) {
		srv := NewServer(&stubEngine{err: errors.New("model unavailable")}, config.DefaultConfig())
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"title": "Acme"}

		result, err := srv.handleGenerateLandingPage(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected tool error when generation fails")
		}
	})
}

func TestHandleListThemes(t *testing.T) {
	srv := NewServer(&stubEngine{}, config.DefaultConfig())

	result, err := srv.handleListThemes(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}

	text := textContent(t, result)
	for _, theme := range config.Themes {
		if !strings.Contains(text, theme) {
			t.Errorf("catalogue missing %q", theme)
		}
	}
}
