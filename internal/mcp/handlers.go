package mcp

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lpforge/lpforge/internal/config"
	"github.com/lpforge/lpforge/internal/export"
	"github.com/lpforge/lpforge/internal/markup"
	"github.com/lpforge/lpforge/internal/page"
)

// handleGenerateLandingPage generates a page for the given brief and
// writes the export archive to disk.
func (s *Server) handleGenerateLandingPage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: title"), nil
	}

	theme := request.GetString("theme", s.cfg.Theme)
	if !config.ValidTheme(theme) {
		return mcp.NewToolResultError(fmt.Sprintf(
			"unknown theme %q; call list_themes for the catalogue", theme,
		)), nil
	}

	brief := page.Brief{
		Title:           title,
		Tagline:         request.GetString("tagline", s.cfg.Site.Tagline),
		MetaDescription: request.GetString("meta_description", s.cfg.Site.MetaDescription),
		Email:           request.GetString("email", s.cfg.Site.Email),
		About:           request.GetString("about", s.cfg.Site.About),
		Features:        page.SplitList(request.GetString("features", s.cfg.Site.Features)),
		Works:           page.SplitList(request.GetString("works", s.cfg.Site.Works)),
		Testimonials:    page.ParseTestimonials(request.GetString("testimonials", s.cfg.Site.Testimonials)),
	}
	temperature := request.GetFloat("temperature", s.cfg.Temperature)

	doc, err := s.engine.Generate(ctx, theme, temperature, brief)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("generation failed: %v", err)), nil
	}

	data, err := export.Archive(doc, export.Options{Minify: s.cfg.Minify})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("packaging failed: %v", err)), nil
	}

	outputPath := request.GetString("output_path", s.cfg.ExportPath)
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("writing %s: %v", outputPath, err)), nil
	}

	placeholders := len(markup.FindPlaceholders(doc.Body()))
	return mcp.NewToolResultText(fmt.Sprintf(
		"Generated a %q-themed landing page for %q and wrote %d bytes to %s. The page contains %d image placeholder(s); replace them in the studio (`lpforge serve`) or ship as-is.",
		theme, title, len(data), outputPath, placeholders,
	)), nil
}

// handleListThemes returns the built-in theme catalogue.
func (s *Server) handleListThemes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sb strings.Builder
	sb.WriteString("Available themes:\n")
	for _, theme := range config.Themes {
		sb.WriteString("- " + theme + "\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}
