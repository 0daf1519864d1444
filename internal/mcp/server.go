// Package mcp exposes landing page generation as MCP tools over stdio
// so coding agents can produce and export pages directly.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/lpforge/lpforge/internal/config"
	"github.com/lpforge/lpforge/internal/session"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes landing page tools.
type Server struct {
	engine session.Generator
	cfg    *config.Config
	mcp    *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(engine session.Generator, cfg *config.Config) *Server {
	s := &Server{
		engine: engine,
		cfg:    cfg,
	}

	s.mcp = server.NewMCPServer(
		"lpforge",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(generateLandingPageTool, s.handleGenerateLandingPage)
	s.mcp.AddTool(listThemesTool, s.handleListThemes)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
