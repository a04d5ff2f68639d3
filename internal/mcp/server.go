package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/textlens/textlens/internal/detector"
	"github.com/textlens/textlens/internal/history"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes text analysis tools.
type Server struct {
	detector      detector.Detector
	store         *history.Store
	maxTextLength int
	mcp           *server.MCPServer
}

// NewServer creates a new MCP server. store may be nil, in which case the
// history tools are not registered.
func NewServer(det detector.Detector, store *history.Store, maxTextLength int) *Server {
	s := &Server{
		detector:      det,
		store:         store,
		maxTextLength: maxTextLength,
	}

	s.mcp = server.NewMCPServer(
		"textlens",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(detectTextTool, s.handleDetectText)
	s.mcp.AddTool(highlightTextTool, s.handleHighlightText)
	if s.store != nil {
		s.mcp.AddTool(listHistoryTool, s.handleListHistory)
		s.mcp.AddTool(getTrendsTool, s.handleGetTrends)
	}
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
