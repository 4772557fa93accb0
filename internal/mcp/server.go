package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/lunar-antiques/lunar/internal/collection"
	"github.com/lunar-antiques/lunar/internal/services"
)

// Version is set via ldflags at build time.
var Version = "dev"

// ServiceLister is the part of the services store the server reads.
type ServiceLister interface {
	List(ctx context.Context) ([]services.Service, error)
}

// Server wraps an MCP server that exposes read-only catalog tools.
type Server struct {
	items    collection.Store
	services ServiceLister
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server over the given stores. svc may be nil
// when the services CMS is unavailable.
func NewServer(items collection.Store, svc ServiceLister) *Server {
	s := &Server{
		items:    items,
		services: svc,
	}

	s.mcp = server.NewMCPServer(
		"lunar",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listCollectionTool, s.handleListCollection)
	s.mcp.AddTool(getItemTool, s.handleGetItem)
	s.mcp.AddTool(listServicesTool, s.handleListServices)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
