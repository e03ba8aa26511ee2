// ABOUTME: MCP server setup for the liftlog store.
// ABOUTME: Wraps the MCP server with template and session repositories and a day cache.
package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/liftlog/internal/history"
	"github.com/harperreed/liftlog/internal/storage"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	templates storage.TemplateRepository
	logs      storage.LogRepository
	days      *history.DayCache
}

// NewServer creates a new MCP server over the given stores. Day history is
// served from days, which should be bound to the bus the log store
// publishes on so that recorded and deleted sessions show up.
func NewServer(templates storage.TemplateRepository, logs storage.LogRepository, days *history.DayCache) (*Server, error) {
	if days == nil {
		return nil, errors.New("mcp: day cache is required")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "liftlog",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		templates: templates,
		logs:      logs,
		days:      days,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
