// ABOUTME: MCP server initialization and configuration
// ABOUTME: Exposes annotation tiers to AI agents over stdio

package mcp

import (
	"context"
	"fmt"

	"github.com/harper/tiers/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
)

// Server wraps the MCP server with an annotation repository.
type Server struct {
	mcp  *mcp.Server
	repo storage.Repository
	log  zerolog.Logger
}

// NewServer creates MCP server with all capabilities.
func NewServer(repo storage.Repository, log zerolog.Logger) (*Server, error) {
	if repo == nil {
		return nil, fmt.Errorf("repository is required")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "tiers",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcp:  mcpServer,
		repo: repo,
		log:  log.With().Str("component", "mcp").Logger(),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info().Msg("serving on stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
