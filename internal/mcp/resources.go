// ABOUTME: MCP resource definitions
// ABOUTME: Provides a read-only listing of annotations for AI agents

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const annotationsURI = "tiers://annotations"

func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		Name:        annotationsURI,
		Description: "All annotations with their spans and tiers",
		URI:         annotationsURI,
		MIMEType:    "application/json",
	}, s.handleAnnotationsResource)
}

func (s *Server) handleAnnotationsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	output, err := s.listAnnotations()
	if err != nil {
		return nil, err
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode annotations: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      annotationsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		},
	}, nil
}
