package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Lectern resources.
	uriScheme = "lectern://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource describing the current index.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "index",
		Name:        "index",
		Description: "The indexed folder and its files with page counts",
		MIMEType:    "application/json",
	}, s.handleIndexResource)
}

// handleIndexResource returns the index overview.
func (s *Server) handleIndexResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Indexer == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "{}",
			}},
		}, nil
	}

	overview, err := s.ports.Indexer.Overview(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading index overview: %w", err)
	}

	data, err := json.MarshalIndent(overview, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling overview: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
