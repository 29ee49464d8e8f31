package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for atlas resources.
	uriScheme = "atlas://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "layers",
		Name:        "layers",
		Description: "Category visibility, clustering state and marker counts",
		MIMEType:    "application/json",
	}, s.handleLayersResource)

	if s.ports.Registry != nil {
		s.server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: uriScheme + "sites/{siteId}",
			Name:        "site",
			Description: "A heritage site record with its attributes",
			MIMEType:    "application/json",
		}, s.handleSiteResource)
	}
}

// handleLayersResource returns the layer controller status.
func (s *Server) handleLayersResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	s.mu.Lock()
	status := s.ports.Layers.Status()
	s.mu.Unlock()

	return jsonResource(req.Params.URI, status)
}

// handleSiteResource returns one site record.
func (s *Server) handleSiteResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractSiteID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	rec, err := s.ports.Registry.Get(id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting site: %w", err)
	}
	return jsonResource(req.Params.URI, rec)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSiteID extracts the site ID from a URI like atlas://sites/{siteId}.
func extractSiteID(uri string) string {
	const prefix = uriScheme + "sites/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
