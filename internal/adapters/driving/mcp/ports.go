package mcp

import (
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides search capabilities.
	Search driving.SearchService

	// Layers owns visibility, clustering and cluster expansion.
	Layers driving.LayerController

	// Presenter resolves selections. Optional; without it select_result is unavailable.
	Presenter driving.ResultPresenter

	// Registry exposes site records. Optional.
	Registry driving.SiteRegistry

	// Locator produces the current-location marker. Optional.
	Locator driving.Locator
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Layers == nil {
		return ErrMissingLayerController
	}
	return nil
}
