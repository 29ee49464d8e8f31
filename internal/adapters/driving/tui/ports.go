// Package tui provides an interactive terminal map browser for atlas.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI needs.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search runs site, place and coordinate search.
	Search driving.SearchService

	// Presenter groups results and focuses the map on a selection.
	Presenter driving.ResultPresenter

	// Layers reports layer status and cluster placement.
	Layers driving.LayerController

	// Controls are the on-map buttons (layer toggles, clustering, locate).
	Controls []driving.ViewportControl

	// View is the map the TUI mirrors in its status line. Optional.
	// The locate control updates it off the update loop, so it must be
	// safe for concurrent use.
	View driven.MapView

	// MinQueryLength is the query length below which the search box hints
	// the user to keep typing. Zero keeps the default.
	MinQueryLength int
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Presenter == nil {
		return ErrMissingPresenter
	}
	if p.Layers == nil {
		return ErrMissingLayerController
	}
	return nil
}
