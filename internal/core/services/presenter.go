package services

import (
	"fmt"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driving"
	"github.com/custodia-labs/heritage-atlas/internal/logger"
)

// Ensure Presenter implements the interface.
var _ driving.ResultPresenter = (*Presenter)(nil)

// Presenter holds the presented result set and the highlight markers it
// drew. Highlights are always cleared before new ones are drawn.
type Presenter struct {
	view       driven.MapView
	layers     driving.LayerController
	registry   driving.SiteRegistry
	settings   domain.ViewSettings
	current    domain.ResultSet
	highlights []domain.HighlightID
	pending    domain.HighlightID
}

// NewPresenter creates a presenter drawing on view.
func NewPresenter(
	view driven.MapView,
	layers driving.LayerController,
	registry driving.SiteRegistry,
	settings domain.ViewSettings,
) *Presenter {
	return &Presenter{view: view, layers: layers, registry: registry, settings: settings}
}

// Present replaces the current result set. An empty set also clears the
// highlights, which is how short queries dismiss a previous selection.
func (p *Presenter) Present(set domain.ResultSet) []domain.ResultGroup {
	p.current = set
	if set.IsEmpty() {
		p.clearHighlights()
	}
	return set.Groups()
}

// Current returns the presented result set.
func (p *Presenter) Current() domain.ResultSet {
	return p.current
}

// Select highlights one result and recenters on it at the focus zoom.
// Heritage sites additionally force their layer visible and schedule the
// popup after the configured delay.
func (p *Presenter) Select(result domain.SearchResult) (domain.Selection, error) {
	h, err := p.highlightFor(result)
	if err != nil {
		return domain.Selection{}, err
	}

	p.clearHighlights()
	if result.Kind == domain.ResultHeritageSite {
		p.layers.EnsureVisible(result.Category)
	}
	h.ID = p.view.AddHighlight(h)
	p.highlights = []domain.HighlightID{h.ID}

	p.view.SetView(result.Coordinates, p.settings.SiteZoom)
	sel := domain.Selection{
		Highlights: []domain.Highlight{h},
		Viewport:   p.view.Viewport(),
	}
	if result.Kind == domain.ResultHeritageSite {
		sel.PopupAfter = p.settings.PopupDelay
		sel.PopupHighlight = h.ID
		p.pending = h.ID
	}
	logger.Debug("Selected %s %q at %s", result.Kind, result.Label, result.Coordinates)
	return sel, nil
}

// SelectIndex selects the result at index in presentation order.
func (p *Presenter) SelectIndex(index int) (domain.Selection, error) {
	flat := p.current.Flatten()
	if index < 0 || index >= len(flat) {
		return domain.Selection{}, fmt.Errorf("select %d of %d results: %w", index, len(flat), domain.ErrNoResult)
	}
	return p.Select(flat[index])
}

// SelectAll highlights several results at once and fits the viewport to
// their union bounds.
func (p *Presenter) SelectAll(results []domain.SearchResult) (domain.Selection, error) {
	if len(results) == 0 {
		return domain.Selection{}, fmt.Errorf("select all: %w", domain.ErrNoResult)
	}
	if len(results) == 1 {
		return p.Select(results[0])
	}

	drawn := make([]domain.Highlight, 0, len(results))
	for _, r := range results {
		h, err := p.highlightFor(r)
		if err != nil {
			return domain.Selection{}, err
		}
		drawn = append(drawn, h)
	}

	p.clearHighlights()
	var bounds domain.Bounds
	for i, r := range results {
		if r.Kind == domain.ResultHeritageSite {
			p.layers.EnsureVisible(r.Category)
		}
		drawn[i].ID = p.view.AddHighlight(drawn[i])
		p.highlights = append(p.highlights, drawn[i].ID)
		bounds.Extend(r.Coordinates)
	}

	vp := p.view.FitBounds(bounds)
	logger.Debug("Selected %d results, fitted to %s", len(results), bounds)
	return domain.Selection{Highlights: drawn, Viewport: vp, FitBounds: &bounds}, nil
}

// OpenPopup opens the scheduled popup if its highlight is still current.
func (p *Presenter) OpenPopup(id domain.HighlightID) bool {
	if id == 0 || id != p.pending {
		return false
	}
	p.pending = 0
	return p.view.OpenPopup(id)
}

// Clear dismisses the results and removes the highlights.
func (p *Presenter) Clear() {
	p.current = domain.ResultSet{}
	p.clearHighlights()
}

func (p *Presenter) clearHighlights() {
	for _, id := range p.highlights {
		p.view.RemoveHighlight(id)
	}
	p.highlights = nil
	p.pending = 0
}

// highlightFor builds the highlight for a result without drawing it.
func (p *Presenter) highlightFor(r domain.SearchResult) (domain.Highlight, error) {
	if !r.Coordinates.Valid() {
		return domain.Highlight{}, fmt.Errorf("select %q: %w", r.Label, domain.ErrInvalidCoordinates)
	}
	switch r.Kind {
	case domain.ResultHeritageSite:
		site, err := p.registry.Get(r.SiteID)
		if err != nil {
			return domain.Highlight{}, fmt.Errorf("select site: %w", err)
		}
		return domain.Highlight{
			Coordinates: site.Coordinates,
			Label:       site.DisplayName(),
			Popup:       site.PopupContent(),
			SiteID:      site.ID,
		}, nil
	case domain.ResultPlace:
		text := r.AddressText
		if text == "" {
			text = r.Label
		}
		if text == "" {
			text = r.Coordinates.String()
		}
		return domain.Highlight{Coordinates: r.Coordinates, Label: "Found location: " + text}, nil
	case domain.ResultCoordinate:
		return domain.Highlight{Coordinates: r.Coordinates, Label: "Searched location: " + r.Coordinates.String()}, nil
	default:
		return domain.Highlight{}, fmt.Errorf("%w: result kind %q", domain.ErrInvalidInput, r.Kind)
	}
}
