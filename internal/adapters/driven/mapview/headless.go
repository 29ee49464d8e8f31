// Package mapview provides a headless map engine that tracks what a
// rendered map would show: the viewport, attached layers, highlight
// markers, open popups and the current-location marker.
package mapview

import (
	"sort"
	"sync"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
)

// Ensure Headless implements the interface.
var _ driven.MapView = (*Headless)(nil)

// Headless is an in-process map engine. It is safe for concurrent use.
type Headless struct {
	mu sync.RWMutex

	width, height int
	maxZoom       int

	viewport   domain.Viewport
	layers     map[domain.LayerID]bool
	highlights map[domain.HighlightID]domain.Highlight
	nextID     domain.HighlightID
	popup      domain.HighlightID
	location   *domain.LocationMarker
}

// New creates a headless map of the given pixel size. FitBounds never
// zooms past maxZoom.
func New(width, height, maxZoom int) *Headless {
	return &Headless{
		width:      width,
		height:     height,
		maxZoom:    maxZoom,
		layers:     make(map[domain.LayerID]bool),
		highlights: make(map[domain.HighlightID]domain.Highlight),
		nextID:     1,
	}
}

// Viewport returns the current center and zoom.
func (m *Headless) Viewport() domain.Viewport {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.viewport
}

// SetView recenters the map.
func (m *Headless) SetView(center domain.Coordinates, zoom int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.viewport = domain.Viewport{Center: center, Zoom: zoom}
}

// FitBounds centers on b at the highest zoom that contains it.
func (m *Headless) FitBounds(b domain.Bounds) domain.Viewport {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.IsEmpty() {
		return m.viewport
	}
	m.viewport = domain.Viewport{
		Center: b.Center(),
		Zoom:   domain.FitZoom(b, m.width, m.height, m.maxZoom),
	}
	return m.viewport
}

// AttachLayer shows a layer.
func (m *Headless) AttachLayer(id domain.LayerID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.layers[id] = true
}

// DetachLayer hides a layer.
func (m *Headless) DetachLayer(id domain.LayerID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.layers, id)
}

// HasLayer reports whether a layer is attached.
func (m *Headless) HasLayer(id domain.LayerID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.layers[id]
}

// Layers returns the attached layers sorted by name.
func (m *Headless) Layers() []domain.LayerID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.LayerID, 0, len(m.layers))
	for id := range m.layers {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// AddHighlight draws a highlight and assigns it an ID starting at 1.
func (m *Headless) AddHighlight(h domain.Highlight) domain.HighlightID {
	m.mu.Lock()
	defer m.mu.Unlock()
	h.ID = m.nextID
	m.nextID++
	m.highlights[h.ID] = h
	return h.ID
}

// RemoveHighlight removes a highlight and closes its popup.
func (m *Headless) RemoveHighlight(id domain.HighlightID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.highlights, id)
	if m.popup == id {
		m.popup = 0
	}
}

// Highlights returns the drawn highlights in creation order.
func (m *Headless) Highlights() []domain.Highlight {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Highlight, 0, len(m.highlights))
	for _, h := range m.highlights {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// OpenPopup opens a highlight's popup, closing any other.
func (m *Headless) OpenPopup(id domain.HighlightID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.highlights[id]; !ok {
		return false
	}
	m.popup = id
	return true
}

// OpenedPopup returns the highlight whose popup is open.
func (m *Headless) OpenedPopup() (domain.Highlight, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.highlights[m.popup]
	return h, ok
}

// SetLocation replaces the current-location marker.
func (m *Headless) SetLocation(marker domain.LocationMarker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.location = &marker
}

// Location returns the current-location marker, if any.
func (m *Headless) Location() (domain.LocationMarker, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.location == nil {
		return domain.LocationMarker{}, false
	}
	return *m.location, true
}
