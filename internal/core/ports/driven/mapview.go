package driven

import "github.com/custodia-labs/heritage-atlas/internal/core/domain"

// MapView is the base map engine. The core decides what is shown; the
// view renders it. Implementations need not be safe for concurrent use.
type MapView interface {
	// Viewport returns the current center and zoom.
	Viewport() domain.Viewport

	// SetView recenters the map.
	SetView(center domain.Coordinates, zoom int)

	// FitBounds sets the viewport to contain b and returns the result.
	FitBounds(b domain.Bounds) domain.Viewport

	// AttachLayer shows a layer. Attaching an attached layer is a no-op.
	AttachLayer(id domain.LayerID)

	// DetachLayer hides a layer. Detaching a detached layer is a no-op.
	DetachLayer(id domain.LayerID)

	// HasLayer reports whether a layer is attached.
	HasLayer(id domain.LayerID) bool

	// AddHighlight draws a highlight marker and returns its assigned ID.
	AddHighlight(h domain.Highlight) domain.HighlightID

	// RemoveHighlight removes a highlight marker.
	RemoveHighlight(id domain.HighlightID)

	// Highlights returns the drawn highlight markers.
	Highlights() []domain.Highlight

	// OpenPopup opens a highlight's popup. Returns false if the highlight is gone.
	OpenPopup(id domain.HighlightID) bool

	// SetLocation replaces the current-location marker.
	SetLocation(m domain.LocationMarker)

	// Location returns the current-location marker, if any.
	Location() (domain.LocationMarker, bool)
}
