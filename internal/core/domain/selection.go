package domain

import "time"

// Viewport is the visible map center and zoom level.
type Viewport struct {
	Center Coordinates `json:"center"`
	Zoom   int         `json:"zoom"`
}

// HighlightID identifies a drawn highlight marker.
type HighlightID int

// Highlight is a transient marker drawn to show search focus.
type Highlight struct {
	ID          HighlightID `json:"id"`
	Coordinates Coordinates `json:"coordinates"`
	Label       string      `json:"label"`
	Popup       string      `json:"popup,omitempty"`
	SiteID      string      `json:"siteId,omitempty"`
}

// Selection is the effect of selecting one or more results.
type Selection struct {
	Highlights []Highlight `json:"highlights"`
	Viewport   Viewport    `json:"viewport"`

	// FitBounds is set for multi-result selections; the viewport is fitted
	// to it instead of recentered on a point.
	FitBounds *Bounds `json:"fitBounds,omitempty"`

	// PopupAfter is the delay after which PopupHighlight's popup opens.
	// Zero means no popup is scheduled.
	PopupAfter     time.Duration `json:"popupAfter,omitempty"`
	PopupHighlight HighlightID   `json:"popupHighlight,omitempty"`
}

// LocationMarker is the persistent "you are here" marker.
type LocationMarker struct {
	Position Position `json:"position"`
	Label    string   `json:"label"`
}
