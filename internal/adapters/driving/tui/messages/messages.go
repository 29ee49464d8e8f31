// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
)

// SearchCompleted carries a result set back to the model. Seq identifies
// the request so that a late answer to a superseded query is dropped.
type SearchCompleted struct {
	Seq int
	Set domain.ResultSet
	Err error
}

// ResultSelected is sent when a result has been focused on the map.
type ResultSelected struct {
	Selection domain.Selection
	Err       error
}

// PopupDue fires when a scheduled popup's delay has elapsed.
type PopupDue struct {
	ID domain.HighlightID
}

// ControlActivated carries the status line of a viewport control.
type ControlActivated struct {
	Name   string
	Status string
	Err    error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewSearch is the search input and results view.
	ViewSearch
	// ViewLayers lists categories, clustering and map controls.
	ViewLayers
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSearch:
		return "search"
	case ViewLayers:
		return "layers"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
