package driving

import "context"

// ViewportControl is a map control with one action, such as the
// clustering toggle or the locate button. Surfaces render Label and call
// Activate when the control is clicked or its key pressed.
type ViewportControl interface {
	// Name is a stable identifier ("clustering", "locate").
	Name() string

	// Label is the current display text.
	Label() string

	// Activate performs the control's action and returns a status line.
	Activate(ctx context.Context) (string, error)
}
