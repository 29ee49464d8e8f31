// Package layers provides the layer panel: category checkboxes, the
// clustering toggle and the locate button.
package layers

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/heritage-atlas/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/heritage-atlas/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/heritage-atlas/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/heritage-atlas/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driving"
)

// asyncControl names the control that may block on an external fix.
const asyncControl = "locate"

// View is the layer panel.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	statusbar *status.Bar

	layers   driving.LayerController
	controls []driving.ViewportControl
	mapView  driven.MapView
	ctx      context.Context

	selected int
	pending  bool
	width    int
	height   int
	ready    bool
}

// NewView creates a layer panel. mapView is optional and only used to
// report the cluster count at the current zoom.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	layers driving.LayerController,
	controls []driving.ViewportControl,
	mapView driven.MapView,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	bar := status.NewBar(s, km)
	bar.SetState(status.StateLayers)

	return &View{
		styles:    s,
		keymap:    km,
		statusbar: bar,
		layers:    layers,
		controls:  controls,
		mapView:   mapView,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context passed to controls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the layer panel.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ControlActivated:
		v.pending = false
		v.statusbar.SetState(status.StateLayers)
		v.statusbar.SetMessage(msg.Status)
		v.refreshFocus()
		return v, nil
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case keymap.Matches(key, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(key, v.keymap.Down):
		if v.selected < len(v.controls)-1 {
			v.selected++
		}
	case keymap.Matches(key, v.keymap.Toggle):
		return v, v.activate()
	}
	return v, nil
}

// activate runs the highlighted control. Layer toggles mutate the layer
// controller and run here on the update loop; locate waits on the
// geolocator and runs as a command.
func (v *View) activate() tea.Cmd {
	if v.pending || v.selected >= len(v.controls) {
		return nil
	}
	c := v.controls[v.selected]
	name := c.Name()

	if name == asyncControl {
		v.pending = true
		v.statusbar.SetState(status.StateLocating)
		ctx := v.ctx
		return func() tea.Msg {
			line, err := c.Activate(ctx)
			return messages.ControlActivated{Name: name, Status: line, Err: err}
		}
	}

	line, err := c.Activate(v.ctx)
	if err == nil && v.layers != nil {
		err = v.layers.CheckInvariant()
		if err != nil {
			line = err.Error()
		}
	}
	return func() tea.Msg {
		return messages.ControlActivated{Name: name, Status: line, Err: err}
	}
}

func (v *View) refreshFocus() {
	if v.mapView == nil {
		return
	}
	vp := v.mapView.Viewport()
	v.statusbar.SetFocus(fmt.Sprintf("%s z%d", vp.Center, vp.Zoom))
}

// View renders the panel.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{v.styles.Title.Render("Layers"), ""}

	if v.layers != nil {
		st := v.layers.Status()
		for _, c := range st.Categories {
			mark := "[ ]"
			if c.Visible {
				mark = "[x]"
			}
			line := fmt.Sprintf("%s %s  %d sites", mark, c.Label, c.Markers)
			sections = append(sections, v.styles.Category(c.Category).Render(line))
		}
		sections = append(sections, "", v.clusterSummary(st))
	}

	sections = append(sections, "", v.styles.Subtitle.Render("Controls"))
	for i, c := range v.controls {
		label := c.Label()
		if i == v.selected {
			sections = append(sections, v.styles.Selected.Render("> "+label))
		} else {
			sections = append(sections, v.styles.Normal.Render("  "+label))
		}
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) clusterSummary(st domain.LayerStatus) string {
	if !st.ClusteringEnabled {
		return v.styles.Muted.Render("Clustering off")
	}
	if v.mapView == nil {
		return v.styles.Muted.Render("Clustering on")
	}
	zoom := v.mapView.Viewport().Zoom
	clusters := v.layers.Clusters(zoom, nil)
	groups := 0
	for _, c := range clusters {
		if !c.IsSingle() {
			groups++
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Zoom %d: %d markers", zoom, len(clusters))
	if groups > 0 {
		fmt.Fprintf(&b, " (%d clusters)", groups)
	}
	return v.styles.Muted.Render(b.String())
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.statusbar.SetWidth(width)
	v.refreshFocus()
}

// Selected returns the highlighted control index.
func (v *View) Selected() int {
	return v.selected
}

// Pending reports whether an asynchronous control is still running.
func (v *View) Pending() bool {
	return v.pending
}

// Status returns the last control status line.
func (v *View) Status() string {
	return v.statusbar.Message()
}
