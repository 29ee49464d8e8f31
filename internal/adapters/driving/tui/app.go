package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/heritage-atlas/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/heritage-atlas/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/heritage-atlas/internal/adapters/driving/tui/views/layers"
	"github.com/custodia-labs/heritage-atlas/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/heritage-atlas/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	menuView   *menu.View
	searchView *search.View
	layersView *layers.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	a := &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		menuView:    menu.NewView(s),
		searchView:  search.NewView(s, nil, ports.Search, ports.Presenter),
		layersView:  layers.NewView(s, nil, ports.Layers, ports.Controls, ports.View),
		currentView: messages.ViewMenu,
	}
	if ports.MinQueryLength > 0 {
		a.searchView.SetMinQueryLength(ports.MinQueryLength)
	}
	a.menuView.SetSummary(a.summary())
	return a, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	a.layersView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("atlas - Heritage Site Map"),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewMenu:
			a.menuView, cmd = a.menuView.Update(msg)
		case messages.ViewSearch:
			a.searchView, cmd = a.searchView.Update(msg)
			a.err = a.searchView.Err()
		case messages.ViewLayers:
			a.layersView, cmd = a.layersView.Update(msg)
		case messages.ViewHelp:
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
			}
		}
		return a, cmd

	// Search and popup messages go to the search view even when another
	// view is active, so a scheduled popup is tracked across navigation.
	case messages.SearchCompleted, messages.ResultSelected, messages.PopupDue:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
		return a, cmd

	case messages.ControlActivated:
		a.layersView, cmd = a.layersView.Update(msg)
		a.menuView.SetSummary(a.summary())
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewSearch:
			a.searchView.Reset()
			return a, a.searchView.Init()
		case messages.ViewLayers:
			return a, a.layersView.Init()
		case messages.ViewMenu:
			a.menuView.SetSummary(a.summary())
		case messages.ViewHelp:
		}
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewSearch {
			a.searchView, cmd = a.searchView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewLayers:
		a.layersView, cmd = a.layersView.Update(msg)
	case messages.ViewHelp:
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewLayers:
		return a.layersView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// summary counts loaded sites per category for the menu.
func (a *App) summary() string {
	st := a.ports.Layers.Status()
	parts := make([]string, 0, len(st.Categories))
	for _, c := range st.Categories {
		parts = append(parts, fmt.Sprintf("%d %s", c.Markers, strings.ToLower(c.Label)))
	}
	return strings.Join(parts, ", ")
}

func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back to Menu
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  /           Search
  q           Quit

Search:
  (type)      Site name, place or "lat, lng"
  enter       Submit search

Results:
  j/k, ↑/↓    Navigate results
  enter       Show result on the map
  a           Fit the map to all results
  x           Clear results
  n           New search

Layers:
  space       Toggle layer or control

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Query returns the current search query.
func (a *App) Query() string {
	return a.searchView.Query()
}

// Results returns the presented search results.
func (a *App) Results() []domain.SearchResult {
	return a.searchView.Results()
}

// Selection returns the current map focus, or nil.
func (a *App) Selection() *domain.Selection {
	return a.searchView.Selection()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.layersView.SetDimensions(width, height)
}
