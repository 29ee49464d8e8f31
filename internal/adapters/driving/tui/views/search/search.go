// Package search provides the map search view for the TUI.
package search

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/heritage-atlas/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/heritage-atlas/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/heritage-atlas/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/heritage-atlas/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/heritage-atlas/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/heritage-atlas/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driving"
)

// View is the search box, the grouped results panel and the popup of
// the focused site.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.ResultList
	statusbar *status.Bar

	searchService driving.SearchService
	presenter     driving.ResultPresenter
	ctx           context.Context

	seq        int
	selection  *domain.Selection
	popup      string
	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = typing the query, false = navigating results
}

// NewView creates a new search view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	searchService driving.SearchService,
	presenter driving.ResultPresenter,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewSearchInput(s),
		list:          list.NewResultList(s),
		statusbar:     status.NewBar(s, km),
		searchService: searchService,
		presenter:     presenter,
		ctx:           context.Background(),
		width:         80,
		height:        24,
		focusInput:    true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetMinQueryLength sets the length below which the search box asks for
// more input.
func (v *View) SetMinQueryLength(n int) {
	v.input.SetMinLength(n)
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ResultSelected:
		return v, v.handleResultSelected(msg)

	case messages.PopupDue:
		v.handlePopupDue(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			query := v.input.Value()
			if query == "" {
				return v, nil
			}
			v.statusbar.SetState(status.StateSearching)
			v.statusbar.SetMessage("")
			return v, v.performSearch(query)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.Select):
		return v, v.selectCurrent()
	case keymap.Matches(msg.String(), v.keymap.SelectAll):
		return v, v.selectAll()
	case keymap.Matches(msg.String(), v.keymap.Clear):
		v.clearResults()
		return v, nil
	case keymap.Matches(msg.String(), v.keymap.NewSearch):
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

// performSearch runs the query off the update loop. Search only reads
// the registry, so it is safe to run concurrently with rendering.
func (v *View) performSearch(query string) tea.Cmd {
	v.seq++
	seq := v.seq
	svc := v.searchService
	ctx := v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}
		set, err := svc.Search(ctx, query)
		return messages.SearchCompleted{Seq: seq, Set: set, Err: err}
	}
}

func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Seq != v.seq {
		return
	}
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}
	if v.presenter == nil {
		v.setError(ErrNoPresenter)
		return
	}

	v.err = nil
	v.selection = nil
	v.popup = ""
	v.list.SetGroups(v.presenter.Present(msg.Set))
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetResultCount(v.list.Count())
	switch {
	case msg.Set.PlacesUnavailable:
		v.statusbar.SetMessage("Place search unavailable")
	case v.list.IsEmpty():
		v.statusbar.SetMessage("No results")
	default:
		v.statusbar.SetMessage("")
	}

	if !v.list.IsEmpty() {
		v.focusInput = false
		v.input.Blur()
	}
}

func (v *View) selectCurrent() tea.Cmd {
	if v.presenter == nil || v.list.IsEmpty() {
		return nil
	}
	sel, err := v.presenter.SelectIndex(v.list.Selected())
	return resultSelected(sel, err)
}

func (v *View) selectAll() tea.Cmd {
	if v.presenter == nil || v.list.IsEmpty() {
		return nil
	}
	sel, err := v.presenter.SelectAll(v.list.Results())
	return resultSelected(sel, err)
}

func resultSelected(sel domain.Selection, err error) tea.Cmd {
	return func() tea.Msg {
		return messages.ResultSelected{Selection: sel, Err: err}
	}
}

// handleResultSelected shows the new focus and schedules its popup.
func (v *View) handleResultSelected(msg messages.ResultSelected) tea.Cmd {
	if msg.Err != nil {
		v.setError(msg.Err)
		return nil
	}
	sel := msg.Selection
	v.selection = &sel
	v.popup = ""
	v.statusbar.SetFocus(fmt.Sprintf("%s z%d", sel.Viewport.Center, sel.Viewport.Zoom))

	if sel.PopupAfter <= 0 {
		return nil
	}
	id := sel.PopupHighlight
	return tea.Tick(sel.PopupAfter, func(time.Time) tea.Msg {
		return messages.PopupDue{ID: id}
	})
}

func (v *View) handlePopupDue(msg messages.PopupDue) {
	if v.presenter == nil || v.selection == nil {
		return
	}
	if !v.presenter.OpenPopup(msg.ID) {
		return
	}
	for _, h := range v.selection.Highlights {
		if h.ID == msg.ID {
			v.popup = h.Popup
			if v.popup == "" {
				v.popup = h.Label
			}
			return
		}
	}
}

func (v *View) clearResults() {
	if v.presenter != nil {
		v.presenter.Clear()
	}
	v.list.SetGroups(nil)
	v.selection = nil
	v.popup = ""
	v.statusbar.Clear()
	v.focusInput = true
	v.input.Focus()
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("Atlas"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View())

	if v.popup != "" {
		sections = append(sections, "", v.styles.Popup.Render(v.popup))
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-12) // header, input, popup and status
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current search query.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the search query.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Results returns the presented results in order.
func (v *View) Results() []domain.SearchResult {
	return v.list.Results()
}

// SelectedIndex returns the cursor position in the results.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Selection returns the last map focus, or nil.
func (v *View) Selection() *domain.Selection {
	return v.selection
}

// Popup returns the open popup text, or "" if none is open.
func (v *View) Popup() string {
	return v.popup
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Reset returns the view to input mode with an empty query. Presented
// results are kept on the map until cleared.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.err = nil
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
