// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/heritage-atlas/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
)

// ResultList displays grouped search results with a flat cursor. The
// cursor position matches the result's index in presentation order.
type ResultList struct {
	groups   []domain.ResultGroup
	flat     []domain.SearchResult
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

type row struct {
	heading string
	group   domain.ResultGroup
	index   int // -1 for headings
}

// rows lays the groups out as headings followed by their results.
func (r *ResultList) rows() []row {
	out := make([]row, 0, len(r.flat)+len(r.groups))
	i := 0
	for _, g := range r.groups {
		out = append(out, row{heading: g.Title, group: g, index: -1})
		for range g.Results {
			out = append(out, row{group: g, index: i})
			i++
		}
	}
	return out
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.flat) == 0 {
		return r.styles.Muted.Render("No results")
	}

	rows := r.rows()
	visible := r.height - 2
	if visible < 3 {
		visible = 3
	}

	cursorRow := 0
	for n, rw := range rows {
		if rw.index == r.selected {
			cursorRow = n
			break
		}
	}
	start := 0
	if cursorRow >= visible {
		start = cursorRow - visible + 1
	}
	end := start + visible
	if end > len(rows) {
		end = len(rows)
	}

	lines := make([]string, 0, end-start+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Results (%d)", len(r.flat))), "")
	for _, rw := range rows[start:end] {
		if rw.index < 0 {
			lines = append(lines, r.renderHeading(rw.group))
			continue
		}
		lines = append(lines, r.renderResult(rw.index, r.flat[rw.index]))
	}
	return strings.Join(lines, "\n")
}

func (r *ResultList) renderHeading(g domain.ResultGroup) string {
	title := fmt.Sprintf("%s (%d)", g.Title, len(g.Results))
	if g.Kind == domain.ResultHeritageSite {
		return r.styles.Category(g.Category).Render(title)
	}
	return r.styles.Subtitle.Render(title)
}

func (r *ResultList) renderResult(index int, result domain.SearchResult) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	label := result.Label
	maxLabel := r.width - 28
	if maxLabel < 10 {
		maxLabel = 10
	}
	if len(label) > maxLabel {
		label = label[:maxLabel-3] + "..."
	}
	coords := result.Coordinates.String()

	if index == r.selected {
		return r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxLabel, label, coords))
	}
	return r.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxLabel, label)) +
		r.styles.Muted.Render(coords)
}

// SetGroups replaces the displayed results and resets the cursor.
func (r *ResultList) SetGroups(groups []domain.ResultGroup) {
	r.groups = groups
	r.flat = nil
	for _, g := range groups {
		r.flat = append(r.flat, g.Results...)
	}
	r.selected = 0
}

// Groups returns the displayed groups.
func (r *ResultList) Groups() []domain.ResultGroup {
	return r.groups
}

// Results returns the results in presentation order.
func (r *ResultList) Results() []domain.SearchResult {
	return r.flat
}

// Selected returns the cursor index.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected moves the cursor if index is in range.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.flat) {
		r.selected = index
	}
}

// SelectedResult returns the result under the cursor, or nil if none.
func (r *ResultList) SelectedResult() *domain.SearchResult {
	if r.selected < 0 || r.selected >= len(r.flat) {
		return nil
	}
	return &r.flat[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.flat)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.flat)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.flat) == 0
}
