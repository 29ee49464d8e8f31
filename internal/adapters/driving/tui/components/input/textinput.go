// Package input provides the query box of the search view.
package input

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/heritage-atlas/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
)

// Placeholder is shown while the query is empty.
const Placeholder = "Site, place or lat, lng..."

const (
	defaultWidth = 50
	minWidth     = 20
	labelWidth   = 10
)

// looksLikeCoordinates matches "lat, lng" style input so the box can tell
// the user it will be read as a position.
var looksLikeCoordinates = regexp.MustCompile(`^[-+]?\d+(\.\d+)?[\s,]+[-+]?\d+(\.\d+)?$`)

// SearchInput is the "Find:" box with an inline hint.
type SearchInput struct {
	field     textinput.Model
	styles    *styles.Styles
	width     int
	minLength int
}

// NewSearchInput returns a focused query box.
func NewSearchInput(s *styles.Styles) *SearchInput {
	if s == nil {
		s = styles.DefaultStyles()
	}
	field := textinput.New()
	field.Placeholder = Placeholder
	field.CharLimit = 128
	field.Width = defaultWidth
	field.Focus()

	return &SearchInput{
		field:     field,
		styles:    s,
		width:     defaultWidth,
		minLength: domain.DefaultSearchSettings().MinQueryLength,
	}
}

// Init starts the cursor blinking.
func (s *SearchInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update forwards key input to the field.
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	var cmd tea.Cmd
	s.field, cmd = s.field.Update(msg)
	return s, cmd
}

// View renders the label, the field and the hint.
func (s *SearchInput) View() string {
	parts := []string{
		s.styles.Title.Render("Find: "),
		s.styles.InputField.Render(s.field.View()),
	}
	if hint := s.Hint(); hint != "" {
		parts = append(parts, s.styles.Muted.Render("  "+hint))
	}
	//nolint:misspell // lipgloss.Center is the library constant
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

// Hint describes how the current query will be handled, or "" when there
// is nothing to say.
func (s *SearchInput) Hint() string {
	q := s.Query()
	switch {
	case q == "":
		return ""
	case looksLikeCoordinates.MatchString(q):
		return "position"
	case utf8.RuneCountInString(q) < s.minLength:
		return "keep typing"
	}
	return ""
}

// SetMinLength sets the query length below which the box hints that the
// search will return nothing.
func (s *SearchInput) SetMinLength(n int) {
	if n > 0 {
		s.minLength = n
	}
}

// Value returns the raw text.
func (s *SearchInput) Value() string {
	return s.field.Value()
}

// Query returns the text with surrounding space removed.
func (s *SearchInput) Query() string {
	return strings.TrimSpace(s.field.Value())
}

// SetValue replaces the text.
func (s *SearchInput) SetValue(value string) {
	s.field.SetValue(value)
}

// Focus gives the box keyboard focus.
func (s *SearchInput) Focus() tea.Cmd {
	return s.field.Focus()
}

// Blur removes keyboard focus.
func (s *SearchInput) Blur() {
	s.field.Blur()
}

// Focused reports whether the box has focus.
func (s *SearchInput) Focused() bool {
	return s.field.Focused()
}

// SetWidth fits the field into width, leaving room for the label.
func (s *SearchInput) SetWidth(width int) {
	s.width = width
	s.field.Width = max(width-labelWidth, minWidth)
}

// Width returns the width last set.
func (s *SearchInput) Width() int {
	return s.width
}

// Reset clears the text.
func (s *SearchInput) Reset() {
	s.field.Reset()
}
