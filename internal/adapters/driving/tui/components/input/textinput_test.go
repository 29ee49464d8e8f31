package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/heritage-atlas/internal/adapters/driving/tui/styles"
)

func TestNewSearchInput(t *testing.T) {
	input := NewSearchInput(styles.DefaultStyles())

	require.NotNil(t, input)
	assert.Equal(t, "", input.Value())
	assert.True(t, input.Focused())
	assert.Equal(t, 50, input.Width())
}

func TestNewSearchInput_NilStyles(t *testing.T) {
	input := NewSearchInput(nil)

	require.NotNil(t, input)
	assert.NotNil(t, input.styles)
}

func TestSearchInput_Init(t *testing.T) {
	input := NewSearchInput(nil)

	assert.NotNil(t, input.Init())
}

func TestSearchInput_View(t *testing.T) {
	input := NewSearchInput(nil)

	view := input.View()

	assert.Contains(t, view, "Find")
}

func TestSearchInput_TypingCoordinates(t *testing.T) {
	input := NewSearchInput(nil)

	for _, k := range "12.3, 76.6" {
		input.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{k}})
	}

	assert.Equal(t, "12.3, 76.6", input.Value())
}

func TestSearchInput_Backspace(t *testing.T) {
	input := NewSearchInput(nil)
	input.SetValue("hampi")

	input.Update(tea.KeyMsg{Type: tea.KeyBackspace})

	assert.Equal(t, "hamp", input.Value())
}

func TestSearchInput_FocusAndBlur(t *testing.T) {
	input := NewSearchInput(nil)

	input.Blur()
	assert.False(t, input.Focused())

	cmd := input.Focus()
	assert.NotNil(t, cmd)
	assert.True(t, input.Focused())
}

func TestSearchInput_SetWidth(t *testing.T) {
	input := NewSearchInput(nil)

	input.SetWidth(100)
	assert.Equal(t, 100, input.Width())
	assert.Equal(t, 90, input.field.Width)

	input.SetWidth(10)
	assert.Equal(t, 10, input.Width())
	assert.Equal(t, 20, input.field.Width)
}

func TestSearchInput_Reset(t *testing.T) {
	input := NewSearchInput(nil)
	input.SetValue("belur")

	input.Reset()

	assert.Equal(t, "", input.Value())
}

func TestSearchInput_Hint(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "empty", value: "", want: ""},
		{name: "single rune", value: "h", want: "keep typing"},
		{name: "padded single rune", value: "  h ", want: "keep typing"},
		{name: "word", value: "hampi", want: ""},
		{name: "comma pair", value: "12.3, 76.6", want: "position"},
		{name: "space pair", value: "-12 76.6", want: "position"},
		{name: "one number", value: "12.3", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := NewSearchInput(nil)
			input.SetValue(tt.value)
			assert.Equal(t, tt.want, input.Hint())
		})
	}
}

func TestSearchInput_SetMinLength(t *testing.T) {
	input := NewSearchInput(nil)
	input.SetValue("bel")
	assert.Equal(t, "", input.Hint())

	input.SetMinLength(4)
	assert.Equal(t, "keep typing", input.Hint())

	input.SetMinLength(0)
	assert.Equal(t, "keep typing", input.Hint(), "non-positive lengths are ignored")
}

func TestSearchInput_Query(t *testing.T) {
	input := NewSearchInput(nil)
	input.SetValue("  belur temple ")

	assert.Equal(t, "  belur temple ", input.Value())
	assert.Equal(t, "belur temple", input.Query())
	assert.Contains(t, input.View(), "Find")
}
