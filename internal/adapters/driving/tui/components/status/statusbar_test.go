package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/heritage-atlas/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/heritage-atlas/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.ResultCount())
	assert.Equal(t, 80, bar.Width())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_InitAndUpdate(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Nil(t, bar.Init())
	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_Setters(t *testing.T) {
	bar := NewBar(nil, nil)

	bar.SetState(StateSearching)
	bar.SetMessage("Clustering off")
	bar.SetFocus("12.9716, 77.5946 z16")
	bar.SetResultCount(42)
	bar.SetWidth(120)

	assert.Equal(t, StateSearching, bar.State())
	assert.Equal(t, "Clustering off", bar.Message())
	assert.Equal(t, "12.9716, 77.5946 z16", bar.Focus())
	assert.Equal(t, 42, bar.ResultCount())
	assert.Equal(t, 120, bar.Width())
}

func TestStatusBar_Clear_KeepsFocus(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("error message")
	bar.SetResultCount(10)
	bar.SetFocus("z7")

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, 0, bar.ResultCount())
	assert.Equal(t, "z7", bar.Focus())
}

func TestStatusBar_View(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(b *Bar)
		contains []string
	}{
		{
			name:     "ready",
			setup:    func(*Bar) {},
			contains: []string{"Ready", "quit"},
		},
		{
			name:     "searching",
			setup:    func(b *Bar) { b.SetState(StateSearching) },
			contains: []string{"Searching"},
		},
		{
			name:     "locating",
			setup:    func(b *Bar) { b.SetState(StateLocating) },
			contains: []string{"Locating"},
		},
		{
			name: "error with message",
			setup: func(b *Bar) {
				b.SetState(StateError)
				b.SetMessage("lookup failed")
			},
			contains: []string{"Error", "lookup failed"},
		},
		{
			name: "results",
			setup: func(b *Bar) {
				b.SetState(StateResults)
				b.SetResultCount(5)
			},
			contains: []string{"5 results", "show on map"},
		},
		{
			name:     "layers",
			setup:    func(b *Bar) { b.SetState(StateLayers) },
			contains: []string{"toggle"},
		},
		{
			name: "message overrides count",
			setup: func(b *Bar) {
				b.SetResultCount(5)
				b.SetMessage("You are here")
			},
			contains: []string{"You are here"},
		},
		{
			name:     "focus",
			setup:    func(b *Bar) { b.SetFocus("15.3350, 76.4600 z16") },
			contains: []string{"15.3350, 76.4600 z16"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(200)
			tt.setup(bar)

			view := bar.View()
			for _, s := range tt.contains {
				assert.Contains(t, view, s)
			}
		})
	}
}
