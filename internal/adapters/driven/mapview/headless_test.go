package mapview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
)

func TestHeadless_Layers(t *testing.T) {
	m := New(1024, 768, 18)
	temples := domain.RawLayer(domain.CategoryTemple)

	m.AttachLayer(temples)
	m.AttachLayer(temples)
	m.AttachLayer(domain.ClusterLayer())
	assert.True(t, m.HasLayer(temples))
	assert.Len(t, m.Layers(), 2)

	m.DetachLayer(temples)
	m.DetachLayer(temples)
	assert.False(t, m.HasLayer(temples))
	assert.Equal(t, []domain.LayerID{domain.ClusterLayer()}, m.Layers())
}

func TestHeadless_HighlightIDsStartAtOne(t *testing.T) {
	m := New(1024, 768, 18)

	first := m.AddHighlight(domain.Highlight{Label: "a"})
	second := m.AddHighlight(domain.Highlight{Label: "b"})
	assert.Equal(t, domain.HighlightID(1), first)
	assert.Equal(t, domain.HighlightID(2), second)

	hs := m.Highlights()
	require.Len(t, hs, 2)
	assert.Equal(t, "a", hs[0].Label)
	assert.Equal(t, first, hs[0].ID)
}

func TestHeadless_Popup(t *testing.T) {
	m := New(1024, 768, 18)
	id := m.AddHighlight(domain.Highlight{Label: "a", Popup: "Site A"})

	assert.True(t, m.OpenPopup(id))
	h, ok := m.OpenedPopup()
	require.True(t, ok)
	assert.Equal(t, "Site A", h.Popup)

	m.RemoveHighlight(id)
	assert.False(t, m.OpenPopup(id))
	_, ok = m.OpenedPopup()
	assert.False(t, ok)
}

func TestHeadless_FitBounds(t *testing.T) {
	m := New(1024, 768, 16)
	m.SetView(domain.Coordinates{Lat: 1, Lng: 1}, 3)

	assert.Equal(t, 3, m.FitBounds(domain.Bounds{}).Zoom)

	b := domain.BoundsOf(
		domain.Coordinates{Lat: 12.0, Lng: 77.0},
		domain.Coordinates{Lat: 13.0, Lng: 78.0},
	)
	vp := m.FitBounds(b)
	assert.Equal(t, b.Center(), vp.Center)
	assert.Equal(t, domain.FitZoom(b, 1024, 768, 16), vp.Zoom)
	assert.Equal(t, vp, m.Viewport())

	point := domain.BoundsOf(domain.Coordinates{Lat: 12, Lng: 77})
	assert.Equal(t, 16, m.FitBounds(point).Zoom)
}

func TestHeadless_Location(t *testing.T) {
	m := New(1024, 768, 18)
	_, ok := m.Location()
	assert.False(t, ok)

	m.SetLocation(domain.LocationMarker{Label: "first"})
	m.SetLocation(domain.LocationMarker{Label: "second"})
	loc, ok := m.Location()
	require.True(t, ok)
	assert.Equal(t, "second", loc.Label)
}
