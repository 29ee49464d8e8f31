package list

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/heritage-atlas/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
)

func sampleGroups() []domain.ResultGroup {
	set := domain.ResultSet{Results: []domain.SearchResult{
		{Kind: domain.ResultPlace, Label: "Hampi", Coordinates: domain.Coordinates{Lat: 15.335, Lng: 76.46}},
		{Kind: domain.ResultHeritageSite, Category: domain.CategoryTemple, Label: "Virupaksha Temple", SiteID: "t1"},
		{Kind: domain.ResultHeritageSite, Category: domain.CategoryInscription, Label: "Hampi copper plate", SiteID: "i1"},
	}}
	return set.Groups()
}

func TestNewResultList(t *testing.T) {
	list := NewResultList(styles.DefaultStyles())

	require.NotNil(t, list)
	assert.Equal(t, 0, list.Selected())
	assert.True(t, list.IsEmpty())
	assert.Nil(t, list.SelectedResult())
}

func TestNewResultList_NilStyles(t *testing.T) {
	list := NewResultList(nil)

	require.NotNil(t, list)
	assert.NotNil(t, list.styles)
	assert.Nil(t, list.Init())
}

func TestResultList_SetGroups_FlattensInPresentationOrder(t *testing.T) {
	list := NewResultList(nil)

	list.SetGroups(sampleGroups())

	require.Equal(t, 3, list.Count())
	labels := make([]string, 0, 3)
	for _, r := range list.Results() {
		labels = append(labels, r.Label)
	}
	assert.Equal(t, []string{"Hampi copper plate", "Virupaksha Temple", "Hampi"}, labels)
	assert.Len(t, list.Groups(), 3)
}

func TestResultList_SetGroups_ResetsCursor(t *testing.T) {
	list := NewResultList(nil)
	list.SetGroups(sampleGroups())
	list.SetSelected(2)

	list.SetGroups(sampleGroups())

	assert.Equal(t, 0, list.Selected())
}

func TestResultList_Navigation(t *testing.T) {
	list := NewResultList(nil)
	list.SetGroups(sampleGroups())

	list.MoveUp()
	assert.Equal(t, 0, list.Selected())

	list.Update(tea.KeyMsg{Type: tea.KeyDown})
	list.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	list.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 2, list.Selected())

	list.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 1, list.Selected())
	require.NotNil(t, list.SelectedResult())
	assert.Equal(t, "t1", list.SelectedResult().SiteID)
}

func TestResultList_SetSelected_OutOfRange(t *testing.T) {
	list := NewResultList(nil)
	list.SetGroups(sampleGroups())

	list.SetSelected(7)
	list.SetSelected(-1)

	assert.Equal(t, 0, list.Selected())
}

func TestResultList_View_Empty(t *testing.T) {
	list := NewResultList(nil)

	assert.Contains(t, list.View(), "No results")
}

func TestResultList_View_ShowsGroupHeadings(t *testing.T) {
	list := NewResultList(nil)
	list.SetDimensions(100, 20)
	list.SetGroups(sampleGroups())

	view := list.View()

	assert.Contains(t, view, "Results (3)")
	assert.Contains(t, view, "Inscriptions (1)")
	assert.Contains(t, view, "Temples (1)")
	assert.Contains(t, view, "Places (1)")
	assert.Contains(t, view, "Virupaksha Temple")
}

func TestResultList_View_TruncatesLongLabels(t *testing.T) {
	list := NewResultList(nil)
	list.SetDimensions(40, 20)
	list.SetGroups([]domain.ResultGroup{{
		Kind:    domain.ResultPlace,
		Title:   "Places",
		Results: []domain.SearchResult{{Kind: domain.ResultPlace, Label: "Sri Channakeshava Temple Complex, Belur"}},
	}})

	view := list.View()

	assert.Contains(t, view, "...")
	assert.NotContains(t, view, "Complex, Belur")
}
