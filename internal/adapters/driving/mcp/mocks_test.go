package mcp

import (
	"context"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	set domain.ResultSet
	err error
}

func (m *mockSearchService) Search(_ context.Context, query string) (domain.ResultSet, error) {
	set := m.set
	set.Query = query
	return set, m.err
}

// heldSearch blocks searches for held until release is closed.
type heldSearch struct {
	held    string
	started chan struct{}
	release chan struct{}
}

func (h *heldSearch) Search(_ context.Context, query string) (domain.ResultSet, error) {
	if query == h.held {
		close(h.started)
		<-h.release
	}
	return domain.ResultSet{Query: query}, nil
}

// mockLayers is a mock implementation of driving.LayerController.
type mockLayers struct {
	clusters   []domain.Cluster
	expansion  domain.ClusterExpansion
	expandErr  error
	visible    map[domain.Category]bool
	clustering bool
	lastZoom   int
	lastBounds *domain.Bounds
}

func newMockLayers() *mockLayers {
	return &mockLayers{visible: map[domain.Category]bool{
		domain.CategoryInscription: true,
		domain.CategoryHerostone:   true,
		domain.CategoryTemple:      true,
	}, clustering: true}
}

func (m *mockLayers) AddMarkers(domain.Category, []domain.Marker) {}

func (m *mockLayers) SetCategoryVisible(c domain.Category, visible bool) { m.visible[c] = visible }

func (m *mockLayers) EnsureVisible(c domain.Category) { m.visible[c] = true }

func (m *mockLayers) SetClusteringEnabled(enabled bool) { m.clustering = enabled }

func (m *mockLayers) Visible(c domain.Category) bool { return m.visible[c] }

func (m *mockLayers) ClusteringEnabled() bool { return m.clustering }

func (m *mockLayers) Placement(string) domain.Placement { return domain.PlacementHidden }

func (m *mockLayers) Clusters(zoom int, bounds *domain.Bounds) []domain.Cluster {
	m.lastZoom, m.lastBounds = zoom, bounds
	return m.clusters
}

func (m *mockLayers) ExpandCluster(string, int) (domain.ClusterExpansion, error) {
	return m.expansion, m.expandErr
}

func (m *mockLayers) Status() domain.LayerStatus {
	status := domain.LayerStatus{ClusteringEnabled: m.clustering}
	for _, c := range domain.Categories() {
		status.Categories = append(status.Categories, domain.LayerState{
			Category: c, Label: c.Label(), Visible: m.visible[c],
		})
	}
	return status
}

func (m *mockLayers) CheckInvariant() error { return nil }

// mockPresenter is a mock implementation of driving.ResultPresenter.
type mockPresenter struct {
	current   domain.ResultSet
	selection domain.Selection
	err       error
	opened    []domain.HighlightID
	selectAll int
}

func (m *mockPresenter) Present(set domain.ResultSet) []domain.ResultGroup {
	m.current = set
	return set.Groups()
}

func (m *mockPresenter) Current() domain.ResultSet { return m.current }

func (m *mockPresenter) Select(domain.SearchResult) (domain.Selection, error) {
	return m.selection, m.err
}

func (m *mockPresenter) SelectIndex(int) (domain.Selection, error) {
	return m.selection, m.err
}

func (m *mockPresenter) SelectAll(results []domain.SearchResult) (domain.Selection, error) {
	m.selectAll = len(results)
	return m.selection, m.err
}

func (m *mockPresenter) OpenPopup(id domain.HighlightID) bool {
	m.opened = append(m.opened, id)
	return true
}

func (m *mockPresenter) Clear() {}

// mockRegistry is a mock implementation of driving.SiteRegistry.
type mockRegistry struct {
	records map[string]domain.SiteRecord
}

func (m *mockRegistry) Ingest(driven.Table, domain.Category) (domain.IngestReport, []domain.SiteRecord) {
	return domain.IngestReport{}, nil
}

func (m *mockRegistry) Restore([]domain.SiteRecord) []domain.SiteRecord { return nil }

func (m *mockRegistry) All() []domain.SiteRecord { return nil }

func (m *mockRegistry) Get(id string) (domain.SiteRecord, error) {
	rec, ok := m.records[id]
	if !ok {
		return domain.SiteRecord{}, domain.ErrNotFound
	}
	return rec, nil
}

func (m *mockRegistry) FilterByText(string) []domain.SiteRecord { return nil }

func (m *mockRegistry) Count(domain.Category) int { return len(m.records) }

// mockLocator is a mock implementation of driving.Locator.
type mockLocator struct {
	marker domain.LocationMarker
	err    error
}

func (m *mockLocator) Locate(context.Context) (domain.LocationMarker, error) {
	return m.marker, m.err
}
