package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockLookup implements driven.PlaceLookup for testing.
type mockLookup struct {
	mu     sync.Mutex
	places []domain.Place
	err    error
	calls  int
	limit  int
	query  string
}

func (m *mockLookup) Lookup(_ context.Context, query string, limit int) ([]domain.Place, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.limit = limit
	m.query = query
	if m.err != nil {
		return nil, m.err
	}
	return m.places, nil
}

func (m *mockLookup) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// countingRegistry wraps a Registry and counts text filters.
type countingRegistry struct {
	*Registry
	filters int
}

func (r *countingRegistry) FilterByText(query string) []domain.SiteRecord {
	r.filters++
	return r.Registry.FilterByText(query)
}

// mockGeolocator implements driven.Geolocator for testing.
type mockGeolocator struct {
	pos   domain.Position
	err   error
	block bool
}

func (m *mockGeolocator) Locate(ctx context.Context, _ domain.LocateRequest) (domain.Position, error) {
	if m.block {
		<-ctx.Done()
		return domain.Position{}, ctx.Err()
	}
	return m.pos, m.err
}

// mockSource implements driven.SiteSource for testing.
type mockSource struct {
	mu     sync.Mutex
	tables map[domain.Category]driven.Table
	errs   map[domain.Category]error
	calls  []domain.Category
}

func (m *mockSource) Fetch(_ context.Context, category domain.Category) (driven.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, category)
	if err := m.errs[category]; err != nil {
		return driven.Table{}, err
	}
	return m.tables[category], nil
}

// seedRegistry returns a registry holding one site per category.
func seedRegistry() *Registry {
	r := NewRegistry()
	r.Restore([]domain.SiteRecord{
		{
			ID: "t1", Category: domain.CategoryTemple, Name: "Someshwara Temple",
			Coordinates: domain.Coordinates{Lat: 13.1367, Lng: 78.1292},
			Attributes:  map[string]string{domain.AttrVillage: "Kolar", domain.AttrMainDeity: "Shiva"},
		},
		{
			ID: "i1", Category: domain.CategoryInscription, Name: "Kolar Grant",
			Description: "Records a gift to the Someshwara shrine",
			Coordinates: domain.Coordinates{Lat: 13.14, Lng: 78.13},
		},
		{
			ID: "h1", Category: domain.CategoryHerostone, Name: "Veeragallu",
			Coordinates: domain.Coordinates{Lat: 13.21, Lng: 75.99},
		},
	})
	return r
}
