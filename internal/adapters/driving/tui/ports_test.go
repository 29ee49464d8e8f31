package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driving"
)

// MockSearchService implements driving.SearchService for testing.
type MockSearchService struct {
	SearchFunc func(ctx context.Context, query string) (domain.ResultSet, error)
}

func (m *MockSearchService) Search(ctx context.Context, query string) (domain.ResultSet, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return domain.ResultSet{Query: query}, nil
}

// MockPresenter implements driving.ResultPresenter for testing.
type MockPresenter struct {
	current   domain.ResultSet
	selection domain.Selection
	opened    []domain.HighlightID
}

func (m *MockPresenter) Present(set domain.ResultSet) []domain.ResultGroup {
	m.current = set
	return set.Groups()
}

func (m *MockPresenter) Current() domain.ResultSet { return m.current }

func (m *MockPresenter) Select(domain.SearchResult) (domain.Selection, error) {
	return m.selection, nil
}

func (m *MockPresenter) SelectIndex(int) (domain.Selection, error) {
	return m.selection, nil
}

func (m *MockPresenter) SelectAll([]domain.SearchResult) (domain.Selection, error) {
	return m.selection, nil
}

func (m *MockPresenter) OpenPopup(id domain.HighlightID) bool {
	m.opened = append(m.opened, id)
	return true
}

func (m *MockPresenter) Clear() {}

// MockLayers implements the parts of driving.LayerController the TUI reads.
type MockLayers struct {
	driving.LayerController
	status domain.LayerStatus
}

func (m *MockLayers) Status() domain.LayerStatus { return m.status }

func (m *MockLayers) Clusters(int, *domain.Bounds) []domain.Cluster { return nil }

func (m *MockLayers) CheckInvariant() error { return nil }

func TestPorts_Validate(t *testing.T) {
	full := func() *Ports {
		return &Ports{
			Search:    &MockSearchService{},
			Presenter: &MockPresenter{},
			Layers:    &MockLayers{},
		}
	}

	tests := []struct {
		name    string
		ports   func() *Ports
		wantErr error
	}{
		{"all required ports", full, nil},
		{"nil ports", func() *Ports { return nil }, ErrInvalidPorts},
		{"missing search", func() *Ports { p := full(); p.Search = nil; return p }, ErrMissingSearchService},
		{"missing presenter", func() *Ports { p := full(); p.Presenter = nil; return p }, ErrMissingPresenter},
		{"missing layers", func() *Ports { p := full(); p.Layers = nil; return p }, ErrMissingLayerController},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports().Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestErrors_AreDistinct(t *testing.T) {
	errs := []error{
		ErrMissingSearchService,
		ErrMissingPresenter,
		ErrMissingLayerController,
		ErrInvalidPorts,
	}

	seen := make(map[string]bool)
	for _, err := range errs {
		msg := err.Error()
		assert.False(t, seen[msg], "duplicate error message: %s", msg)
		assert.Contains(t, msg, "tui:")
		seen[msg] = true
	}
}
