package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
)

// Ensure SiteStore implements the interface.
var _ driven.SiteStore = (*SiteStore)(nil)

// SiteStore is an in-memory implementation of driven.SiteStore.
type SiteStore struct {
	mu      sync.RWMutex
	records []domain.SiteRecord
	ids     map[string]bool
}

// NewSiteStore creates an empty site store.
func NewSiteStore() *SiteStore {
	return &SiteStore{ids: make(map[string]bool)}
}

// Replace swaps a category's records. Duplicate IDs keep the first.
func (s *SiteStore) Replace(_ context.Context, category domain.Category, records []domain.SiteRecord) error {
	for _, rec := range records {
		if rec.Category != category {
			return fmt.Errorf("%w: site %s is %s, not %s", domain.ErrInvalidInput, rec.ID, rec.Category, category)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.records[:0]
	for _, rec := range s.records {
		if rec.Category == category {
			delete(s.ids, rec.ID)
			continue
		}
		kept = append(kept, rec)
	}
	s.records = kept
	for _, rec := range records {
		if s.ids[rec.ID] {
			continue
		}
		s.ids[rec.ID] = true
		s.records = append(s.records, copyRecord(rec))
	}
	return nil
}

// List returns every record in insertion order.
func (s *SiteStore) List(_ context.Context) ([]domain.SiteRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SiteRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, copyRecord(rec))
	}
	return out, nil
}

// ListByCategory returns one category's records in insertion order.
func (s *SiteStore) ListByCategory(_ context.Context, category domain.Category) ([]domain.SiteRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.SiteRecord
	for _, rec := range s.records {
		if rec.Category == category {
			out = append(out, copyRecord(rec))
		}
	}
	return out, nil
}

// Count returns the number of records.
func (s *SiteStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Close is a no-op.
func (s *SiteStore) Close() error {
	return nil
}

// copyRecord prevents callers from mutating stored attributes.
func copyRecord(rec domain.SiteRecord) domain.SiteRecord {
	attrs := make(map[string]string, len(rec.Attributes))
	for k, v := range rec.Attributes {
		attrs[k] = v
	}
	rec.Attributes = attrs
	return rec
}
