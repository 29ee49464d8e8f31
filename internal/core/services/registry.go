package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driving"
	"github.com/custodia-labs/heritage-atlas/internal/logger"
)

// Ensure Registry implements the interface.
var _ driving.SiteRegistry = (*Registry)(nil)

// Registry is the append-only set of loaded site records.
type Registry struct {
	mu      sync.RWMutex
	records []domain.SiteRecord
	byID    map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]int)}
}

// Ingest validates the table's rows and appends valid records.
// A table without coordinate columns is rejected as a whole; individual
// bad rows are skipped. Neither case is fatal.
func (r *Registry) Ingest(table driven.Table, category domain.Category) (domain.IngestReport, []domain.SiteRecord) {
	report := domain.IngestReport{Category: category, Rows: len(table.Rows)}
	if !category.IsValid() {
		report.Rejected = fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
		logger.Warn("Rejected batch: %v", report.Rejected)
		return report, nil
	}

	cols, err := resolveColumns(table.Header, category)
	if err != nil {
		report.Rejected = err
		logger.Warn("Rejected %s batch of %d rows: %v", category, len(table.Rows), err)
		return report, nil
	}

	built := make([]domain.SiteRecord, 0, len(table.Rows))
	seen := make(map[string]int)
	for i, row := range table.Rows {
		rec, err := buildRecord(table, row, cols, category)
		if err != nil {
			report.Skipped = append(report.Skipped, domain.RowIssue{Row: i + 1, Reason: err.Error()})
			logger.Warn("Skipped %s row %d: %v", category, i+1, err)
			continue
		}
		key := siteKey(rec)
		rec.ID = siteID(key, seen[key])
		seen[key]++
		built = append(built, rec)
	}

	report.Records = built
	added := r.append(built)
	report.Added = len(added)
	logger.Info("Ingested %s: %d added, %d skipped", category, report.Added, len(report.Skipped))
	return report, added
}

// Restore appends pre-validated records. Invalid or duplicate records
// are dropped.
func (r *Registry) Restore(records []domain.SiteRecord) []domain.SiteRecord {
	valid := make([]domain.SiteRecord, 0, len(records))
	for _, rec := range records {
		if !rec.Category.IsValid() || !rec.Coordinates.Valid() {
			logger.Warn("Dropped snapshot record %s: invalid category or coordinates", rec.ID)
			continue
		}
		valid = append(valid, rec)
	}
	return r.append(valid)
}

func (r *Registry) append(records []domain.SiteRecord) []domain.SiteRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	added := make([]domain.SiteRecord, 0, len(records))
	for _, rec := range records {
		if _, dup := r.byID[rec.ID]; dup {
			logger.Debug("Duplicate site %s ignored", rec.ID)
			continue
		}
		r.byID[rec.ID] = len(r.records)
		r.records = append(r.records, rec)
		added = append(added, rec)
	}
	return added
}

// All returns every record in ingestion order.
func (r *Registry) All() []domain.SiteRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.SiteRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Get returns the record with the given ID.
func (r *Registry) Get(id string) (domain.SiteRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[id]
	if !ok {
		return domain.SiteRecord{}, fmt.Errorf("site %s: %w", id, domain.ErrNotFound)
	}
	return r.records[i], nil
}

// FilterByText returns records whose name or description contains the
// query, ignoring case. No tokenisation or ranking is applied.
func (r *Registry) FilterByText(query string) []domain.SiteRecord {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.SiteRecord
	for _, rec := range r.records {
		if strings.Contains(strings.ToLower(rec.Name), needle) ||
			strings.Contains(strings.ToLower(rec.Description), needle) {
			out = append(out, rec)
		}
	}
	return out
}

// Count returns the number of records in a category.
func (r *Registry) Count(category domain.Category) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, rec := range r.records {
		if rec.Category == category {
			n++
		}
	}
	return n
}
