package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driving"
	"github.com/custodia-labs/heritage-atlas/internal/logger"
)

// Ensure Loader implements the interface.
var _ driving.Loader = (*Loader)(nil)

// Loader feeds category tables into the registry and layer controller.
type Loader struct {
	source   driven.SiteSource
	registry driving.SiteRegistry
	layers   driving.LayerController
}

// NewLoader creates a loader. source may be nil when only Restore is used.
func NewLoader(source driven.SiteSource, registry driving.SiteRegistry, layers driving.LayerController) *Loader {
	return &Loader{source: source, registry: registry, layers: layers}
}

// Fetch retrieves one category table.
func (l *Loader) Fetch(ctx context.Context, category domain.Category) (driven.Table, error) {
	if l.source == nil {
		return driven.Table{}, fmt.Errorf("fetch %s: %w", category, domain.ErrSourceUnavailable)
	}
	t, err := l.source.Fetch(ctx, category)
	if err != nil {
		return driven.Table{}, fmt.Errorf("fetch %s: %w", category, err)
	}
	logger.Debug("Fetched %s: %d rows", category, len(t.Rows))
	return t, nil
}

// Apply ingests a table and routes the new markers.
func (l *Loader) Apply(category domain.Category, table driven.Table) domain.IngestReport {
	report, added := l.registry.Ingest(table, category)
	l.route(category, added)
	return report
}

func (l *Loader) route(category domain.Category, records []domain.SiteRecord) {
	if len(records) == 0 {
		return
	}
	markers := make([]domain.Marker, len(records))
	for i, rec := range records {
		markers[i] = rec.Marker()
	}
	l.layers.AddMarkers(category, markers)
}

// LoadCategory fetches and applies one category. A fetch failure leaves
// the category empty.
func (l *Loader) LoadCategory(ctx context.Context, category domain.Category) (domain.IngestReport, error) {
	t, err := l.Fetch(ctx, category)
	if err != nil {
		logger.Warn("Loading %s failed: %v", category, err)
		return domain.IngestReport{Category: category, Rejected: err}, err
	}
	return l.Apply(category, t), nil
}

type fetchResult struct {
	category domain.Category
	table    driven.Table
	err      error
}

// LoadAll fetches every category concurrently. Each table is applied on
// the calling goroutine as soon as it arrives; categories do not wait
// for each other. Reports are returned in arrival order.
func (l *Loader) LoadAll(ctx context.Context, onLoaded func(domain.IngestReport)) []domain.IngestReport {
	logger.Section("Loading Sites")
	cats := domain.Categories()
	results := make(chan fetchResult, len(cats))

	var g errgroup.Group
	for _, c := range cats {
		g.Go(func() error {
			t, err := l.Fetch(ctx, c)
			results <- fetchResult{category: c, table: t, err: err}
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(results)
	}()

	reports := make([]domain.IngestReport, 0, len(cats))
	for res := range results {
		var report domain.IngestReport
		if res.err != nil {
			logger.Warn("Loading %s failed: %v", res.category, res.err)
			report = domain.IngestReport{Category: res.category, Rejected: res.err}
		} else {
			report = l.Apply(res.category, res.table)
		}
		reports = append(reports, report)
		if onLoaded != nil {
			onLoaded(report)
		}
	}
	return reports
}

// Restore loads every category from a snapshot store.
func (l *Loader) Restore(ctx context.Context, store driven.SiteStore) ([]domain.IngestReport, error) {
	reports := make([]domain.IngestReport, 0, 3)
	for _, c := range domain.Categories() {
		records, err := store.ListByCategory(ctx, c)
		if err != nil {
			return reports, fmt.Errorf("restore %s: %w", c, err)
		}
		added := l.registry.Restore(records)
		l.route(c, added)
		reports = append(reports, domain.IngestReport{Category: c, Rows: len(records), Added: len(added)})
		logger.Debug("Restored %d %s records", len(added), c)
	}
	return reports, nil
}
