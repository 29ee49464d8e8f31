package driving

import (
	"context"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
)

// Loader fetches category tables and feeds them into the registry and
// layer controller.
type Loader interface {
	// Fetch retrieves a category table without touching core state.
	// Safe to call from any goroutine.
	Fetch(ctx context.Context, category domain.Category) (driven.Table, error)

	// Apply ingests a fetched table and routes its markers. Must run on
	// the goroutine that owns the layer controller.
	Apply(category domain.Category, table driven.Table) domain.IngestReport

	// LoadCategory fetches and applies one category.
	LoadCategory(ctx context.Context, category domain.Category) (domain.IngestReport, error)

	// LoadAll fetches every category concurrently and applies each on the
	// calling goroutine as it arrives. onLoaded, if set, is called after
	// each category is applied.
	LoadAll(ctx context.Context, onLoaded func(domain.IngestReport)) []domain.IngestReport

	// Restore loads records from a snapshot instead of fetching.
	Restore(ctx context.Context, store driven.SiteStore) ([]domain.IngestReport, error)
}
