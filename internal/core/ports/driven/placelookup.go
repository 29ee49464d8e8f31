package driven

import (
	"context"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
)

// PlaceLookup is the remote place-name search collaborator.
// Results are in the service's rank order. It is best-effort: callers
// treat any error as "no places".
type PlaceLookup interface {
	Lookup(ctx context.Context, query string, limit int) ([]domain.Place, error)
}

// PlaceCache stores place-lookup responses by key.
type PlaceCache interface {
	// Get returns the cached places and true on a hit.
	Get(ctx context.Context, key string) ([]domain.Place, bool)

	// Set stores places under key.
	Set(ctx context.Context, key string, places []domain.Place) error
}
