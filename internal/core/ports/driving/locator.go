package driving

import (
	"context"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
)

// Locator produces the "current location" marker.
type Locator interface {
	// Locate acquires a fix within the configured timeout. Failures are
	// always *domain.LocateError.
	Locate(ctx context.Context) (domain.LocationMarker, error)
}
