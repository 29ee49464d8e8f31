package driven

import (
	"context"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
)

// Geolocator acquires the device position.
// Failures should be *domain.LocateError so the kind is preserved.
type Geolocator interface {
	Locate(ctx context.Context, req domain.LocateRequest) (domain.Position, error)
}
