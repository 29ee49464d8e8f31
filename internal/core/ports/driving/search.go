package driving

import (
	"context"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// Search combines coordinate parsing, local site matches and remote
	// place lookup into one categorised result set. A failed remote lookup
	// is not an error.
	Search(ctx context.Context, query string) (domain.ResultSet, error)
}
