package driven

import (
	"context"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
)

// Table is a tabular payload: a header row and data rows. Rows may be
// shorter than the header; missing cells read as empty.
type Table struct {
	Header []string
	Rows   [][]string
}

// Cell returns row[col] or "" when out of range.
func (t Table) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// SiteSource fetches the tabular export of one category.
// Fetches for different categories are independent.
type SiteSource interface {
	// Fetch retrieves the category's table.
	Fetch(ctx context.Context, category domain.Category) (Table, error)
}

// SiteStore persists the latest import of each category.
type SiteStore interface {
	// Replace swaps the stored records of category for records in one
	// step. Every record must belong to category.
	Replace(ctx context.Context, category domain.Category, records []domain.SiteRecord) error

	// List returns every record in insertion order.
	List(ctx context.Context) ([]domain.SiteRecord, error)

	// ListByCategory returns the records of one category in insertion order.
	ListByCategory(ctx context.Context, category domain.Category) ([]domain.SiteRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}

// ImportLog records import runs.
type ImportLog interface {
	// RecordImport appends the outcome of importing one category from source.
	RecordImport(ctx context.Context, source string, report domain.IngestReport) error

	// Imports returns up to limit entries, newest first.
	Imports(ctx context.Context, limit int) ([]domain.ImportEntry, error)
}
