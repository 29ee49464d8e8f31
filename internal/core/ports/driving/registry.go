package driving

import (
	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
)

// SiteRegistry holds every loaded site record. It is append-only.
type SiteRegistry interface {
	// Ingest validates a category's table and appends the valid rows.
	// Returns the report and the newly added records.
	Ingest(table driven.Table, category domain.Category) (domain.IngestReport, []domain.SiteRecord)

	// Restore appends already-validated records, e.g. from a snapshot.
	Restore(records []domain.SiteRecord) []domain.SiteRecord

	// All returns every record in ingestion order.
	All() []domain.SiteRecord

	// Get returns a record by ID.
	Get(id string) (domain.SiteRecord, error)

	// FilterByText returns records whose name or description contains
	// query, case-insensitively, in ingestion order.
	FilterByText(query string) []domain.SiteRecord

	// Count returns the number of records in a category.
	Count(category domain.Category) int
}
