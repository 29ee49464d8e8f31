package domain

import (
	"strings"
	"time"
)

// SiteRecord is one heritage entity loaded from a tabular export.
// Records are immutable after ingestion.
type SiteRecord struct {
	// ID is stable across loads of the same source row.
	ID string `json:"id"`

	// Category is fixed at creation.
	Category Category `json:"category"`

	// Name is the display label; empty when the source has no name column.
	Name string `json:"name"`

	// Description is optional free text.
	Description string `json:"description,omitempty"`

	// Coordinates is always valid for a stored record.
	Coordinates Coordinates `json:"coordinates"`

	// Attributes holds every key from Category.AttributeFields.
	// Missing source columns yield empty strings, never absent keys.
	Attributes map[string]string `json:"attributes"`
}

// Attribute returns the attribute value or "" when unset.
func (s SiteRecord) Attribute(key string) string {
	return s.Attributes[key]
}

// DisplayName returns the name, falling back to the category label
// for unnamed records.
func (s SiteRecord) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return "Unnamed " + strings.TrimSuffix(s.Category.Label(), "s")
}

// Marker returns the map handle for the record.
func (s SiteRecord) Marker() Marker {
	return Marker{SiteID: s.ID, Category: s.Category, Coordinates: s.Coordinates}
}

// PopupContent returns the plain-text lines shown in the site's popup:
// the name, each non-empty attribute in field order, then the description.
func (s SiteRecord) PopupContent() string {
	lines := []string{s.DisplayName()}
	for _, key := range s.Category.AttributeFields() {
		if v := s.Attributes[key]; v != "" {
			lines = append(lines, AttributeLabel(key)+": "+v)
		}
	}
	if s.Description != "" {
		lines = append(lines, s.Description)
	}
	return strings.Join(lines, "\n")
}

// IngestReport summarises one category batch.
type IngestReport struct {
	Category Category   `json:"category"`
	Rows     int        `json:"rows"`
	Added    int        `json:"added"`
	Skipped  []RowIssue `json:"skipped,omitempty"`

	// Records holds every valid record of the batch, including ones the
	// registry already had. It is what the snapshot keeps for the category.
	Records []SiteRecord `json:"-"`

	// Rejected is set when the whole batch was refused (e.g. ErrMissingColumns).
	Rejected error `json:"-"`
}

// RowIssue describes a skipped row. Row is 1-based and excludes the header.
type RowIssue struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportEntry is one recorded import run.
type ImportEntry struct {
	Category   Category  `json:"category"`
	Source     string    `json:"source"`
	Rows       int       `json:"rows"`
	Added      int       `json:"added"`
	Skipped    int       `json:"skipped"`
	Rejected   string    `json:"rejected,omitempty"`
	ImportedAt time.Time `json:"importedAt"`
}
