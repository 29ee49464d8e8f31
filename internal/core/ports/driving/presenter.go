package driving

import "github.com/custodia-labs/heritage-atlas/internal/core/domain"

// ResultPresenter renders result sets and resolves selections into
// viewport changes and highlight markers.
type ResultPresenter interface {
	// Present replaces the current result set and returns its groups.
	// An empty set clears existing highlights.
	Present(set domain.ResultSet) []domain.ResultGroup

	// Current returns the presented result set.
	Current() domain.ResultSet

	// Select highlights one result and moves the viewport to it.
	Select(result domain.SearchResult) (domain.Selection, error)

	// SelectIndex selects the result at index in presentation order.
	SelectIndex(index int) (domain.Selection, error)

	// SelectAll highlights several results and fits the viewport to them.
	SelectAll(results []domain.SearchResult) (domain.Selection, error)

	// OpenPopup opens a scheduled popup. Returns false if superseded.
	OpenPopup(id domain.HighlightID) bool

	// Clear dismisses the results panel and removes highlights.
	Clear()
}
