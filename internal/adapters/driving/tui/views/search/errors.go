package search

import "errors"

// Error definitions for the search view.
var (
	// ErrNoSearchService indicates that no search service was provided.
	ErrNoSearchService = errors.New("search service is required")

	// ErrNoPresenter indicates that no result presenter was provided.
	ErrNoPresenter = errors.New("result presenter is required")
)
