package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCoordinates indicates a latitude/longitude pair outside the valid range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")

	// ErrUnknownCategory indicates a category name that is not one of the heritage categories.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrMissingColumns indicates a tabular batch lacks the required coordinate columns.
	// The whole batch for that category is rejected.
	ErrMissingColumns = errors.New("missing required columns")

	// ErrLookupUnavailable indicates the place-lookup service is not configured
	// or could not be reached. Search degrades to local matches.
	ErrLookupUnavailable = errors.New("place lookup unavailable")

	// ErrNoResult indicates a selection was requested without a matching result.
	ErrNoResult = errors.New("no such result")

	// ErrSourceUnavailable indicates the tabular data source could not be read.
	ErrSourceUnavailable = errors.New("site source unavailable")

	// ErrConfigNotFound indicates a configuration key is not set.
	ErrConfigNotFound = errors.New("config key not found")
)
