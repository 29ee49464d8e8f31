package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are distinct
func TestErrors_Existence(t *testing.T) {
	all := []error{
		ErrNotFound, ErrInvalidInput, ErrInvalidCoordinates, ErrUnknownCategory,
		ErrMissingColumns, ErrLookupUnavailable, ErrNoResult, ErrSourceUnavailable,
		ErrConfigNotFound,
	}
	for i, err := range all {
		assert.NotEmpty(t, err.Error())
		for j, other := range all {
			if i != j {
				assert.False(t, errors.Is(err, other), "%v should not match %v", err, other)
			}
		}
	}
}
