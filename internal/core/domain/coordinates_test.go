package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCoordinates_Valid tests range and finiteness checks
func TestCoordinates_Valid(t *testing.T) {
	tests := []struct {
		name     string
		c        Coordinates
		expected bool
	}{
		{"bengaluru", Coordinates{12.9716, 77.5946}, true},
		{"north pole", Coordinates{90, 0}, true},
		{"antimeridian", Coordinates{0, -180}, true},
		{"latitude too high", Coordinates{95, 0}, false},
		{"longitude too low", Coordinates{0, -180.5}, false},
		{"nan", Coordinates{math.NaN(), 0}, false},
		{"inf", Coordinates{0, math.Inf(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.c.Valid())
		})
	}
}

// TestNewCoordinates tests construction errors
func TestNewCoordinates(t *testing.T) {
	c, err := NewCoordinates(12.9, 77.6)
	require.NoError(t, err)
	assert.Equal(t, Coordinates{Lat: 12.9, Lng: 77.6}, c)

	_, err = NewCoordinates(200, 77.59)
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
}

// TestCoordinates_String tests six decimal formatting
func TestCoordinates_String(t *testing.T) {
	assert.Equal(t, "12.971600, 77.594600", Coordinates{12.9716, 77.5946}.String())
}

// TestBounds tests extension, containment and center
func TestBounds(t *testing.T) {
	var b Bounds
	assert.True(t, b.IsEmpty())
	assert.False(t, b.Contains(Coordinates{}))

	b.Extend(Coordinates{12, 77})
	assert.True(t, b.IsPoint())

	b.Extend(Coordinates{14, 75})
	assert.False(t, b.IsEmpty())
	assert.False(t, b.IsPoint())
	assert.Equal(t, 12.0, b.South)
	assert.Equal(t, 14.0, b.North)
	assert.Equal(t, 75.0, b.West)
	assert.Equal(t, 77.0, b.East)
	assert.Equal(t, Coordinates{13, 76}, b.Center())
	assert.True(t, b.Contains(Coordinates{13, 76}))
	assert.False(t, b.Contains(Coordinates{15, 76}))
}

// TestBoundsOf tests bounds from a point list
func TestBoundsOf(t *testing.T) {
	b := BoundsOf(Coordinates{1, 2}, Coordinates{-1, 5}, Coordinates{0, 3})
	assert.Equal(t, NewBounds(Coordinates{-1, 2}, Coordinates{1, 5}), b)
	assert.True(t, BoundsOf().IsEmpty())
}

func TestParseBounds(t *testing.T) {
	b, err := ParseBounds("12, 75, 14, 79")
	require.NoError(t, err)
	assert.True(t, b.Contains(Coordinates{Lat: 13, Lng: 78}))
	assert.False(t, b.Contains(Coordinates{Lat: 15, Lng: 78}))

	_, err = ParseBounds("12,75,north,79")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ParseBounds("12,75,14")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ParseBounds("12,75,95,79")
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
}
