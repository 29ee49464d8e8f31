package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Coordinate ranges.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// Coordinates is a WGS84 latitude/longitude pair in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NewCoordinates validates and returns a coordinate pair.
func NewCoordinates(lat, lng float64) (Coordinates, error) {
	c := Coordinates{Lat: lat, Lng: lng}
	if !c.Valid() {
		return Coordinates{}, fmt.Errorf("%w: %g, %g", ErrInvalidCoordinates, lat, lng)
	}
	return c, nil
}

// Valid reports whether both components are finite and in range.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= MinLatitude && c.Lat <= MaxLatitude &&
		c.Lng >= MinLongitude && c.Lng <= MaxLongitude
}

// String formats the pair to six decimal places, e.g. "12.971600, 77.594600".
func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f, %.6f", c.Lat, c.Lng)
}

// Bounds is a latitude/longitude rectangle. The zero value is empty.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
	set   bool
}

// NewBounds returns bounds spanning the given corners in any order.
func NewBounds(a, b Coordinates) Bounds {
	var bb Bounds
	bb.Extend(a)
	bb.Extend(b)
	return bb
}

// BoundsOf returns the smallest bounds containing every point.
func BoundsOf(points ...Coordinates) Bounds {
	var b Bounds
	for _, p := range points {
		b.Extend(p)
	}
	return b
}

// IsEmpty reports whether no point has been added.
func (b Bounds) IsEmpty() bool {
	return !b.set
}

// Extend grows the bounds to contain p.
func (b *Bounds) Extend(p Coordinates) {
	if !b.set {
		*b = Bounds{South: p.Lat, North: p.Lat, West: p.Lng, East: p.Lng, set: true}
		return
	}
	b.South = math.Min(b.South, p.Lat)
	b.North = math.Max(b.North, p.Lat)
	b.West = math.Min(b.West, p.Lng)
	b.East = math.Max(b.East, p.Lng)
}

// Contains reports whether p lies inside the bounds, edges included.
func (b Bounds) Contains(p Coordinates) bool {
	if !b.set {
		return false
	}
	return p.Lat >= b.South && p.Lat <= b.North && p.Lng >= b.West && p.Lng <= b.East
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() Coordinates {
	return Coordinates{Lat: (b.South + b.North) / 2, Lng: (b.West + b.East) / 2}
}

// IsPoint reports whether the bounds collapse to a single coordinate.
func (b Bounds) IsPoint() bool {
	return b.set && b.South == b.North && b.West == b.East
}

// String formats the bounds as "south,west,north,east".
func (b Bounds) String() string {
	if !b.set {
		return "empty"
	}
	return fmt.Sprintf("%.6f,%.6f,%.6f,%.6f", b.South, b.West, b.North, b.East)
}

// ParseBounds parses "south,west,north,east" in degrees.
func ParseBounds(s string) (Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Bounds{}, fmt.Errorf("%w: bounds need south,west,north,east", ErrInvalidInput)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Bounds{}, fmt.Errorf("%w: bounds value %q", ErrInvalidInput, p)
		}
		v[i] = f
	}
	sw, ne := Coordinates{Lat: v[0], Lng: v[1]}, Coordinates{Lat: v[2], Lng: v[3]}
	if !sw.Valid() || !ne.Valid() {
		return Bounds{}, fmt.Errorf("%w: %s", ErrInvalidCoordinates, s)
	}
	return NewBounds(sw, ne), nil
}
