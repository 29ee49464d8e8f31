package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
)

var coordSeparator = regexp.MustCompile(`[,\s]+`)

// ParseCoordinates parses "lat, lng" (comma and/or whitespace separated).
// Both tokens must be finite numbers in range.
func ParseCoordinates(s string) (domain.Coordinates, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.Coordinates{}, false
	}
	parts := coordSeparator.Split(s, -1)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return domain.Coordinates{}, false
	}
	lat, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return domain.Coordinates{}, false
	}
	lng, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return domain.Coordinates{}, false
	}
	c := domain.Coordinates{Lat: lat, Lng: lng}
	return c, c.Valid()
}
