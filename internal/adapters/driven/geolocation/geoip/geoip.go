// Package geoip locates the device from its public IP address using a
// MaxMind GeoLite2/GeoIP2 City database.
package geoip

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
	"github.com/custodia-labs/heritage-atlas/internal/logger"
)

// Ensure Locator implements the interface.
var _ driven.Geolocator = (*Locator)(nil)

// cityReader is the subset of *geoip2.Reader used here.
type cityReader interface {
	City(ip net.IP) (*geoip2.City, error)
	Close() error
}

// Locator resolves a fixed address against a City database.
type Locator struct {
	reader cityReader
	ip     net.IP
}

// Open loads the database at path. ip is the address to resolve.
func Open(path, ip string) (*Locator, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return nil, fmt.Errorf("geoip: invalid address %q", ip)
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geoip: open %s: %w", path, err)
	}
	logger.Debug("geoip database loaded from %s", path)
	return &Locator{reader: reader, ip: parsed}, nil
}

// Locate implements driven.Geolocator. The database lookup does not
// block, so the request timeout only applies through ctx.
func (l *Locator) Locate(ctx context.Context, _ domain.LocateRequest) (domain.Position, error) {
	if l == nil || l.reader == nil {
		return domain.Position{}, domain.NewLocateError(domain.LocateUnsupported, errors.New("no geoip database"))
	}
	if err := ctx.Err(); err != nil {
		return domain.Position{}, domain.NewLocateError(domain.LocateTimeout, err)
	}
	rec, err := l.reader.City(l.ip)
	if err != nil {
		return domain.Position{}, domain.NewLocateError(domain.LocatePositionUnavailable, err)
	}
	loc := rec.Location
	if loc.Latitude == 0 && loc.Longitude == 0 {
		return domain.Position{}, domain.NewLocateError(domain.LocatePositionUnavailable,
			fmt.Errorf("no location for %s", l.ip))
	}
	return domain.Position{
		Coordinates:    domain.Coordinates{Lat: loc.Latitude, Lng: loc.Longitude},
		AccuracyMeters: float64(loc.AccuracyRadius) * 1000,
	}, nil
}

// Close releases the database.
func (l *Locator) Close() error {
	if l == nil || l.reader == nil {
		return nil
	}
	return l.reader.Close()
}
