package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driving"
	"github.com/custodia-labs/heritage-atlas/internal/logger"
)

// Ensure Locator implements the interface.
var _ driving.Locator = (*Locator)(nil)

// Locator draws the persistent current-location marker.
type Locator struct {
	geo      driven.Geolocator
	view     driven.MapView
	settings domain.LocateSettings
	zoom     int
}

// NewLocator creates a locator. geo may be nil, in which case every
// attempt reports LocateUnsupported. A non-positive timeout uses the
// default.
func NewLocator(geo driven.Geolocator, view driven.MapView, settings domain.LocateSettings, nearbyZoom int) *Locator {
	if settings.Request.Timeout <= 0 {
		settings.Request.Timeout = domain.DefaultLocateSettings().Request.Timeout
	}
	return &Locator{geo: geo, view: view, settings: settings, zoom: nearbyZoom}
}

type fix struct {
	pos domain.Position
	err error
}

// Locate asks the geolocator for a fix within the configured timeout.
// On success the previous location marker is replaced and the viewport
// recentered at the nearby zoom.
func (l *Locator) Locate(ctx context.Context) (domain.LocationMarker, error) {
	if l.geo == nil {
		return domain.LocationMarker{}, domain.NewLocateError(domain.LocateUnsupported, errors.New("no geolocator configured"))
	}

	req := l.settings.Request
	ctx, cancel := context.WithTimeout(ctx, req.Timeout)
	defer cancel()

	// The geolocator may ignore ctx; the buffered channel lets its
	// goroutine finish after we stop waiting.
	done := make(chan fix, 1)
	go func() {
		pos, err := l.geo.Locate(ctx, req)
		done <- fix{pos: pos, err: err}
	}()

	var got fix
	select {
	case got = <-done:
	case <-ctx.Done():
		got = fix{err: ctx.Err()}
	}

	if got.err != nil {
		le := classifyLocateError(got.err)
		logger.Warn("Locate failed (%s): %v", le.Kind, got.err)
		return domain.LocationMarker{}, le
	}
	if !got.pos.Coordinates.Valid() {
		le := domain.NewLocateError(domain.LocatePositionUnavailable,
			fmt.Errorf("%w: %s", domain.ErrInvalidCoordinates, got.pos.Coordinates))
		logger.Warn("Locate returned unusable position: %v", le)
		return domain.LocationMarker{}, le
	}

	marker := domain.LocationMarker{
		Position: got.pos,
		Label:    fmt.Sprintf("%s (within %.0f m)", l.settings.Label, got.pos.AccuracyMeters),
	}
	l.view.SetLocation(marker)
	l.view.SetView(got.pos.Coordinates, l.zoom)
	logger.Debug("Located at %s ±%.0fm", got.pos.Coordinates, got.pos.AccuracyMeters)
	return marker, nil
}

// classifyLocateError maps any failure onto one of the four kinds.
func classifyLocateError(err error) *domain.LocateError {
	var le *domain.LocateError
	if errors.As(err, &le) {
		return le
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewLocateError(domain.LocateTimeout, err)
	}
	return domain.NewLocateError(domain.LocateUnsupported, err)
}
