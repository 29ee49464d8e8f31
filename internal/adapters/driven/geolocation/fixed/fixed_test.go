package fixed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
)

func TestLocator(t *testing.T) {
	want := domain.Position{Coordinates: domain.Coordinates{Lat: 13.1367, Lng: 78.1292}, AccuracyMeters: 15}
	got, err := New(want).Locate(context.Background(), domain.LocateRequest{})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFailing(t *testing.T) {
	_, err := Failing(domain.LocatePermissionDenied).Locate(context.Background(), domain.LocateRequest{})
	var le *domain.LocateError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, domain.LocatePermissionDenied, le.Kind)
}

func TestLocator_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(domain.Position{}).Locate(ctx, domain.LocateRequest{})
	var le *domain.LocateError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, domain.LocateTimeout, le.Kind)
}
