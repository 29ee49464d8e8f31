package cli

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/heritage-atlas/internal/adapters/driven/geolocation/fixed"
	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	svc "github.com/custodia-labs/heritage-atlas/internal/core/services"
)

func useFailingLocator(env *testEnv, kind domain.LocateErrorKind) {
	st := env.app.Settings
	services.Locator = svc.NewLocator(fixed.Failing(kind), env.app.View, st.Locate, st.View.NearbyZoom)
}

func TestLocateCmd_CentresMap(t *testing.T) {
	env := setupTestServices(t)

	out, _, err := run(t, "locate")
	require.NoError(t, err)
	assert.Contains(t, out, "Position: 12.971600, 77.594600")
	assert.Contains(t, out, "Map: zoom")

	vp := env.app.View.Viewport()
	assert.Equal(t, domain.Coordinates{Lat: 12.9716, Lng: 77.5946}, vp.Center)
	assert.Equal(t, env.app.Settings.View.NearbyZoom, vp.Zoom)
}

func TestLocateCmd_JSON(t *testing.T) {
	setupTestServices(t)

	out, _, err := run(t, "locate", "--json")
	require.NoError(t, err)
	var marker domain.LocationMarker
	require.NoError(t, json.Unmarshal([]byte(out), &marker))
	assert.InDelta(t, 12.9716, marker.Position.Coordinates.Lat, 1e-9)
	assert.InDelta(t, 25.0, marker.Position.AccuracyMeters, 1e-9)
}

func TestLocateCmd_Failure(t *testing.T) {
	env := setupTestServices(t)
	useFailingLocator(env, domain.LocatePermissionDenied)

	_, errOut, err := run(t, "locate")
	require.Error(t, err)
	var le *domain.LocateError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, domain.LocatePermissionDenied, le.Kind)
	assert.Contains(t, errOut, domain.LocatePermissionDenied.Message())
	assert.Equal(t, 3, ExitCode(err))

	_, ok := env.app.View.Location()
	assert.False(t, ok)
}

func TestLocateCmd_FailureJSON(t *testing.T) {
	env := setupTestServices(t)
	useFailingLocator(env, domain.LocateTimeout)

	out, _, err := run(t, "locate", "--json")
	require.Error(t, err)
	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "timeout", got["error"])
	assert.NotEmpty(t, got["message"])
}

func TestLocateCmd_NotConfigured(t *testing.T) {
	setupTestServices(t)
	services.Locator = nil

	_, _, err := run(t, "locate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locator not configured")
}
