package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/heritage-atlas/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
)

func newTestSettings(env map[string]string) (*SettingsService, *memory.ConfigStore) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store, "/data")
	svc.SetEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	return svc, store
}

func TestSettingsService_Defaults(t *testing.T) {
	svc, _ := newTestSettings(nil)
	st := svc.Get()

	assert.Equal(t, filepath.Join("/data", "temples.csv"), st.Sources[domain.CategoryTemple])
	assert.Equal(t, filepath.Join("/data", "inscriptions.csv"), st.Sources[domain.CategoryInscription])
	assert.Equal(t, domain.DefaultLookupEndpoint, st.Lookup.Endpoint)
	assert.Equal(t, domain.DefaultViewSettings().Center, st.View.Center)
	assert.Equal(t, 2, st.Search.MinQueryLength)
	assert.Equal(t, st.Cluster.MaxZoom, st.View.MaxFitZoom)
	assert.Equal(t, 10*time.Second, st.Locate.Request.Timeout)
}

func TestSettingsService_StoreOverridesDefaults(t *testing.T) {
	svc, store := newTestSettings(nil)
	_ = store.Set("view.zoom", 9)
	_ = store.Set("view.popup_delay", "1s")
	_ = store.Set("sources.temple", "https://example.org/temples.csv")

	st := svc.Get()
	assert.Equal(t, 9, st.View.Zoom)
	assert.Equal(t, time.Second, st.View.PopupDelay)
	assert.Equal(t, "https://example.org/temples.csv", st.Sources[domain.CategoryTemple])
}

func TestSettingsService_EnvOverridesStore(t *testing.T) {
	svc, store := newTestSettings(map[string]string{
		"ATLAS_VIEW_ZOOM":           "11",
		"ATLAS_VIEW_CENTER":         "15.335, 76.46",
		"ATLAS_CLUSTER_MAX_ZOOM":    "17",
		"ATLAS_LOOKUP_RATE_PER_SEC": "0.5",
	})
	_ = store.Set("view.zoom", 9)

	st := svc.Get()
	assert.Equal(t, 11, st.View.Zoom)
	assert.Equal(t, domain.Coordinates{Lat: 15.335, Lng: 76.46}, st.View.Center)
	assert.Equal(t, 17, st.View.MaxFitZoom)
	assert.Equal(t, 0.5, st.Lookup.RatePerSec)
}

func TestSettingsService_InvalidValuesFallBack(t *testing.T) {
	svc, store := newTestSettings(map[string]string{"ATLAS_VIEW_ZOOM": "close"})
	_ = store.Set("view.center", "north")

	st := svc.Get()
	assert.Equal(t, domain.DefaultViewSettings().Zoom, st.View.Zoom)
	assert.Equal(t, domain.DefaultViewSettings().Center, st.View.Center)
}

func TestSettingsService_Set(t *testing.T) {
	svc, store := newTestSettings(nil)

	require.NoError(t, svc.Set("view.zoom", "10"))
	require.NoError(t, svc.Set("geo.high_accuracy", "false"))
	require.NoError(t, svc.Set("cache.ttl", "2h"))
	require.NoError(t, svc.Set("geo.fixed", "12.9, 77.6"))

	assert.Equal(t, 10, store.GetInt("view.zoom"))
	assert.Equal(t, 4, store.Saves())

	st := svc.Get()
	assert.Equal(t, 10, st.View.Zoom)
	assert.False(t, st.Locate.Request.HighAccuracy)
	assert.Equal(t, 2*time.Hour, st.Cache.TTL)
	assert.Equal(t, "12.9, 77.6", st.Geo.Fixed)
}

func TestSettingsService_SetRejectsBadValues(t *testing.T) {
	svc, store := newTestSettings(nil)

	tests := []struct{ key, value string }{
		{"view.zoom", "ten"},
		{"lookup.rate_per_sec", "fast"},
		{"geo.high_accuracy", "maybe"},
		{"view.popup_delay", "soon"},
		{"view.center", "200, 0"},
		{"unknown.key", "x"},
	}
	for _, tt := range tests {
		err := svc.Set(tt.key, tt.value)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, tt.key)
	}
	assert.Empty(t, store.Keys())
	assert.Zero(t, store.Saves())
}

func TestSettingsService_Keys(t *testing.T) {
	svc, _ := newTestSettings(nil)
	keys := svc.Keys()

	assert.Contains(t, keys, "sources.temple")
	assert.Contains(t, keys, "lookup.endpoint")
	assert.IsIncreasing(t, keys)
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "ATLAS_LOOKUP_ENDPOINT", EnvName("lookup.endpoint"))
	assert.Equal(t, "ATLAS_SEARCH_MIN_QUERY_LENGTH", EnvName("search.min_query_length"))
}

func TestSettingsService_FixedRulesHold(t *testing.T) {
	svc, store := newTestSettings(nil)
	_ = store.Set("search.min_query_length", 1)
	_ = store.Set("geo.timeout", "0s")

	st := svc.Get()
	assert.Equal(t, domain.MinQueryLength, st.Search.MinQueryLength)
	assert.Equal(t, domain.DefaultLocateSettings().Request.Timeout, st.Locate.Request.Timeout)

	_ = store.Set("search.min_query_length", 4)
	assert.Equal(t, 4, svc.Get().Search.MinQueryLength)
}
