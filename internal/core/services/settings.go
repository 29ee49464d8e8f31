package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driving"
	"github.com/custodia-labs/heritage-atlas/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindBool
	kindDuration
	kindCoordinates
)

// Config keys for settings storage.
const (
	keySourcePrefix      = "sources."
	keyLookupEndpoint    = "lookup.endpoint"
	keyLookupUserAgent   = "lookup.user_agent"
	keyLookupRate        = "lookup.rate_per_sec"
	keyLookupTimeout     = "lookup.timeout"
	keyLookupRetries     = "lookup.retries"
	keyLookupLimit       = "lookup.limit"
	keyCacheRedisAddr    = "cache.redis_addr"
	keyCacheRedisDB      = "cache.redis_db"
	keyCacheTTL          = "cache.ttl"
	keyCacheSize         = "cache.size"
	keyGeoDatabase       = "geo.database"
	keyGeoIP             = "geo.ip"
	keyGeoFixed          = "geo.fixed"
	keyGeoTimeout        = "geo.timeout"
	keyGeoHighAccuracy   = "geo.high_accuracy"
	keyGeoMaxAge         = "geo.max_age"
	keyViewCenter        = "view.center"
	keyViewZoom          = "view.zoom"
	keyViewSiteZoom      = "view.site_zoom"
	keyViewNearbyZoom    = "view.nearby_zoom"
	keyViewPopupDelay    = "view.popup_delay"
	keyClusterDisableAt  = "cluster.disable_at_zoom"
	keyClusterMaxZoom    = "cluster.max_zoom"
	keySearchMinQueryLen = "search.min_query_length"
)

var settingKinds = map[string]valueKind{
	keySourcePrefix + string(domain.CategoryInscription): kindString,
	keySourcePrefix + string(domain.CategoryHerostone):   kindString,
	keySourcePrefix + string(domain.CategoryTemple):      kindString,

	keyLookupEndpoint:    kindString,
	keyLookupUserAgent:   kindString,
	keyLookupRate:        kindFloat,
	keyLookupTimeout:     kindDuration,
	keyLookupRetries:     kindInt,
	keyLookupLimit:       kindInt,
	keyCacheRedisAddr:    kindString,
	keyCacheRedisDB:      kindInt,
	keyCacheTTL:          kindDuration,
	keyCacheSize:         kindInt,
	keyGeoDatabase:       kindString,
	keyGeoIP:             kindString,
	keyGeoFixed:          kindCoordinates,
	keyGeoTimeout:        kindDuration,
	keyGeoHighAccuracy:   kindBool,
	keyGeoMaxAge:         kindDuration,
	keyViewCenter:        kindCoordinates,
	keyViewZoom:          kindInt,
	keyViewSiteZoom:      kindInt,
	keyViewNearbyZoom:    kindInt,
	keyViewPopupDelay:    kindDuration,
	keyClusterDisableAt:  kindInt,
	keyClusterMaxZoom:    kindInt,
	keySearchMinQueryLen: kindInt,
}

// SettingsService resolves settings from defaults, the config store and
// ATLAS_* environment variables, in increasing precedence.
type SettingsService struct {
	configStore driven.ConfigStore
	dataDir     string
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a settings service. dataDir is where the
// default category CSV files live.
func NewSettingsService(configStore driven.ConfigStore, dataDir string) *SettingsService {
	return &SettingsService{configStore: configStore, dataDir: dataDir, lookupEnv: os.LookupEnv}
}

// SetEnv replaces the environment lookup. Useful for testing.
func (s *SettingsService) SetEnv(lookup func(string) (string, bool)) {
	s.lookupEnv = lookup
}

// EnvName returns the environment variable overriding key, e.g.
// "lookup.endpoint" -> "ATLAS_LOOKUP_ENDPOINT".
func EnvName(key string) string {
	return "ATLAS_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Keys returns the supported configuration keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// raw returns the effective string form of key and whether it is set.
func (s *SettingsService) raw(key string) (string, bool) {
	if v, ok := s.lookupEnv(EnvName(key)); ok && v != "" {
		return v, true
	}
	v, ok := s.configStore.Get(key)
	if !ok {
		return "", false
	}
	return fmt.Sprint(v), true
}

func (s *SettingsService) getString(key, def string) string {
	if v, ok := s.raw(key); ok && v != "" {
		return v
	}
	return def
}

func (s *SettingsService) getInt(key string, def int) int {
	v, ok := s.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn("Ignoring %s=%q: %v", key, v, err)
		return def
	}
	return n
}

func (s *SettingsService) getFloat(key string, def float64) float64 {
	v, ok := s.raw(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logger.Warn("Ignoring %s=%q: %v", key, v, err)
		return def
	}
	return f
}

func (s *SettingsService) getBool(key string, def bool) bool {
	v, ok := s.raw(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logger.Warn("Ignoring %s=%q: %v", key, v, err)
		return def
	}
	return b
}

func (s *SettingsService) getDuration(key string, def time.Duration) time.Duration {
	v, ok := s.raw(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logger.Warn("Ignoring %s=%q: %v", key, v, err)
		return def
	}
	return d
}

func (s *SettingsService) getCoordinates(key string, def domain.Coordinates) domain.Coordinates {
	v, ok := s.raw(key)
	if !ok {
		return def
	}
	c, valid := ParseCoordinates(v)
	if !valid {
		logger.Warn("Ignoring %s=%q: not a lat,lng pair", key, v)
		return def
	}
	return c
}

// Get returns the effective settings.
func (s *SettingsService) Get() domain.AppSettings {
	st := domain.DefaultAppSettings()

	for _, c := range domain.Categories() {
		def := ""
		if s.dataDir != "" {
			def = filepath.Join(s.dataDir, string(c)+"s.csv")
		}
		if src := s.getString(keySourcePrefix+string(c), def); src != "" {
			st.Sources[c] = src
		}
	}

	st.Lookup.Endpoint = s.getString(keyLookupEndpoint, st.Lookup.Endpoint)
	st.Lookup.UserAgent = s.getString(keyLookupUserAgent, st.Lookup.UserAgent)
	st.Lookup.RatePerSec = s.getFloat(keyLookupRate, st.Lookup.RatePerSec)
	st.Lookup.Timeout = s.getDuration(keyLookupTimeout, st.Lookup.Timeout)
	st.Lookup.Retries = s.getInt(keyLookupRetries, st.Lookup.Retries)
	st.Search.PlaceLimit = s.getInt(keyLookupLimit, st.Search.PlaceLimit)
	st.Search.MinQueryLength = max(s.getInt(keySearchMinQueryLen, st.Search.MinQueryLength), domain.MinQueryLength)

	st.Cache.RedisAddr = s.getString(keyCacheRedisAddr, st.Cache.RedisAddr)
	st.Cache.RedisDB = s.getInt(keyCacheRedisDB, st.Cache.RedisDB)
	st.Cache.TTL = s.getDuration(keyCacheTTL, st.Cache.TTL)
	st.Cache.Size = s.getInt(keyCacheSize, st.Cache.Size)

	st.Geo.Database = s.getString(keyGeoDatabase, "")
	st.Geo.IP = s.getString(keyGeoIP, "")
	st.Geo.Fixed = s.getString(keyGeoFixed, "")
	if timeout := s.getDuration(keyGeoTimeout, st.Locate.Request.Timeout); timeout > 0 {
		st.Locate.Request.Timeout = timeout
	}
	st.Locate.Request.HighAccuracy = s.getBool(keyGeoHighAccuracy, st.Locate.Request.HighAccuracy)
	st.Locate.Request.MaxAge = s.getDuration(keyGeoMaxAge, st.Locate.Request.MaxAge)

	st.View.Center = s.getCoordinates(keyViewCenter, st.View.Center)
	st.View.Zoom = s.getInt(keyViewZoom, st.View.Zoom)
	st.View.SiteZoom = s.getInt(keyViewSiteZoom, st.View.SiteZoom)
	st.View.NearbyZoom = s.getInt(keyViewNearbyZoom, st.View.NearbyZoom)
	st.View.PopupDelay = s.getDuration(keyViewPopupDelay, st.View.PopupDelay)

	st.Cluster.DisableAtZoom = s.getInt(keyClusterDisableAt, st.Cluster.DisableAtZoom)
	st.Cluster.MaxZoom = s.getInt(keyClusterMaxZoom, st.Cluster.MaxZoom)
	st.View.MaxFitZoom = st.Cluster.MaxZoom
	return st
}

// Set validates value for key, stores it and persists the config.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	var typed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		typed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		typed = f
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		typed = b
	case kindDuration:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%w: %s must be a duration like 500ms", domain.ErrInvalidInput, key)
		}
		typed = value
	case kindCoordinates:
		if _, ok := ParseCoordinates(value); !ok {
			return fmt.Errorf("%w: %s must be \"lat,lng\"", domain.ErrInvalidInput, key)
		}
		typed = value
	default:
		typed = value
	}

	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	if err := s.configStore.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}
