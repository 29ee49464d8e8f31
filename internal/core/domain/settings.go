package domain

import "time"

// RadiusStep applies Radius (pixels) to every zoom up to and including MaxZoom.
type RadiusStep struct {
	MaxZoom int     `json:"maxZoom"`
	Radius  float64 `json:"radius"`
}

// ClusterSettings controls zoom-dependent grouping.
type ClusterSettings struct {
	// Steps must be ordered by MaxZoom with non-increasing radii.
	Steps []RadiusStep `json:"steps"`

	// DisableAtZoom turns clustering off at and above this zoom.
	DisableAtZoom int `json:"disableAtZoom"`

	// MaxZoom is the deepest zoom the map supports.
	MaxZoom int `json:"maxZoom"`
}

// DefaultClusterSettings returns the standard radius table.
func DefaultClusterSettings() ClusterSettings {
	return ClusterSettings{
		Steps: []RadiusStep{
			{MaxZoom: 6, Radius: 80},
			{MaxZoom: 9, Radius: 60},
			{MaxZoom: 12, Radius: 45},
			{MaxZoom: 15, Radius: 30},
		},
		DisableAtZoom: 16,
		MaxZoom:       18,
	}
}

// Radius returns the clustering radius in pixels at zoom. The second
// result is false when clustering is disabled at that zoom.
func (s ClusterSettings) Radius(zoom int) (float64, bool) {
	if zoom >= s.DisableAtZoom {
		return 0, false
	}
	for _, step := range s.Steps {
		if zoom <= step.MaxZoom {
			return step.Radius, true
		}
	}
	if n := len(s.Steps); n > 0 {
		return s.Steps[n-1].Radius, true
	}
	return 0, false
}

// MaxClusteringZoom returns the deepest zoom at which clustering applies.
func (s ClusterSettings) MaxClusteringZoom() int {
	return s.DisableAtZoom - 1
}

// ViewSettings controls viewport behaviour.
type ViewSettings struct {
	Center       Coordinates   `json:"center"`
	Zoom         int           `json:"zoom"`
	SiteZoom     int           `json:"siteZoom"`
	NearbyZoom   int           `json:"nearbyZoom"`
	PopupDelay   time.Duration `json:"popupDelay"`
	MaxFitZoom   int           `json:"maxFitZoom"`
	WidthPixels  int           `json:"widthPixels"`
	HeightPixels int           `json:"heightPixels"`
}

// DefaultViewSettings centres the map on Bengaluru at state level.
func DefaultViewSettings() ViewSettings {
	return ViewSettings{
		Center:       Coordinates{Lat: 12.9716, Lng: 77.5946},
		Zoom:         7,
		SiteZoom:     16,
		NearbyZoom:   14,
		PopupDelay:   400 * time.Millisecond,
		MaxFitZoom:   16,
		WidthPixels:  1024,
		HeightPixels: 768,
	}
}

// SearchSettings controls the search engine.
type SearchSettings struct {
	MinQueryLength int `json:"minQueryLength"`
	PlaceLimit     int `json:"placeLimit"`
}

// DefaultSearchSettings returns the standard search settings.
func DefaultSearchSettings() SearchSettings {
	return SearchSettings{MinQueryLength: MinQueryLength, PlaceLimit: 5}
}

// MinQueryLength is the shortest query that searches. Settings may raise
// it but never lower it.
const MinQueryLength = 2

// LocateSettings controls the geolocation request.
type LocateSettings struct {
	Request LocateRequest `json:"request"`
	Label   string        `json:"label"`
}

// DefaultLocateSettings returns a high-accuracy request with a ten second timeout.
func DefaultLocateSettings() LocateSettings {
	return LocateSettings{
		Request: LocateRequest{HighAccuracy: true, Timeout: 10 * time.Second},
		Label:   "You are here",
	}
}

// LookupSettings configures the remote place lookup.
type LookupSettings struct {
	Endpoint   string        `json:"endpoint"`
	UserAgent  string        `json:"userAgent"`
	RatePerSec float64       `json:"ratePerSec"`
	Timeout    time.Duration `json:"timeout"`
	Retries    int           `json:"retries"`
}

// DefaultLookupEndpoint is the public Nominatim instance.
const DefaultLookupEndpoint = "https://nominatim.openstreetmap.org"

// DefaultLookupSettings follows the public Nominatim usage policy.
func DefaultLookupSettings() LookupSettings {
	return LookupSettings{
		Endpoint:   DefaultLookupEndpoint,
		UserAgent:  "heritage-atlas/1.0",
		RatePerSec: 1,
		Timeout:    8 * time.Second,
		Retries:    1,
	}
}

// CacheSettings configures the place-lookup cache. An empty RedisAddr
// selects the in-process cache.
type CacheSettings struct {
	RedisAddr string        `json:"redisAddr,omitempty"`
	RedisDB   int           `json:"redisDb"`
	TTL       time.Duration `json:"ttl"`
	Size      int           `json:"size"`
}

// DefaultCacheSettings returns a day-long in-process cache.
func DefaultCacheSettings() CacheSettings {
	return CacheSettings{TTL: 24 * time.Hour, Size: 512}
}

// GeoSettings configures the geolocation collaborator.
type GeoSettings struct {
	Database string `json:"database,omitempty"`
	IP       string `json:"ip,omitempty"`
	Fixed    string `json:"fixed,omitempty"`
}

// AppSettings aggregates every runtime setting.
type AppSettings struct {
	Sources map[Category]string `json:"sources"`
	Cluster ClusterSettings     `json:"cluster"`
	View    ViewSettings        `json:"view"`
	Search  SearchSettings      `json:"search"`
	Locate  LocateSettings      `json:"locate"`
	Lookup  LookupSettings      `json:"lookup"`
	Cache   CacheSettings       `json:"cache"`
	Geo     GeoSettings         `json:"geo"`
}

// DefaultAppSettings returns defaults with sources unset.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Sources: make(map[Category]string),
		Cluster: DefaultClusterSettings(),
		View:    DefaultViewSettings(),
		Search:  DefaultSearchSettings(),
		Locate:  DefaultLocateSettings(),
		Lookup:  DefaultLookupSettings(),
		Cache:   DefaultCacheSettings(),
	}
}
