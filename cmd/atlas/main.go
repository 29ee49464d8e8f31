// Command atlas explores heritage sites on a map from the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/heritage-atlas/internal/adapters/driven/config/file"
	"github.com/custodia-labs/heritage-atlas/internal/adapters/driven/geocode/cache"
	"github.com/custodia-labs/heritage-atlas/internal/adapters/driven/geocode/nominatim"
	"github.com/custodia-labs/heritage-atlas/internal/adapters/driven/geolocation/fixed"
	"github.com/custodia-labs/heritage-atlas/internal/adapters/driven/geolocation/geoip"
	"github.com/custodia-labs/heritage-atlas/internal/adapters/driven/mapview"
	"github.com/custodia-labs/heritage-atlas/internal/adapters/driven/sitesource"
	"github.com/custodia-labs/heritage-atlas/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/heritage-atlas/internal/adapters/driving/cli"
	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
	"github.com/custodia-labs/heritage-atlas/internal/core/services"
	"github.com/custodia-labs/heritage-atlas/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Map canvas used for fit-to-bounds before a renderer reports its size.
const (
	canvasWidth  = 1280
	canvasHeight = 800
	watchSettle  = 500 * time.Millisecond
)

func main() {
	_ = godotenv.Load(".env")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, closeAll, err := wire()
	if err != nil {
		fmt.Fprintf(os.Stderr, "atlas: %v\n", err)
		os.Exit(1)
	}
	cli.SetServices(s)
	cli.SetVersion(version)

	code := run(ctx)
	closeAll()
	os.Exit(code)
}

func run(ctx context.Context) int {
	if err := cli.ExecuteContext(ctx); err != nil {
		return cli.ExitCode(err)
	}
	return 0
}

// wire builds the adapters and the App from the stored settings and
// ATLAS_* overrides. The returned func releases open handles.
func wire() (*cli.Services, func(), error) {
	configDir, err := file.DefaultDir()
	if err != nil {
		return nil, nil, err
	}
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, filepath.Join(configDir, "sources"))
	st := settingsService.Get()

	var closers []func() error
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn("Closing: %v", err)
			}
		}
	}

	source := sitesource.NewCSVSource(st.Sources, st.Lookup.UserAgent)
	watcher := sitesource.NewWatcher(source, watchSettle)

	lookup, closeLookup := placeLookup(st)
	if closeLookup != nil {
		closers = append(closers, closeLookup)
	}

	geo, err := geolocator(st.Geo)
	if err != nil {
		logger.Warn("Geolocation disabled: %v", err)
	}
	if c, ok := geo.(interface{ Close() error }); ok {
		closers = append(closers, c.Close)
	}

	view := mapview.New(canvasWidth, canvasHeight, st.Cluster.MaxZoom)
	app, err := services.NewApp(services.Deps{
		Source: source,
		Lookup: lookup,
		Geo:    geo,
		View:   view,
	}, st)
	if err != nil {
		closeAll()
		return nil, nil, err
	}

	store, err := sqlite.NewStore(filepath.Join(configDir, "data"))
	if err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("opening snapshot: %w", err)
	}
	closers = append(closers, store.Close)

	return &cli.Services{
		Registry:  app.Registry,
		Layers:    app.Layers,
		Search:    app.Search,
		Presenter: app.Presenter,
		Locator:   app.Locator,
		Loader:    app.Loader,
		Settings:  settingsService,
		Controls:  app.Controls(),
		View:      app.View,
		Store:     store,
		Imports:   store,
		Watch:     watcher.Run,
	}, closeAll, nil
}

// placeLookup returns the Nominatim client behind a Redis cache when
// cache.redis_addr is set, otherwise behind an in-process LRU.
func placeLookup(st domain.AppSettings) (driven.PlaceLookup, func() error) {
	client := nominatim.New(st.Lookup)
	if rc := cache.OpenRedis(st.Cache.RedisAddr, st.Cache.RedisDB); rc != nil {
		logger.Debug("Caching place lookups in Redis at %s", st.Cache.RedisAddr)
		return cache.NewLookup(client, cache.NewRedis(rc, st.Cache.TTL), "redis"), rc.Close
	}
	return cache.NewLookup(client, cache.NewLRU(st.Cache.Size, st.Cache.TTL), "lru"), nil
}

// geolocator picks a fixed position over a GeoIP database. A nil
// Geolocator makes every locate report "unsupported".
func geolocator(geo domain.GeoSettings) (driven.Geolocator, error) {
	if geo.Fixed != "" {
		c, ok := services.ParseCoordinates(geo.Fixed)
		if !ok {
			return nil, fmt.Errorf("geo.fixed %q is not \"lat,lng\"", geo.Fixed)
		}
		return fixed.New(domain.Position{Coordinates: c}), nil
	}
	if geo.Database != "" {
		loc, err := geoip.Open(geo.Database, geo.IP)
		if err != nil {
			return nil, err
		}
		return loc, nil
	}
	return nil, nil
}
