package services

import (
	"errors"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driving"
)

// Deps are the driven adapters an App is built from. Lookup and Geo are
// optional.
type Deps struct {
	Source driven.SiteSource
	Lookup driven.PlaceLookup
	Geo    driven.Geolocator
	View   driven.MapView
}

// App is the application context: every core service, wired once.
// Independent Apps share no state.
type App struct {
	Settings  domain.AppSettings
	View      driven.MapView
	Registry  *Registry
	Index     *ClusterIndex
	Layers    *LayerController
	Search    *SearchService
	Presenter *Presenter
	Locator   *Locator
	Loader    *Loader
}

// NewApp wires the services over deps.
func NewApp(deps Deps, settings domain.AppSettings) (*App, error) {
	if deps.View == nil {
		return nil, errors.New("app: map view is required")
	}
	deps.View.SetView(settings.View.Center, settings.View.Zoom)

	registry := NewRegistry()
	index := NewClusterIndex(settings.Cluster, settings.View)
	layers := NewLayerController(index, deps.View)

	return &App{
		Settings:  settings,
		View:      deps.View,
		Registry:  registry,
		Index:     index,
		Layers:    layers,
		Search:    NewSearchService(registry, deps.Lookup, settings.Search),
		Presenter: NewPresenter(deps.View, layers, registry, settings.View),
		Locator:   NewLocator(deps.Geo, deps.View, settings.Locate, settings.View.NearbyZoom),
		Loader:    NewLoader(deps.Source, registry, layers),
	}, nil
}

// Controls returns the map controls in display order: one checkbox per
// category, the clustering toggle and the locate button.
func (a *App) Controls() []driving.ViewportControl {
	controls := make([]driving.ViewportControl, 0, 5)
	for _, c := range domain.Categories() {
		controls = append(controls, NewCategoryControl(a.Layers, c))
	}
	return append(controls, NewClusteringControl(a.Layers), NewLocateControl(a.Locator))
}
