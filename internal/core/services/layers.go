package services

import (
	"fmt"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driving"
	"github.com/custodia-labs/heritage-atlas/internal/logger"
)

// Ensure LayerController implements the interface.
var _ driving.LayerController = (*LayerController)(nil)

// LayerController keeps the per-category raw layers and the shared
// cluster index in sync with the visibility and clustering toggles.
//
// Every marker of a visible category is in exactly one of its raw layer
// or the cluster index; markers of hidden categories are in neither.
// Each transition moves markers in one synchronous step.
type LayerController struct {
	view       driven.MapView
	index      *ClusterIndex
	raw        map[domain.Category]*markerSet
	markers    map[domain.Category][]domain.Marker
	visible    map[domain.Category]bool
	clustering bool
}

// NewLayerController creates a controller with every category visible
// and clustering enabled. view may be nil for headless use.
func NewLayerController(index *ClusterIndex, view driven.MapView) *LayerController {
	lc := &LayerController{
		view:       view,
		index:      index,
		raw:        make(map[domain.Category]*markerSet),
		markers:    make(map[domain.Category][]domain.Marker),
		visible:    make(map[domain.Category]bool),
		clustering: true,
	}
	for _, c := range domain.Categories() {
		lc.raw[c] = newMarkerSet()
		lc.visible[c] = true
	}
	lc.syncAttachments()
	return lc
}

// AddMarkers routes newly ingested markers using the state at the time
// of insertion.
func (lc *LayerController) AddMarkers(category domain.Category, markers []domain.Marker) {
	if !category.IsValid() {
		invariant("markers added for unknown category %q", category)
		return
	}
	lc.markers[category] = append(lc.markers[category], markers...)
	if !lc.visible[category] {
		logger.Debug("Added %d hidden %s markers", len(markers), category)
		return
	}
	for _, m := range markers {
		lc.place(m)
	}
	logger.Debug("Added %d %s markers (clustering=%t)", len(markers), category, lc.clustering)
}

// place puts a marker where the current clustering state wants it.
func (lc *LayerController) place(m domain.Marker) {
	if lc.clustering {
		lc.index.Add(m)
		return
	}
	if !lc.raw[m.Category].add(m) {
		invariant("marker %s already in %s raw layer", m.SiteID, m.Category)
	}
}

// unplace removes a marker from wherever it resides.
func (lc *LayerController) unplace(m domain.Marker) {
	switch {
	case lc.index.Has(m.SiteID):
		lc.index.Remove(m.SiteID)
	case lc.raw[m.Category].has(m.SiteID):
		lc.raw[m.Category].remove(m.SiteID)
	default:
		invariant("marker %s of visible %s is on no layer", m.SiteID, m.Category)
	}
}

// SetCategoryVisible shows or hides a category's markers.
func (lc *LayerController) SetCategoryVisible(category domain.Category, visible bool) {
	if !category.IsValid() || lc.visible[category] == visible {
		return
	}
	if visible {
		for _, m := range lc.markers[category] {
			lc.place(m)
		}
	} else {
		for _, m := range lc.markers[category] {
			lc.unplace(m)
		}
	}
	lc.visible[category] = visible
	logger.Debug("Category %s visible=%t", category, visible)
	lc.syncAttachments()
}

// EnsureVisible force-shows a hidden category.
func (lc *LayerController) EnsureVisible(category domain.Category) {
	if !lc.visible[category] {
		logger.Debug("Force-showing %s for selection", category)
		lc.SetCategoryVisible(category, true)
	}
}

// SetClusteringEnabled moves every visible marker between the raw
// layers and the cluster index.
func (lc *LayerController) SetClusteringEnabled(enabled bool) {
	if lc.clustering == enabled {
		return
	}
	for _, c := range domain.Categories() {
		if !lc.visible[c] {
			continue
		}
		for _, m := range lc.markers[c] {
			if enabled {
				if !lc.raw[c].remove(m.SiteID) {
					invariant("marker %s missing from %s raw layer", m.SiteID, c)
				}
				lc.index.Add(m)
			} else {
				lc.index.Remove(m.SiteID)
				if !lc.raw[c].add(m) {
					invariant("marker %s already in %s raw layer", m.SiteID, c)
				}
			}
		}
	}
	lc.clustering = enabled
	logger.Debug("Clustering enabled=%t", enabled)
	lc.syncAttachments()
}

// syncAttachments mirrors the state on the map: the cluster layer is
// attached while clustering is on, and detached once it is off and
// empty; a raw layer is attached while its category is visible and
// clustering is off.
func (lc *LayerController) syncAttachments() {
	if lc.view == nil {
		return
	}
	cluster := domain.ClusterLayer()
	switch {
	case lc.clustering:
		lc.view.AttachLayer(cluster)
	case lc.index.Len() == 0:
		lc.view.DetachLayer(cluster)
	}
	for _, c := range domain.Categories() {
		id := domain.RawLayer(c)
		if lc.visible[c] && !lc.clustering {
			lc.view.AttachLayer(id)
		} else {
			lc.view.DetachLayer(id)
		}
	}
}

// Visible reports a category's visibility.
func (lc *LayerController) Visible(category domain.Category) bool {
	return lc.visible[category]
}

// ClusteringEnabled reports the clustering toggle.
func (lc *LayerController) ClusteringEnabled() bool {
	return lc.clustering
}

// Placement reports where a site's marker resides.
func (lc *LayerController) Placement(siteID string) domain.Placement {
	if lc.index.Has(siteID) {
		return domain.PlacementClustered
	}
	for _, set := range lc.raw {
		if set.has(siteID) {
			return domain.PlacementRaw
		}
	}
	return domain.PlacementHidden
}

// Clusters returns what the map shows at zoom.
func (lc *LayerController) Clusters(zoom int, bounds *domain.Bounds) []domain.Cluster {
	if lc.clustering {
		return lc.index.Clusters(zoom, bounds)
	}
	var out []domain.Cluster
	for _, c := range domain.Categories() {
		for _, m := range lc.raw[c].list() {
			out = append(out, newCluster(zoom, []domain.Marker{m}))
		}
	}
	return filterClusters(out, bounds)
}

// ExpandCluster resolves a cluster click. Without clustering there are
// no clusters to expand.
func (lc *LayerController) ExpandCluster(clusterID string, zoom int) (domain.ClusterExpansion, error) {
	if !lc.clustering {
		return domain.ClusterExpansion{}, fmt.Errorf("expand %s: clustering disabled: %w", clusterID, domain.ErrNotFound)
	}
	return lc.index.Expand(clusterID, zoom)
}

// Status returns the toggle states and marker counts.
func (lc *LayerController) Status() domain.LayerStatus {
	st := domain.LayerStatus{ClusteringEnabled: lc.clustering}
	for _, c := range domain.Categories() {
		st.Categories = append(st.Categories, domain.LayerState{
			Category: c,
			Label:    c.Label(),
			Visible:  lc.visible[c],
			Markers:  len(lc.markers[c]),
		})
	}
	return st
}

// CheckInvariant verifies that each marker of a visible category is in
// exactly one place, and markers of hidden categories are nowhere.
func (lc *LayerController) CheckInvariant() error {
	for _, c := range domain.Categories() {
		for _, m := range lc.markers[c] {
			inIndex := lc.index.Has(m.SiteID)
			inRaw := lc.raw[c].has(m.SiteID)
			switch {
			case !lc.visible[c] && (inIndex || inRaw):
				return fmt.Errorf("hidden %s marker %s is on the map", c, m.SiteID)
			case lc.visible[c] && inIndex == inRaw:
				return fmt.Errorf("visible %s marker %s: index=%t raw=%t", c, m.SiteID, inIndex, inRaw)
			case lc.visible[c] && inIndex != lc.clustering:
				return fmt.Errorf("%s marker %s in wrong place for clustering=%t", c, m.SiteID, lc.clustering)
			}
		}
	}
	return nil
}
