package driving

import "github.com/custodia-labs/heritage-atlas/internal/core/domain"

// LayerController owns per-category visibility and the clustering toggle,
// and moves markers between raw layers and the cluster index.
// It must be driven from a single goroutine.
type LayerController interface {
	// AddMarkers routes newly ingested markers by the current state.
	AddMarkers(category domain.Category, markers []domain.Marker)

	// SetCategoryVisible shows or hides a category.
	SetCategoryVisible(category domain.Category, visible bool)

	// EnsureVisible shows a category if it is hidden.
	EnsureVisible(category domain.Category)

	// SetClusteringEnabled turns clustering on or off.
	SetClusteringEnabled(enabled bool)

	// Visible reports a category's visibility.
	Visible(category domain.Category) bool

	// ClusteringEnabled reports the clustering toggle.
	ClusteringEnabled() bool

	// Placement reports where a site's marker currently resides.
	Placement(siteID string) domain.Placement

	// Clusters returns what the map shows at zoom within bounds (nil for
	// everywhere): cluster representatives when clustering is enabled,
	// otherwise one singleton per raw-layer marker.
	Clusters(zoom int, bounds *domain.Bounds) []domain.Cluster

	// ExpandCluster resolves a click on a cluster at zoom.
	ExpandCluster(clusterID string, zoom int) (domain.ClusterExpansion, error)

	// Status returns a snapshot of the toggles and per-category counts.
	Status() domain.LayerStatus

	// CheckInvariant verifies exclusive marker placement.
	CheckInvariant() error
}
