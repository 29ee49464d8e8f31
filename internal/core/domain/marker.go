package domain

// Marker is the map handle of a site. At any time a marker is owned by
// at most one of its category's raw layer or the shared cluster index.
type Marker struct {
	SiteID      string      `json:"siteId"`
	Category    Category    `json:"category"`
	Coordinates Coordinates `json:"coordinates"`
}

// LayerKind distinguishes raw per-category layers from the cluster layer.
type LayerKind string

// Layer kinds.
const (
	// LayerRaw is a per-category layer shown when clustering is disabled.
	LayerRaw LayerKind = "raw"

	// LayerCluster is the single shared cluster layer.
	LayerCluster LayerKind = "cluster"
)

// LayerID names a map layer. Raw layers carry their category explicitly;
// the cluster layer carries none.
type LayerID struct {
	Kind     LayerKind `json:"kind"`
	Category Category  `json:"category,omitempty"`
}

// RawLayer returns the raw layer ID of a category.
func RawLayer(c Category) LayerID {
	return LayerID{Kind: LayerRaw, Category: c}
}

// ClusterLayer returns the shared cluster layer ID.
func ClusterLayer() LayerID {
	return LayerID{Kind: LayerCluster}
}

// String returns "cluster" or "raw:<category>".
func (id LayerID) String() string {
	if id.Kind == LayerCluster {
		return string(LayerCluster)
	}
	return string(id.Kind) + ":" + string(id.Category)
}

// Placement reports where a marker currently resides.
type Placement string

// Marker placements.
const (
	PlacementHidden    Placement = "hidden"
	PlacementRaw       Placement = "raw"
	PlacementClustered Placement = "clustered"
)

// LayerState is the visibility status of one category.
type LayerState struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Visible  bool     `json:"visible"`
	Markers  int      `json:"markers"`
}

// LayerStatus is a snapshot of the layer controller.
type LayerStatus struct {
	ClusteringEnabled bool         `json:"clusteringEnabled"`
	Categories        []LayerState `json:"categories"`
}
