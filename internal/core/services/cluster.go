package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
)

// Spiderfy geometry in pixels.
const (
	circleFootSeparation   = 25.0
	spiralFootSeparation   = 28.0
	spiralLengthStart      = 11.0
	spiralLengthFactor     = 5.0
	circleSpiralSwitchover = 9
	circleStartAngle       = math.Pi / 6
)

// ClusterIndex owns the markers currently contributing to clustering
// and groups them per zoom level.
type ClusterIndex struct {
	settings domain.ClusterSettings
	view     domain.ViewSettings
	members  *markerSet
}

// NewClusterIndex creates an empty index. The view settings size the
// viewport used to decide between zooming and spiderfying.
func NewClusterIndex(settings domain.ClusterSettings, view domain.ViewSettings) *ClusterIndex {
	return &ClusterIndex{settings: settings, view: view, members: newMarkerSet()}
}

// Settings returns the radius table in use.
func (c *ClusterIndex) Settings() domain.ClusterSettings {
	return c.settings
}

// Add inserts a marker. Adding a present marker is an invariant violation.
func (c *ClusterIndex) Add(m domain.Marker) {
	if !c.members.add(m) {
		invariant("marker %s already in cluster index", m.SiteID)
	}
}

// Remove deletes a marker. Removing an absent marker is an invariant violation.
func (c *ClusterIndex) Remove(siteID string) {
	if !c.members.remove(siteID) {
		invariant("marker %s not in cluster index", siteID)
	}
}

// Has reports whether a marker is a member.
func (c *ClusterIndex) Has(siteID string) bool {
	return c.members.has(siteID)
}

// Len returns the number of members.
func (c *ClusterIndex) Len() int {
	return c.members.len()
}

// Markers returns the members in insertion order.
func (c *ClusterIndex) Markers() []domain.Marker {
	return c.members.list()
}

// Clusters groups the members at zoom. When bounds is non-nil only
// clusters centred inside it are returned.
func (c *ClusterIndex) Clusters(zoom int, bounds *domain.Bounds) []domain.Cluster {
	return filterClusters(groupMarkers(c.members.list(), zoom, c.settings), bounds)
}

// Expand resolves a click on a cluster: zoom to the members' bounds when
// that zooms in, otherwise spread the members radially.
func (c *ClusterIndex) Expand(clusterID string, zoom int) (domain.ClusterExpansion, error) {
	var target *domain.Cluster
	for _, cl := range c.Clusters(zoom, nil) {
		if cl.ID == clusterID {
			target = &cl
			break
		}
	}
	if target == nil {
		return domain.ClusterExpansion{}, fmt.Errorf("cluster %s at zoom %d: %w", clusterID, zoom, domain.ErrNotFound)
	}
	if target.IsSingle() {
		return domain.ClusterExpansion{}, fmt.Errorf("%w: %s is a single marker", domain.ErrInvalidInput, clusterID)
	}

	fit := domain.FitZoom(target.Bounds, c.view.WidthPixels, c.view.HeightPixels, c.settings.MaxZoom)
	if !target.Bounds.IsPoint() && fit > zoom {
		return domain.ClusterExpansion{
			ClusterID: clusterID,
			Action:    domain.ExpandZoomToBounds,
			Bounds:    target.Bounds,
		}, nil
	}
	return domain.ClusterExpansion{
		ClusterID: clusterID,
		Action:    domain.ExpandSpiderfy,
		Bounds:    target.Bounds,
		Legs:      spiderfy(*target, zoom),
	}, nil
}

type cellKey struct{ x, y int }

// groupMarkers clusters markers greedily in insertion order: each
// unassigned marker seeds a cluster that absorbs every unassigned marker
// within the radius in pixel space.
func groupMarkers(markers []domain.Marker, zoom int, settings domain.ClusterSettings) []domain.Cluster {
	radius, ok := settings.Radius(zoom)
	if !ok || radius <= 0 {
		out := make([]domain.Cluster, len(markers))
		for i, m := range markers {
			out[i] = newCluster(zoom, []domain.Marker{m})
		}
		return out
	}

	pts := make([]domain.Point, len(markers))
	grid := make(map[cellKey][]int)
	cellOf := func(p domain.Point) cellKey {
		return cellKey{int(math.Floor(p.X / radius)), int(math.Floor(p.Y / radius))}
	}
	for i, m := range markers {
		pts[i] = domain.Project(m.Coordinates, zoom)
		k := cellOf(pts[i])
		grid[k] = append(grid[k], i)
	}

	assigned := make([]bool, len(markers))
	var out []domain.Cluster
	for i := range markers {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		idx := []int{i}
		k := cellOf(pts[i])
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for _, j := range grid[cellKey{k.x + dx, k.y + dy}] {
					if !assigned[j] && pts[i].Distance(pts[j]) <= radius {
						assigned[j] = true
						idx = append(idx, j)
					}
				}
			}
		}
		sort.Ints(idx)
		members := make([]domain.Marker, len(idx))
		for n, j := range idx {
			members[n] = markers[j]
		}
		out = append(out, newCluster(zoom, members))
	}
	return out
}

// newCluster builds a cluster with a centroid center. The first member
// names the cluster.
func newCluster(zoom int, members []domain.Marker) domain.Cluster {
	var b domain.Bounds
	var sumLat, sumLng float64
	for _, m := range members {
		b.Extend(m.Coordinates)
		sumLat += m.Coordinates.Lat
		sumLng += m.Coordinates.Lng
	}
	n := float64(len(members))
	return domain.Cluster{
		ID:      fmt.Sprintf("%d/%s", zoom, members[0].SiteID),
		Zoom:    zoom,
		Center:  domain.Coordinates{Lat: sumLat / n, Lng: sumLng / n},
		Bounds:  b,
		Members: members,
	}
}

func filterClusters(clusters []domain.Cluster, bounds *domain.Bounds) []domain.Cluster {
	if bounds == nil {
		return clusters
	}
	out := clusters[:0:0]
	for _, cl := range clusters {
		if bounds.Contains(cl.Center) {
			out = append(out, cl)
		}
	}
	return out
}

// spiderfy places members on a circle, or a spiral for large clusters,
// around the cluster center.
func spiderfy(cl domain.Cluster, zoom int) []domain.SpiderLeg {
	center := domain.Project(cl.Center, zoom)
	count := len(cl.Members)
	offsets := make([]domain.Point, count)

	if count < circleSpiralSwitchover {
		legLength := circleFootSeparation * float64(2+count) / (2 * math.Pi)
		step := 2 * math.Pi / float64(count)
		for i := range offsets {
			angle := circleStartAngle + float64(i)*step
			offsets[i] = domain.Point{X: legLength * math.Cos(angle), Y: legLength * math.Sin(angle)}
		}
	} else {
		legLength := spiralLengthStart
		angle := 0.0
		for i := range offsets {
			angle += spiralFootSeparation/legLength + float64(i)*0.0005
			offsets[i] = domain.Point{X: legLength * math.Cos(angle), Y: legLength * math.Sin(angle)}
			legLength += 2 * math.Pi * spiralLengthFactor / angle
		}
	}

	legs := make([]domain.SpiderLeg, count)
	for i, m := range cl.Members {
		p := domain.Point{X: center.X + offsets[i].X, Y: center.Y + offsets[i].Y}
		legs[i] = domain.SpiderLeg{Marker: m, Position: domain.Unproject(p, zoom)}
	}
	return legs
}
