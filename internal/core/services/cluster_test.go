package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
)

func newTestIndex() *ClusterIndex {
	return NewClusterIndex(domain.DefaultClusterSettings(), domain.DefaultViewSettings())
}

func marker(id string, c domain.Category, lat, lng float64) domain.Marker {
	return domain.Marker{SiteID: id, Category: c, Coordinates: domain.Coordinates{Lat: lat, Lng: lng}}
}

func TestClusterIndex_GroupsNearbyMarkers(t *testing.T) {
	idx := newTestIndex()
	idx.Add(marker("a", domain.CategoryTemple, 12.97, 77.59))
	idx.Add(marker("b", domain.CategoryInscription, 12.98, 77.60))
	idx.Add(marker("c", domain.CategoryTemple, 15.0, 75.0))

	clusters := idx.Clusters(7, nil)
	require.Len(t, clusters, 2)

	assert.Equal(t, "7/a", clusters[0].ID)
	assert.Equal(t, 2, clusters[0].Count())
	assert.InDelta(t, 12.975, clusters[0].Center.Lat, 1e-9)
	assert.InDelta(t, 77.595, clusters[0].Center.Lng, 1e-9)
	assert.True(t, clusters[0].Bounds.Contains(domain.Coordinates{Lat: 12.98, Lng: 77.60}))

	assert.Equal(t, "7/c", clusters[1].ID)
	assert.True(t, clusters[1].IsSingle())
}

func TestClusterIndex_SplitsAsZoomIncreases(t *testing.T) {
	idx := newTestIndex()
	idx.Add(marker("a", domain.CategoryTemple, 12.97, 77.59))
	idx.Add(marker("b", domain.CategoryTemple, 12.98, 77.60))

	assert.Len(t, idx.Clusters(7, nil), 1)
	assert.Len(t, idx.Clusters(13, nil), 2)
}

func TestClusterIndex_DisabledAtHighZoom(t *testing.T) {
	idx := newTestIndex()
	idx.Add(marker("a", domain.CategoryTemple, 12.97, 77.59))
	idx.Add(marker("b", domain.CategoryTemple, 12.97, 77.59))

	assert.Len(t, idx.Clusters(15, nil), 1)
	clusters := idx.Clusters(16, nil)
	require.Len(t, clusters, 2)
	assert.Equal(t, "16/a", clusters[0].ID)
	assert.Equal(t, "16/b", clusters[1].ID)
}

func TestClusterIndex_BoundsFilter(t *testing.T) {
	idx := newTestIndex()
	idx.Add(marker("a", domain.CategoryTemple, 12.97, 77.59))
	idx.Add(marker("c", domain.CategoryTemple, 15.0, 75.0))

	view := domain.BoundsOf(
		domain.Coordinates{Lat: 12, Lng: 77},
		domain.Coordinates{Lat: 13, Lng: 78},
	)
	clusters := idx.Clusters(7, &view)
	require.Len(t, clusters, 1)
	assert.Equal(t, "7/a", clusters[0].ID)
}

func TestClusterIndex_MembershipOrder(t *testing.T) {
	idx := newTestIndex()
	idx.Add(marker("z", domain.CategoryTemple, 1, 1))
	idx.Add(marker("a", domain.CategoryTemple, 2, 2))
	idx.Add(marker("m", domain.CategoryTemple, 3, 3))
	idx.Remove("a")

	assert.Equal(t, 2, idx.Len())
	assert.True(t, idx.Has("z"))
	assert.False(t, idx.Has("a"))
	got := idx.Markers()
	require.Len(t, got, 2)
	assert.Equal(t, "z", got[0].SiteID)
	assert.Equal(t, "m", got[1].SiteID)
}

func TestClusterIndex_ExpandZoomsToBounds(t *testing.T) {
	idx := newTestIndex()
	idx.Add(marker("a", domain.CategoryTemple, 12.97, 77.59))
	idx.Add(marker("b", domain.CategoryTemple, 12.98, 77.60))

	exp, err := idx.Expand("7/a", 7)
	require.NoError(t, err)
	assert.Equal(t, domain.ExpandZoomToBounds, exp.Action)
	assert.Equal(t, "7/a", exp.ClusterID)
	assert.Empty(t, exp.Legs)
	assert.Equal(t, 12.97, exp.Bounds.South)
	assert.Equal(t, 12.98, exp.Bounds.North)
}

func TestClusterIndex_ExpandSpiderfiesCoincidentMarkers(t *testing.T) {
	idx := newTestIndex()
	idx.Add(marker("a", domain.CategoryTemple, 12.97, 77.59))
	idx.Add(marker("b", domain.CategoryHerostone, 12.97, 77.59))
	idx.Add(marker("c", domain.CategoryInscription, 12.97, 77.59))

	exp, err := idx.Expand("15/a", 15)
	require.NoError(t, err)
	assert.Equal(t, domain.ExpandSpiderfy, exp.Action)
	require.Len(t, exp.Legs, 3)

	center := domain.Project(domain.Coordinates{Lat: 12.97, Lng: 77.59}, 15)
	want := circleFootSeparation * 5 / (2 * 3.141592653589793)
	seen := make(map[string]bool)
	for i, leg := range exp.Legs {
		assert.Equal(t, []string{"a", "b", "c"}[i], leg.Marker.SiteID)
		p := domain.Project(leg.Position, 15)
		assert.InDelta(t, want, p.Distance(center), 1e-6)
		seen[leg.Position.String()] = true
	}
	assert.Len(t, seen, 3)
}

func TestClusterIndex_ExpandSpiral(t *testing.T) {
	idx := newTestIndex()
	for i := 0; i < 12; i++ {
		idx.Add(marker(fmt.Sprintf("s%02d", i), domain.CategoryTemple, 12.97, 77.59))
	}

	exp, err := idx.Expand("10/s00", 10)
	require.NoError(t, err)
	assert.Equal(t, domain.ExpandSpiderfy, exp.Action)
	require.Len(t, exp.Legs, 12)

	center := domain.Project(domain.Coordinates{Lat: 12.97, Lng: 77.59}, 10)
	first := domain.Project(exp.Legs[0].Position, 10).Distance(center)
	last := domain.Project(exp.Legs[11].Position, 10).Distance(center)
	assert.InDelta(t, spiralLengthStart, first, 1e-6)
	assert.Greater(t, last, first)
}

func TestClusterIndex_ExpandErrors(t *testing.T) {
	idx := newTestIndex()
	idx.Add(marker("a", domain.CategoryTemple, 12.97, 77.59))

	_, err := idx.Expand("7/missing", 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = idx.Expand("7/a", 7)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
