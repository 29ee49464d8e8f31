package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	if ports.Search == nil {
		ports.Search = &mockSearchService{}
	}
	if ports.Layers == nil {
		ports.Layers = newMockLayers()
	}
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func ptr(f float64) *float64 { return &f }

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("groups results through the presenter", func(t *testing.T) {
		search := &mockSearchService{set: domain.ResultSet{
			Results: []domain.SearchResult{
				{Kind: domain.ResultPlace, Label: "Kolar, Karnataka"},
				{Kind: domain.ResultHeritageSite, Category: domain.CategoryTemple, SiteID: "t1", Label: "Someshwara Temple"},
			},
			PlacesUnavailable: false,
		}}
		presenter := &mockPresenter{}
		server := newTestServer(t, &Ports{Search: search, Presenter: presenter})

		_, out, err := server.handleSearch(ctx, nil, SearchInput{Query: "kolar"})
		require.NoError(t, err)
		assert.Equal(t, 2, out.Count)
		require.Len(t, out.Groups, 2)
		assert.Equal(t, domain.ResultHeritageSite, out.Groups[0].Kind)
		assert.Equal(t, domain.ResultPlace, out.Groups[1].Kind)
		assert.Equal(t, "kolar", presenter.current.Query)
	})

	t.Run("reports unavailable places", func(t *testing.T) {
		search := &mockSearchService{set: domain.ResultSet{PlacesUnavailable: true}}
		server := newTestServer(t, &Ports{Search: search})

		_, out, err := server.handleSearch(ctx, nil, SearchInput{Query: "kolar"})
		require.NoError(t, err)
		assert.True(t, out.PlacesUnavailable)
		assert.Empty(t, out.Groups)
	})

	t.Run("superseded search is not presented", func(t *testing.T) {
		presenter := &mockPresenter{}
		search := &heldSearch{held: "kolar", started: make(chan struct{}), release: make(chan struct{})}
		server := newTestServer(t, &Ports{Search: search, Presenter: presenter})

		done := make(chan SearchOutput, 1)
		go func() {
			_, out, _ := server.handleSearch(ctx, nil, SearchInput{Query: "kolar"})
			done <- out
		}()
		<-search.started

		_, out, err := server.handleSearch(ctx, nil, SearchInput{Query: "belur"})
		require.NoError(t, err)
		assert.False(t, out.Stale)

		close(search.release)
		slow := <-done
		assert.True(t, slow.Stale)
		assert.Equal(t, "belur", presenter.current.Query)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		server := newTestServer(t, &Ports{Search: &mockSearchService{err: errors.New("search failed")}})

		_, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "kolar"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestServer_handleSelect(t *testing.T) {
	ctx := context.Background()

	t.Run("opens the scheduled popup", func(t *testing.T) {
		presenter := &mockPresenter{selection: domain.Selection{
			Highlights:     []domain.Highlight{{ID: 3, Label: "Someshwara Temple"}},
			PopupAfter:     400 * time.Millisecond,
			PopupHighlight: 3,
		}}
		server := newTestServer(t, &Ports{Presenter: presenter})

		_, sel, err := server.handleSelect(ctx, nil, SelectInput{Index: 0})
		require.NoError(t, err)
		assert.Len(t, sel.Highlights, 1)
		assert.Equal(t, []domain.HighlightID{3}, presenter.opened)
	})

	t.Run("select all uses the current results", func(t *testing.T) {
		presenter := &mockPresenter{current: domain.ResultSet{Results: make([]domain.SearchResult, 3)}}
		server := newTestServer(t, &Ports{Presenter: presenter})

		_, _, err := server.handleSelect(ctx, nil, SelectInput{All: true})
		require.NoError(t, err)
		assert.Equal(t, 3, presenter.selectAll)
		assert.Empty(t, presenter.opened)
	})

	t.Run("propagates selection errors", func(t *testing.T) {
		presenter := &mockPresenter{err: domain.ErrNoResult}
		server := newTestServer(t, &Ports{Presenter: presenter})

		_, _, err := server.handleSelect(ctx, nil, SelectInput{Index: 9})
		assert.ErrorIs(t, err, domain.ErrNoResult)
	})
}

func TestServer_handleListClusters(t *testing.T) {
	ctx := context.Background()
	single := domain.Marker{SiteID: "t1", Category: domain.CategoryTemple}
	layers := newMockLayers()
	layers.clusters = []domain.Cluster{
		{ID: "8/t1", Members: []domain.Marker{single}},
		{ID: "8/i1", Members: []domain.Marker{
			{SiteID: "i1", Category: domain.CategoryInscription},
			{SiteID: "h1", Category: domain.CategoryHerostone},
		}},
	}
	server := newTestServer(t, &Ports{Layers: layers})

	t.Run("everywhere", func(t *testing.T) {
		_, out, err := server.handleListClusters(ctx, nil, ClustersInput{Zoom: 8})
		require.NoError(t, err)
		require.Len(t, out.Clusters, 2)
		assert.Equal(t, "t1", out.Clusters[0].SiteID)
		assert.Equal(t, "", out.Clusters[1].SiteID)
		assert.Equal(t, 2, out.Clusters[1].Count)
		assert.Len(t, out.Clusters[1].Ring, 2)
		assert.Nil(t, layers.lastBounds)
		assert.Equal(t, 8, layers.lastZoom)
	})

	t.Run("within bounds", func(t *testing.T) {
		in := ClustersInput{Zoom: 10, South: ptr(12), West: ptr(75), North: ptr(14), East: ptr(79)}
		_, _, err := server.handleListClusters(ctx, nil, in)
		require.NoError(t, err)
		require.NotNil(t, layers.lastBounds)
		assert.True(t, layers.lastBounds.Contains(domain.Coordinates{Lat: 13, Lng: 78}))
	})

	t.Run("partial bounds", func(t *testing.T) {
		_, _, err := server.handleListClusters(ctx, nil, ClustersInput{Zoom: 10, South: ptr(12)})
		assert.Error(t, err)
	})
}

func TestServer_handleExpandCluster(t *testing.T) {
	layers := newMockLayers()
	layers.expansion = domain.ClusterExpansion{ClusterID: "8/t1", Action: domain.ExpandSpiderfy}
	server := newTestServer(t, &Ports{Layers: layers})

	_, exp, err := server.handleExpandCluster(context.Background(), nil, ExpandInput{ClusterID: "8/t1", Zoom: 8})
	require.NoError(t, err)
	assert.Equal(t, domain.ExpandSpiderfy, exp.Action)

	layers.expandErr = domain.ErrNotFound
	_, _, err = server.handleExpandCluster(context.Background(), nil, ExpandInput{ClusterID: "x", Zoom: 8})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestServer_handleSetLayer(t *testing.T) {
	layers := newMockLayers()
	server := newTestServer(t, &Ports{Layers: layers})

	_, status, err := server.handleSetLayer(context.Background(), nil, LayerInput{Category: "temples", Visible: false})
	require.NoError(t, err)
	assert.False(t, layers.visible[domain.CategoryTemple])
	assert.False(t, status.Categories[2].Visible)

	_, _, err = server.handleSetLayer(context.Background(), nil, LayerInput{Category: "forts"})
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
}

func TestServer_handleSetClustering(t *testing.T) {
	layers := newMockLayers()
	server := newTestServer(t, &Ports{Layers: layers})

	_, status, err := server.handleSetClustering(context.Background(), nil, ClusteringInput{Enabled: false})
	require.NoError(t, err)
	assert.False(t, status.ClusteringEnabled)
	assert.False(t, layers.clustering)
}

func TestServer_handleLocate(t *testing.T) {
	ctx := context.Background()

	t.Run("returns marker", func(t *testing.T) {
		marker := domain.LocationMarker{Label: "You are here"}
		server := newTestServer(t, &Ports{Locator: &mockLocator{marker: marker}})

		_, out, err := server.handleLocate(ctx, nil, struct{}{})
		require.NoError(t, err)
		require.NotNil(t, out.Marker)
		assert.Equal(t, "You are here", out.Marker.Label)
	})

	t.Run("reports failure kind", func(t *testing.T) {
		locErr := domain.NewLocateError(domain.LocatePermissionDenied, nil)
		server := newTestServer(t, &Ports{Locator: &mockLocator{err: locErr}})

		_, out, err := server.handleLocate(ctx, nil, struct{}{})
		require.NoError(t, err)
		assert.Nil(t, out.Marker)
		assert.Equal(t, "permission_denied", out.Error)
		assert.Equal(t, domain.LocatePermissionDenied.Message(), out.Message)
	})
}
