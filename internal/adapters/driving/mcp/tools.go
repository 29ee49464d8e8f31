package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/metrics"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"site name, place name, or a 'lat, lng' pair"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Groups            []domain.ResultGroup `json:"groups"`
	Count             int                  `json:"count"`
	PlacesUnavailable bool                 `json:"places_unavailable,omitempty"`
	Stale             bool                 `json:"stale,omitempty" jsonschema:"a later search was shown instead of this one"`
}

// SelectInput is the input schema for the select_result tool.
type SelectInput struct {
	Index int  `json:"index" jsonschema:"zero-based result index in presentation order"`
	All   bool `json:"all,omitempty" jsonschema:"select every result of the last search instead"`
}

// ClustersInput is the input schema for the list_clusters tool.
type ClustersInput struct {
	Zoom  int      `json:"zoom" jsonschema:"map zoom level"`
	South *float64 `json:"south,omitempty" jsonschema:"southern latitude of the visible area"`
	West  *float64 `json:"west,omitempty" jsonschema:"western longitude of the visible area"`
	North *float64 `json:"north,omitempty" jsonschema:"northern latitude of the visible area"`
	East  *float64 `json:"east,omitempty" jsonschema:"eastern longitude of the visible area"`
}

// ClusterOutput is one entry of the list_clusters result.
type ClusterOutput struct {
	ID     string             `json:"id"`
	Count  int                `json:"count"`
	Center domain.Coordinates `json:"center"`
	Ring   []domain.Segment   `json:"ring"`
	SiteID string             `json:"site_id,omitempty"`
}

// ClustersOutput is the output schema for the list_clusters tool.
type ClustersOutput struct {
	Clusters []ClusterOutput `json:"clusters"`
}

// ExpandInput is the input schema for the expand_cluster tool.
type ExpandInput struct {
	ClusterID string `json:"cluster_id" jsonschema:"cluster ID from list_clusters"`
	Zoom      int    `json:"zoom" jsonschema:"zoom level the cluster was listed at"`
}

// LayerInput is the input schema for the set_layer tool.
type LayerInput struct {
	Category string `json:"category" jsonschema:"inscription, herostone or temple"`
	Visible  bool   `json:"visible" jsonschema:"show (true) or hide (false) the category"`
}

// ClusteringInput is the input schema for the set_clustering tool.
type ClusteringInput struct {
	Enabled bool `json:"enabled" jsonschema:"turn marker clustering on or off"`
}

// LocateOutput is the output schema for the locate tool.
type LocateOutput struct {
	Marker  *domain.LocationMarker `json:"marker,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search heritage sites and places, or parse coordinates",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_clusters",
		Description: "List the markers and clusters shown at a zoom level",
	}, s.handleListClusters)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "expand_cluster",
		Description: "Resolve a click on a cluster: zoom to its bounds or spread its members",
	}, s.handleExpandCluster)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "set_layer",
		Description: "Show or hide a heritage category",
	}, s.handleSetLayer)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "set_clustering",
		Description: "Turn marker clustering on or off",
	}, s.handleSetClustering)

	if s.ports.Presenter != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "select_result",
			Description: "Highlight a result of the last search and move the map to it",
		}, s.handleSelect)
	}

	if s.ports.Locator != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "locate",
			Description: "Find the current device position",
		}, s.handleLocate)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	seq := s.searches.Add(1)
	set, err := s.ports.Search.Search(ctx, input.Query)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := SearchOutput{
		Count:             len(set.Results),
		PlacesUnavailable: set.PlacesUnavailable,
	}
	switch {
	case s.ports.Presenter == nil:
		out.Groups = set.Groups()
	case seq > s.presented:
		out.Groups = s.ports.Presenter.Present(set)
		s.presented = seq
	default:
		out.Groups = set.Groups()
		out.Stale = true
	}
	return nil, out, nil
}

// handleSelect handles the select_result tool invocation.
func (s *Server) handleSelect(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SelectInput,
) (*mcp.CallToolResult, domain.Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if input.All {
		sel, err := s.ports.Presenter.SelectAll(s.ports.Presenter.Current().Results)
		return nil, sel, err
	}
	sel, err := s.ports.Presenter.SelectIndex(input.Index)
	if err != nil {
		return nil, domain.Selection{}, err
	}
	// No client timer renders the delayed popup, so open it now.
	if sel.PopupAfter > 0 {
		s.ports.Presenter.OpenPopup(sel.PopupHighlight)
	}
	return nil, sel, nil
}

// handleListClusters handles the list_clusters tool invocation.
func (s *Server) handleListClusters(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ClustersInput,
) (*mcp.CallToolResult, ClustersOutput, error) {
	bounds, err := input.bounds()
	if err != nil {
		return nil, ClustersOutput{}, err
	}

	s.mu.Lock()
	clusters := s.ports.Layers.Clusters(input.Zoom, bounds)
	s.mu.Unlock()

	out := ClustersOutput{Clusters: make([]ClusterOutput, len(clusters))}
	for i, c := range clusters {
		out.Clusters[i] = ClusterOutput{
			ID:     c.ID,
			Count:  c.Count(),
			Center: c.Center,
			Ring:   c.Composition(),
		}
		if c.IsSingle() {
			out.Clusters[i].SiteID = c.Members[0].SiteID
		}
	}
	return nil, out, nil
}

func (in ClustersInput) bounds() (*domain.Bounds, error) {
	set := 0
	for _, v := range []*float64{in.South, in.West, in.North, in.East} {
		if v != nil {
			set++
		}
	}
	switch set {
	case 0:
		return nil, nil
	case 4:
		b := domain.NewBounds(
			domain.Coordinates{Lat: *in.South, Lng: *in.West},
			domain.Coordinates{Lat: *in.North, Lng: *in.East},
		)
		return &b, nil
	default:
		return nil, errors.New("bounds need all of south, west, north and east")
	}
}

// handleExpandCluster handles the expand_cluster tool invocation.
func (s *Server) handleExpandCluster(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ExpandInput,
) (*mcp.CallToolResult, domain.ClusterExpansion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, err := s.ports.Layers.ExpandCluster(input.ClusterID, input.Zoom)
	return nil, exp, err
}

// handleSetLayer handles the set_layer tool invocation.
func (s *Server) handleSetLayer(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input LayerInput,
) (*mcp.CallToolResult, domain.LayerStatus, error) {
	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return nil, domain.LayerStatus{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ports.Layers.SetCategoryVisible(category, input.Visible)
	return nil, s.ports.Layers.Status(), nil
}

// handleSetClustering handles the set_clustering tool invocation.
func (s *Server) handleSetClustering(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ClusteringInput,
) (*mcp.CallToolResult, domain.LayerStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ports.Layers.SetClusteringEnabled(input.Enabled)
	return nil, s.ports.Layers.Status(), nil
}

// handleLocate handles the locate tool invocation. A failed fix is
// reported in the output, not as a tool error.
func (s *Server) handleLocate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, LocateOutput, error) {
	marker, err := s.ports.Locator.Locate(ctx)
	metrics.ObserveLocate(err)
	if err != nil {
		var le *domain.LocateError
		if errors.As(err, &le) {
			return nil, LocateOutput{Error: string(le.Kind), Message: le.Message()}, nil
		}
		return nil, LocateOutput{}, err
	}
	return nil, LocateOutput{Marker: &marker}, nil
}
