package cli

import (
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
)

var (
	clustersZoom int
	clustersBBox string
	clustersJSON bool
	clustersRaw  bool
)

var clustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "Show the clusters drawn at a zoom level",
	Long: `Lists what the map draws at a zoom level: clusters with their member
count and category ring, and individual markers for singletons.

Use --bbox south,west,north,east to restrict to a visible area.`,
	RunE: runClusters,
}

var clustersExpandCmd = &cobra.Command{
	Use:   "expand [cluster-id]",
	Short: "Show what clicking a cluster does",
	Args:  cobra.ExactArgs(1),
	RunE:  runClustersExpand,
}

func init() {
	for _, c := range []*cobra.Command{clustersCmd, clustersExpandCmd} {
		c.Flags().IntVarP(&clustersZoom, "zoom", "z", -1, "zoom level (default: the configured start zoom)")
		c.Flags().BoolVar(&clustersJSON, "json", false, "output as JSON")
	}
	clustersCmd.Flags().StringVar(&clustersBBox, "bbox", "", "visible area as south,west,north,east")
	clustersCmd.Flags().BoolVar(&clustersRaw, "no-clustering", false, "show raw markers as with clustering off")
	clustersCmd.AddCommand(clustersExpandCmd)
	rootCmd.AddCommand(clustersCmd)
}

func zoomOrDefault() int {
	if clustersZoom >= 0 {
		return clustersZoom
	}
	return services.View.Viewport().Zoom
}

func runClusters(cmd *cobra.Command, _ []string) error {
	if err := ensureLoaded(cmd); err != nil {
		return err
	}
	var bounds *domain.Bounds
	if clustersBBox != "" {
		b, err := domain.ParseBounds(clustersBBox)
		if err != nil {
			return err
		}
		bounds = &b
	}
	if clustersRaw {
		services.Layers.SetClusteringEnabled(false)
	}

	zoom := zoomOrDefault()
	clusters := services.Layers.Clusters(zoom, bounds)
	if clustersJSON {
		if clusters == nil {
			clusters = []domain.Cluster{}
		}
		return printJSON(cmd, clusters)
	}

	if len(clusters) == 0 {
		cmd.Println("Nothing to draw.")
		return nil
	}
	bold := color.New(color.Bold)
	for _, c := range clusters {
		if c.IsSingle() {
			m := c.Members[0]
			cmd.Printf("  • %-12s %-11s %s\n", truncate(m.SiteID, 12), m.Category, m.Coordinates)
			continue
		}
		cmd.Print(bold.Sprintf("  ◉ %-12s %4d", c.ID, c.Count()))
		cmd.Printf("  %s  %s\n", c.Center, ring(c))
	}
	cmd.Printf("\n%d glyphs at zoom %d\n", len(clusters), zoom)
	return nil
}

// ring renders a cluster's composition, e.g. "Inscriptions 50% · Temples 50%".
func ring(c domain.Cluster) string {
	segs := c.Composition()
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = s.Category.Label() + " " + percent(s.Fraction)
	}
	return strings.Join(parts, " · ")
}

func percent(f float64) string {
	return color.New(color.Faint).Sprintf("%.0f%%", f*100)
}

func runClustersExpand(cmd *cobra.Command, args []string) error {
	if err := ensureLoaded(cmd); err != nil {
		return err
	}
	exp, err := services.Layers.ExpandCluster(args[0], zoomOrDefault())
	if err != nil {
		return err
	}
	if clustersJSON {
		return printJSON(cmd, exp)
	}
	switch exp.Action {
	case domain.ExpandZoomToBounds:
		vp := services.View.FitBounds(exp.Bounds)
		cmd.Printf("Zoom to %s (zoom %d)\n", exp.Bounds, vp.Zoom)
	case domain.ExpandSpiderfy:
		cmd.Printf("Spread %d markers around %s\n", len(exp.Legs), exp.Bounds.Center())
		for _, leg := range exp.Legs {
			cmd.Printf("  %-12s → %s\n", truncate(leg.Marker.SiteID, 12), leg.Position)
		}
	}
	return nil
}
