package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
)

var (
	sitesCategory string
	sitesJSON     bool
	sitesLimit    int
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List loaded heritage sites",
	RunE:  runSites,
}

var siteShowCmd = &cobra.Command{
	Use:   "show [site-id]",
	Short: "Show one site with its popup content",
	Args:  cobra.ExactArgs(1),
	RunE:  runSiteShow,
}

func init() {
	sitesCmd.Flags().StringVarP(&sitesCategory, "category", "c", "", "only list one category")
	sitesCmd.Flags().BoolVar(&sitesJSON, "json", false, "output as JSON")
	sitesCmd.Flags().IntVarP(&sitesLimit, "limit", "n", 0, "maximum number of sites (0 = all)")
	siteShowCmd.Flags().BoolVar(&sitesJSON, "json", false, "output as JSON")
	sitesCmd.AddCommand(siteShowCmd)
	rootCmd.AddCommand(sitesCmd)
}

func runSites(cmd *cobra.Command, _ []string) error {
	if err := ensureLoaded(cmd); err != nil {
		return err
	}

	var filter domain.Category
	if sitesCategory != "" {
		c, err := domain.ParseCategory(sitesCategory)
		if err != nil {
			return err
		}
		filter = c
	}

	var records []domain.SiteRecord
	for _, rec := range services.Registry.All() {
		if filter != "" && rec.Category != filter {
			continue
		}
		records = append(records, rec)
		if sitesLimit > 0 && len(records) >= sitesLimit {
			break
		}
	}

	if sitesJSON {
		if records == nil {
			records = []domain.SiteRecord{}
		}
		return printJSON(cmd, records)
	}

	if len(records) == 0 {
		cmd.Println("No sites loaded.")
		return nil
	}
	faint := color.New(color.Faint)
	for _, rec := range records {
		cmd.Printf("%-12s %-11s %s", truncate(rec.ID, 12), rec.Category, truncate(rec.DisplayName(), 48))
		cmd.Print(faint.Sprintf("  %s\n", rec.Coordinates))
	}
	cmd.Println()
	for _, c := range domain.Categories() {
		cmd.Printf("%s: %d  ", c.Label(), services.Registry.Count(c))
	}
	cmd.Println()
	return nil
}

func runSiteShow(cmd *cobra.Command, args []string) error {
	if err := ensureLoaded(cmd); err != nil {
		return err
	}
	rec, err := services.Registry.Get(args[0])
	if err != nil {
		return err
	}
	if sitesJSON {
		return printJSON(cmd, rec)
	}
	cmd.Printf("%s (%s)\n", rec.ID, rec.Category.Label())
	cmd.Printf("Location: %s\n", rec.Coordinates)
	cmd.Println(indent(rec.PopupContent(), "  "))
	if services.Layers != nil {
		cmd.Printf("Marker: %s\n", services.Layers.Placement(rec.ID))
	}
	return nil
}
