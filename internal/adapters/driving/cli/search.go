package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
)

var (
	searchJSON   bool
	searchSelect int
	searchAll    bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search heritage sites and places",
	Long: `Searches loaded heritage sites by name and description, and places by
name through the configured lookup service. A "lat, lng" query is shown
as a coordinate result instead.

Results are grouped: heritage sites by category, then places, then
coordinates. Use --select to focus one result or --all to fit the map to
every result.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().IntVarP(&searchSelect, "select", "s", 0, "select result N (1-based) and show the map focus")
	searchCmd.Flags().BoolVar(&searchAll, "all", false, "select every result")
	rootCmd.AddCommand(searchCmd)
}

type searchOutput struct {
	Query             string               `json:"query"`
	Groups            []domain.ResultGroup `json:"groups"`
	PlacesUnavailable bool                 `json:"placesUnavailable,omitempty"`
	Selection         *domain.Selection    `json:"selection,omitempty"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := ensureLoaded(cmd); err != nil {
		return err
	}
	s := services

	set, err := s.Search.Search(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	out := searchOutput{
		Query:             set.Query,
		Groups:            s.Presenter.Present(set),
		PlacesUnavailable: set.PlacesUnavailable,
	}

	switch {
	case searchAll && !set.IsEmpty():
		sel, err := s.Presenter.SelectAll(set.Results)
		if err != nil {
			return err
		}
		out.Selection = &sel
	case searchSelect > 0:
		sel, err := s.Presenter.SelectIndex(searchSelect - 1)
		if err != nil {
			return err
		}
		if sel.PopupAfter > 0 {
			s.Presenter.OpenPopup(sel.PopupHighlight)
		}
		out.Selection = &sel
	}

	if searchJSON {
		return printJSON(cmd, out)
	}
	printSearch(cmd.OutOrStdout(), out)
	return nil
}

func printSearch(w io.Writer, out searchOutput) {
	if len(out.Groups) == 0 {
		fmt.Fprintln(w, "No results found.")
	}

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	n := 0
	for _, g := range out.Groups {
		bold.Fprintln(w, g.Title)
		for _, r := range g.Results {
			n++
			fmt.Fprintf(w, "  [%d] %s", n, r.Label)
			faint.Fprintf(w, "  %s\n", r.Coordinates)
			if r.AddressText != "" && r.AddressText != r.Label {
				faint.Fprintf(w, "      %s\n", r.AddressText)
			}
		}
		fmt.Fprintln(w)
	}
	if out.PlacesUnavailable {
		color.New(color.FgYellow).Fprintln(w, "Place search is unavailable; showing heritage sites only.")
	}

	if out.Selection != nil {
		printSelection(w, *out.Selection)
	}
}

func printSelection(w io.Writer, sel domain.Selection) {
	green := color.New(color.FgGreen)
	for _, h := range sel.Highlights {
		green.Fprintf(w, "● %s", h.Label)
		fmt.Fprintf(w, "  %s\n", h.Coordinates)
		if h.Popup != "" {
			fmt.Fprintf(w, "%s\n", indent(h.Popup, "    "))
		}
	}
	fmt.Fprintf(w, "Map: %s at zoom %d\n", sel.Viewport.Center, sel.Viewport.Zoom)
}
