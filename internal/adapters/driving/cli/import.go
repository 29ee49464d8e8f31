package cli

import (
	"errors"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
)

var (
	importWatch   bool
	importJSON    bool
	importHistory int
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load sites from the configured sources into the snapshot",
	Long: `Fetches every category from its configured source (a CSV file or URL),
validates the rows, and replaces each loaded category in the local
snapshot. A category whose fetch or header fails keeps its previous copy.

With --watch, local source files are re-imported whenever they change.`,
	RunE: runImport,
}

var importHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent import runs",
	RunE:  runImportHistory,
}

func init() {
	importCmd.Flags().BoolVarP(&importWatch, "watch", "w", false, "re-import when source files change")
	importCmd.Flags().BoolVar(&importJSON, "json", false, "output reports as JSON")
	importHistoryCmd.Flags().IntVarP(&importHistory, "limit", "n", 20, "number of runs to show")
	importHistoryCmd.Flags().BoolVar(&importJSON, "json", false, "output as JSON")
	importCmd.AddCommand(importHistoryCmd)
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	s, err := requireServices()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	reports := s.Loader.LoadAll(ctx, func(r domain.IngestReport) {
		if !importJSON {
			printReport(cmd, r)
		}
	})
	loaded = true
	if err := persist(ctx, reports); err != nil {
		return err
	}
	if importJSON {
		if err := printJSON(cmd, reports); err != nil {
			return err
		}
	}

	if !importWatch {
		return nil
	}
	if s.Watch == nil {
		return errors.New("watching is not available for the configured sources")
	}
	cmd.Println("Watching source files; press Ctrl+C to stop.")
	return s.Watch(ctx, func(c domain.Category) {
		r, err := s.Loader.LoadCategory(ctx, c)
		if err != nil {
			color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "%s: %v\n", c.Label(), err)
		}
		if err := persist(ctx, []domain.IngestReport{r}); err != nil {
			color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "saving snapshot: %v\n", err)
		}
		printReport(cmd, r)
	})
}

func printReport(cmd *cobra.Command, r domain.IngestReport) {
	if r.Rejected != nil {
		cmd.Print(color.New(color.FgRed).Sprintf("✗ %-13s", r.Category.Label()))
		cmd.Printf(" %v\n", r.Rejected)
		return
	}
	cmd.Print(color.New(color.FgGreen).Sprintf("✓ %-13s", r.Category.Label()))
	cmd.Printf(" %d rows, %d added, %d skipped\n", r.Rows, r.Added, len(r.Skipped))
	for _, issue := range r.Skipped {
		cmd.Print(color.New(color.Faint).Sprintf("    row %d: %s\n", issue.Row, issue.Reason))
	}
}

func runImportHistory(cmd *cobra.Command, _ []string) error {
	if services == nil || services.Imports == nil {
		return errors.New("import history not configured")
	}
	entries, err := services.Imports.Imports(commandContext(cmd), importHistory)
	if err != nil {
		return err
	}
	if importJSON {
		if entries == nil {
			entries = []domain.ImportEntry{}
		}
		return printJSON(cmd, entries)
	}
	if len(entries) == 0 {
		cmd.Println("No imports recorded.")
		return nil
	}
	for _, e := range entries {
		status := "ok"
		if e.Rejected != "" {
			status = "rejected: " + e.Rejected
		}
		cmd.Printf("%s  %-11s %4d rows %4d added %4d skipped  %s\n",
			e.ImportedAt.Local().Format(time.DateTime), e.Category, e.Rows, e.Added, e.Skipped, status)
		cmd.Printf("    %s\n", e.Source)
	}
	return nil
}
