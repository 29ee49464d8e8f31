package cli

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/metrics"
)

var locateJSON bool

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Find the current position",
	Long: `Asks the configured geolocation source for the current position and
centres the map on it. Sources are a fixed position (geo.fixed) or a
MaxMind City database (geo.database with geo.ip).`,
	RunE: runLocate,
}

func init() {
	locateCmd.Flags().BoolVar(&locateJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(locateCmd)
}

func runLocate(cmd *cobra.Command, _ []string) error {
	if services == nil || services.Locator == nil {
		return errors.New("locator not configured")
	}
	marker, err := services.Locator.Locate(commandContext(cmd))
	metrics.ObserveLocate(err)
	if err != nil {
		var le *domain.LocateError
		if errors.As(err, &le) {
			if locateJSON {
				_ = printJSON(cmd, map[string]string{"error": string(le.Kind), "message": le.Message()})
			} else {
				color.New(color.FgYellow).Fprintln(cmd.ErrOrStderr(), le.Message())
			}
		}
		return err
	}
	if locateJSON {
		return printJSON(cmd, marker)
	}
	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "● %s\n", marker.Label)
	cmd.Printf("Position: %s\n", marker.Position.Coordinates)
	if services.View != nil {
		if vp := services.View.Viewport(); vp.Center == marker.Position.Coordinates {
			cmd.Printf("Map: zoom %d\n", vp.Zoom)
		}
	}
	return nil
}
