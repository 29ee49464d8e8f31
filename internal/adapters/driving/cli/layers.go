package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driving"
)

var layersJSON bool

var layersCmd = &cobra.Command{
	Use:   "layers",
	Short: "Show layer visibility and the map controls",
	RunE:  runLayers,
}

var layersToggleCmd = &cobra.Command{
	Use:   "toggle [control...]",
	Short: "Activate map controls in order, then show the layers",
	Long: `Activates one or more map controls by name, in order, and prints the
resulting layer state. Control names are shown by 'atlas layers', e.g.
"layer:temple", "clustering" and "locate".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLayersToggle,
}

func init() {
	layersCmd.PersistentFlags().BoolVar(&layersJSON, "json", false, "output as JSON")
	layersCmd.AddCommand(layersToggleCmd)
	rootCmd.AddCommand(layersCmd)
}

func runLayers(cmd *cobra.Command, _ []string) error {
	if err := ensureLoaded(cmd); err != nil {
		return err
	}
	if layersJSON {
		return printJSON(cmd, services.Layers.Status())
	}
	printLayers(cmd)
	return nil
}

func printLayers(cmd *cobra.Command) {
	st := services.Layers.Status()
	faint := color.New(color.Faint)
	for _, l := range st.Categories {
		mark := "[ ]"
		if l.Visible {
			mark = "[x]"
		}
		cmd.Printf("%s %-13s %6d markers\n", mark, l.Label, l.Markers)
	}
	if st.ClusteringEnabled {
		cmd.Println("Clustering: on")
	} else {
		cmd.Println("Clustering: off")
	}
	cmd.Println()
	cmd.Println("Controls:")
	for _, c := range services.Controls {
		cmd.Printf("  %-18s %s\n", c.Name(), faint.Sprint(c.Label()))
	}
}

func findControl(name string) (driving.ViewportControl, error) {
	for _, c := range services.Controls {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("unknown control %q", name)
}

func runLayersToggle(cmd *cobra.Command, args []string) error {
	if err := ensureLoaded(cmd); err != nil {
		return err
	}
	for _, name := range args {
		control, err := findControl(name)
		if err != nil {
			return err
		}
		status, err := control.Activate(commandContext(cmd))
		if err != nil {
			color.New(color.FgYellow).Fprintln(cmd.ErrOrStderr(), status)
			return err
		}
		cmd.Println(status)
	}
	if err := services.Layers.CheckInvariant(); err != nil {
		return err
	}
	if layersJSON {
		return printJSON(cmd, services.Layers.Status())
	}
	cmd.Println()
	printLayers(cmd)
	return nil
}
