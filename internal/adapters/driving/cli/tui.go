package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/heritage-atlas/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal map browser.

Search sites, places and coordinates, focus results on the map, and
toggle category layers, clustering and your location.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Search / Show on map
  a        - Show all results
  Space    - Toggle layer or control
  Esc      - Back
  ?        - Help
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if err := ensureLoaded(cmd); err != nil {
		return err
	}
	s := services

	ports := &tui.Ports{
		Search:    s.Search,
		Presenter: s.Presenter,
		Layers:    s.Layers,
		Controls:  s.Controls,
		View:      s.View,
	}
	if s.Settings != nil {
		ports.MinQueryLength = s.Settings.Get().Search.MinQueryLength
	}
	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(commandContext(cmd))

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(commandContext(cmd)))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
