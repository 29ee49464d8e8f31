package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/heritage-atlas/internal/adapters/driving/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API and Prometheus metrics",
	Long: `Starts an HTTP server exposing search, selection, clusters, layers and
locate as a JSON API under /api/v1, plus /metrics and /healthz.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "127.0.0.1:8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := ensureLoaded(cmd); err != nil {
		return err
	}
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}
	cmd.Printf("Atlas API listening on http://%s\n", addr)
	return httpapi.Serve(commandContext(cmd), addr, &httpapi.Ports{
		Search:    services.Search,
		Layers:    services.Layers,
		Presenter: services.Presenter,
		Registry:  services.Registry,
		Locator:   services.Locator,
		View:      services.View,
	})
}
