// Package cli implements the atlas command line on cobra.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driven"
	"github.com/custodia-labs/heritage-atlas/internal/core/ports/driving"
	"github.com/custodia-labs/heritage-atlas/internal/logger"
	"github.com/custodia-labs/heritage-atlas/internal/metrics"
)

// version is set at build time via ldflags.
var version = "dev"

// Services are the core services and optional adapters the commands drive.
type Services struct {
	Registry  driving.SiteRegistry
	Layers    driving.LayerController
	Search    driving.SearchService
	Presenter driving.ResultPresenter
	Locator   driving.Locator
	Loader    driving.Loader
	Settings  driving.SettingsService
	Controls  []driving.ViewportControl
	View      driven.MapView

	// Store and Imports persist imported sites and import runs. Optional.
	Store   driven.SiteStore
	Imports driven.ImportLog

	// Watch reports categories whose source changed until ctx is done. Optional.
	Watch func(ctx context.Context, onChange func(domain.Category)) error
}

var (
	services *Services
	loaded   bool

	verbose      bool
	logLevel     string
	fromSnapshot bool
)

var rootCmd = &cobra.Command{
	Use:   "atlas",
	Short: "Explore heritage sites on a map",
	Long: `Atlas loads inscriptions, herostones and temples from tabular exports,
clusters them for the map, and searches sites, places and coordinates.

Every run fetches the three categories from the configured sources and
keeps the latest copy of each in a local snapshot. Pass --snapshot to
load that copy instead of fetching.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level := logLevel
		if level == "" {
			level = os.Getenv("ATLAS_LOG_LEVEL")
		}
		if level != "" {
			l, ok := logger.ParseLevel(level)
			if !ok {
				return fmt.Errorf("unknown log level %q", level)
			}
			logger.SetLevel(l)
		}
		if verbose {
			logger.SetVerbose(true)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error, silent")
	rootCmd.PersistentFlags().BoolVar(&fromSnapshot, "snapshot", false, "load sites from the local snapshot instead of the sources")
}

// SetServices sets the services used by the commands.
func SetServices(s *Services) {
	services = s
	loaded = false
}

// SetVersion sets the version reported by 'atlas version'.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func requireServices() (*Services, error) {
	if services == nil || services.Registry == nil || services.Loader == nil {
		return nil, errors.New("atlas services not configured")
	}
	return services, nil
}

// ensureLoaded populates the registry once per process from the sources,
// or from the snapshot when --snapshot is set and it has records.
func ensureLoaded(cmd *cobra.Command) error {
	s, err := requireServices()
	if err != nil {
		return err
	}
	if loaded {
		return nil
	}
	ctx := commandContext(cmd)

	if fromSnapshot {
		restored, err := restoreSnapshot(ctx, s)
		if err != nil {
			return err
		}
		if restored {
			loaded = true
			return nil
		}
		logger.Info("Snapshot is empty, fetching sources")
	}

	reports := s.Loader.LoadAll(ctx, nil)
	if err := persist(ctx, reports); err != nil {
		logger.Warn("Saving snapshot failed: %v", err)
	}
	for _, r := range reports {
		if r.Rejected != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s not loaded: %v\n", r.Category.Label(), r.Rejected)
		}
	}
	loaded = true
	return nil
}

func restoreSnapshot(ctx context.Context, s *Services) (bool, error) {
	if s.Store == nil {
		return false, errors.New("no snapshot store configured")
	}
	n, err := s.Store.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("reading snapshot: %w", err)
	}
	if n == 0 {
		return false, nil
	}
	if _, err := s.Loader.Restore(ctx, s.Store); err != nil {
		return false, err
	}
	logger.Debug("Restored %d sites from snapshot", n)
	return true, nil
}

// persist replaces the snapshot of every category that loaded and logs
// the import runs. Rejected categories keep their previous snapshot.
func persist(ctx context.Context, reports []domain.IngestReport) error {
	s := services
	for _, r := range reports {
		metrics.ObserveIngest(r)
	}
	if s.Store != nil {
		for _, r := range reports {
			if r.Rejected != nil {
				continue
			}
			if err := s.Store.Replace(ctx, r.Category, r.Records); err != nil {
				return err
			}
		}
	}
	if s.Imports != nil {
		for _, r := range reports {
			if err := s.Imports.RecordImport(ctx, sourceLabel(r.Category), r); err != nil {
				return err
			}
		}
	}
	return nil
}

func sourceLabel(c domain.Category) string {
	if services != nil && services.Settings != nil {
		if src, ok := services.Settings.Get().Sources[c]; ok {
			return src
		}
	}
	return string(c)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// ExitCode maps an error to a process exit status.
func ExitCode(err error) int {
	var le *domain.LocateError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &le):
		return 3
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnknownCategory):
		return 2
	default:
		return 1
	}
}
