package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/heritage-atlas/internal/core/domain"
)

var settingsJSON bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure data sources, place lookup, caching, geolocation and
map defaults.

Settings are read from ~/.atlas/config.toml and can be overridden with
ATLAS_* environment variables (e.g. ATLAS_LOOKUP_ENDPOINT).`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the configurable keys",
	RunE:  runSettingsKeys,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set one setting",
	Long: `Sets one setting and saves the config file. When the value is omitted
it is read from standard input.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure sources, place lookup and geolocation.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsShowCmd.Flags().BoolVar(&settingsJSON, "json", false, "output as JSON")
	settingsCmd.Flags().BoolVar(&settingsJSON, "json", false, "output as JSON")
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if services == nil || services.Settings == nil {
		return errors.New("settings service not configured")
	}
	st := services.Settings.Get()
	if settingsJSON {
		return printJSON(cmd, st)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Sources]")
	for _, c := range domain.Categories() {
		src := st.Sources[c]
		if src == "" {
			src = "(not set)"
		}
		cmd.Printf("  %s: %s\n", c.Label(), src)
	}
	cmd.Println()

	cmd.Println("[Place lookup]")
	cmd.Printf("  Endpoint: %s\n", st.Lookup.Endpoint)
	cmd.Printf("  User agent: %s\n", st.Lookup.UserAgent)
	cmd.Printf("  Rate: %g/s, timeout %s, retries %d\n", st.Lookup.RatePerSec, st.Lookup.Timeout, st.Lookup.Retries)
	cmd.Printf("  Results: %d\n", st.Search.PlaceLimit)
	cmd.Println()

	cmd.Println("[Cache]")
	if st.Cache.RedisAddr != "" {
		cmd.Printf("  Redis: %s (db %d)\n", st.Cache.RedisAddr, st.Cache.RedisDB)
	} else {
		cmd.Printf("  In-process, %d entries\n", st.Cache.Size)
	}
	cmd.Printf("  TTL: %s\n", st.Cache.TTL)
	cmd.Println()

	cmd.Println("[Geolocation]")
	switch {
	case st.Geo.Fixed != "":
		cmd.Printf("  Fixed position: %s\n", st.Geo.Fixed)
	case st.Geo.Database != "":
		cmd.Printf("  GeoIP database: %s (address %s)\n", st.Geo.Database, st.Geo.IP)
	default:
		cmd.Println("  Not configured")
	}
	cmd.Printf("  Timeout: %s\n", st.Locate.Request.Timeout)
	cmd.Println()

	cmd.Println("[Map]")
	cmd.Printf("  Start: %s at zoom %d\n", st.View.Center, st.View.Zoom)
	cmd.Printf("  Site zoom %d, nearby zoom %d, popup delay %s\n", st.View.SiteZoom, st.View.NearbyZoom, st.View.PopupDelay)
	cmd.Printf("  Clustering off from zoom %d\n", st.Cluster.DisableAtZoom)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if services == nil || services.Settings == nil {
		return errors.New("settings service not configured")
	}
	for _, k := range services.Settings.Keys() {
		cmd.Println(k)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if services == nil || services.Settings == nil {
		return errors.New("settings service not configured")
	}
	key := args[0]
	var value string
	if len(args) == 2 {
		value = args[1]
	} else {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			cmd.Printf("%s: ", key)
		}
		value = readLine(bufio.NewReader(cmd.InOrStdin()))
	}
	if err := services.Settings.Set(key, value); err != nil {
		return err
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if services == nil || services.Settings == nil {
		return errors.New("settings service not configured")
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("the wizard needs an interactive terminal; use 'atlas settings set'")
	}
	return settingsWizard(cmd, bufio.NewReader(cmd.InOrStdin()))
}

func settingsWizard(cmd *cobra.Command, reader *bufio.Reader) error {
	st := services.Settings.Get()

	cmd.Println("Atlas Settings Wizard")
	cmd.Println("=====================")
	cmd.Println()

	cmd.Println("Step 1: Data Sources")
	cmd.Println("--------------------")
	cmd.Println("Enter a CSV file path or URL per category. Leave empty to keep the current value.")
	for _, c := range domain.Categories() {
		cmd.Printf("  %s [%s]: ", c.Label(), st.Sources[c])
		if v := readLine(reader); v != "" {
			if err := services.Settings.Set("sources."+string(c), v); err != nil {
				return fmt.Errorf("failed to set %s source: %w", c, err)
			}
		}
	}
	cmd.Println()

	cmd.Println("Step 2: Place Lookup")
	cmd.Println("--------------------")
	cmd.Println("  1. Public Nominatim (" + domain.DefaultLookupEndpoint + ")")
	cmd.Println("  2. Custom Nominatim server")
	cmd.Print("\nEnter choice [1]: ")
	endpoint := domain.DefaultLookupEndpoint
	if parseChoice(readLine(reader), 2, 1) == 2 {
		cmd.Print("  Server URL: ")
		endpoint = readLine(reader)
	}
	if endpoint != "" {
		if err := services.Settings.Set("lookup.endpoint", endpoint); err != nil {
			return fmt.Errorf("failed to set lookup endpoint: %w", err)
		}
	}
	cmd.Println()

	cmd.Println("Step 3: Geolocation")
	cmd.Println("-------------------")
	cmd.Println("  1. None")
	cmd.Println("  2. Fixed position")
	cmd.Println("  3. MaxMind City database")
	cmd.Print("\nEnter choice [1]: ")
	switch parseChoice(readLine(reader), 3, 1) {
	case 2:
		cmd.Print("  Position (lat, lng): ")
		if err := services.Settings.Set("geo.fixed", readLine(reader)); err != nil {
			return err
		}
	case 3:
		cmd.Print("  Database path: ")
		if err := services.Settings.Set("geo.database", readLine(reader)); err != nil {
			return err
		}
		cmd.Print("  Public IP address: ")
		if err := services.Settings.Set("geo.ip", readLine(reader)); err != nil {
			return err
		}
	}
	cmd.Println()

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	cmd.Println("Run 'atlas import' to load the sources.")
	return nil
}

func readLine(reader *bufio.Reader) string {
	input, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return ""
	}
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}
