package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/pvflow/internal/core/domain"
)

var settingsSecret bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change pvflow settings stored in ~/.pvflow/config.toml.

Environment variables override the file: PVFLOW_<SECTION>_<KEY>
(for example PVFLOW_SOLCAST_SITE_ID) and the container variables
API_KEY, SN, SOLCAST_API_KEY and SOLCAST_ID.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Set a setting",
	Long: `Set a single setting by its dotted key, e.g.

  pvflow settings set solcast.site_id abcd-1234
  pvflow settings set foxess.api_key --secret

Secrets (API keys) are prompted for without echo when no value is given.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

// secretInput is where prompted secrets are read from. Tests replace it.
var secretInput = readPassword

func init() {
	settingsSetCmd.Flags().BoolVar(&settingsSecret, "secret", false, "prompt for the value without echo")
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if err := requireService(settingsService != nil, "settings"); err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[FoxESS]")
	cmd.Printf("  API Key: %s\n", maskOrUnset(settings.FoxESS.APIKey))
	cmd.Printf("  Serial Number: %s\n", orUnset(settings.FoxESS.SerialNumber))
	cmd.Printf("  Base URL: %s\n", settings.FoxESS.BaseURL)
	cmd.Printf("  Timezone: %s\n", settings.FoxESS.Timezone)
	cmd.Printf("  Status: %s\n", configuredStatus(settings.FoxESS.IsConfigured()))
	cmd.Println()

	cmd.Println("[Solcast]")
	cmd.Printf("  API Key: %s\n", maskOrUnset(settings.Solcast.APIKey))
	cmd.Printf("  Site ID: %s\n", orUnset(settings.Solcast.SiteID))
	cmd.Printf("  Base URL: %s\n", settings.Solcast.BaseURL)
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Solcast.IsConfigured()))
	cmd.Println()

	cmd.Println("[Site]")
	cmd.Printf("  Timezone: %s\n", settings.Site.Timezone)
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)
	cmd.Println()

	cmd.Println("[Scheduler]")
	if settings.Scheduler.Enabled {
		cmd.Printf("  Enabled: yes\n")
		cmd.Printf("  Forecast refresh: every %s\n", settings.Scheduler.RefreshInterval)
		cmd.Printf("  Forecast retention: %d days\n", settings.Scheduler.RetentionDays)
	} else {
		cmd.Printf("  Enabled: no\n")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if err := requireService(settingsService != nil, "settings"); err != nil {
		return err
	}

	key := args[0]
	var value string
	switch {
	case len(args) == 2 && !settingsSecret:
		value = args[1]
	case settingsSecret || isSecretKey(key):
		cmd.Printf("%s: ", key)
		value = secretInput()
		cmd.Println()
	default:
		return fmt.Errorf("%w: missing value for %s", domain.ErrInvalidInput, key)
	}

	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	if isSecretKey(key) {
		cmd.Printf("%s = %s\n", key, maskOrUnset(value))
	} else {
		cmd.Printf("%s = %s\n", key, value)
	}
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if err := requireService(settingsService != nil, "settings"); err != nil {
		return err
	}
	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

// Helper functions.

func isSecretKey(key string) bool {
	return strings.HasSuffix(key, ".api_key")
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func maskOrUnset(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	return readLine(bufio.NewReader(os.Stdin))
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(r io.Reader) string {
	input, _ := bufio.NewReader(r).ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
