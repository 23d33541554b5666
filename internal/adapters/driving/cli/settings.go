package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the API endpoint, credentials, token storage and
display timezone.

CLIENT_ID and CLIENT_SECRET in the environment take precedence over the
config file.`,
	Args: cobra.NoArgs,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting",
	Long: `Set a single setting in the config file.

Available keys:
  api.base_url          - scheme and host of the API
  api.prefix            - path prefix of the data endpoints
  auth.token_path       - token endpoint path
  auth.client_id        - OAuth2 client id
  auth.client_secret    - OAuth2 client secret
  credentials.backend   - where the token is stored (file, sqlite)
  credentials.path      - token location, empty for the default
  http.timeout_seconds  - request timeout, 0 disables it
  display.timezone      - IANA zone for countdowns, empty for local time`,
	Example: `  tramtid settings set credentials.backend sqlite
  tramtid settings set display.timezone Europe/Stockholm`,
	Args: exactArgs(2),
	RunE: runSettingsSet,
}

var settingsUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Restore a setting to its default",
	Args:  exactArgs(1),
	RunE:  runSettingsUnset,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the settings that can be set",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsUnsetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("Config file: %s\n", settingsService.ConfigPath())
	cmd.Println()

	cmd.Println("[API]")
	cmd.Printf("  Data URL: %s\n", settings.API.DataURL())
	cmd.Printf("  Token URL: %s\n", settings.API.TokenURL())
	cmd.Println()

	cmd.Println("[Auth]")
	cmd.Printf("  Client ID: %s\n", valueOrUnset(settings.Auth.ClientID))
	if settings.Auth.ClientSecret != "" {
		cmd.Printf("  Client Secret: %s\n", maskAPIKey(settings.Auth.ClientSecret))
	} else {
		cmd.Printf("  Client Secret: (not set)\n")
	}
	status := "configured"
	if !settings.Auth.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Credentials]")
	cmd.Printf("  Backend: %s\n", settings.Credentials.Backend.Description())
	cmd.Printf("  Path: %s\n", valueOr(settings.Credentials.Path, "(default)"))
	cmd.Println()

	cmd.Println("[HTTP]")
	if settings.HTTP.TimeoutSeconds > 0 {
		cmd.Printf("  Timeout: %s\n", settings.HTTP.Timeout())
	} else {
		cmd.Printf("  Timeout: none\n")
	}
	cmd.Println()

	cmd.Println("[Display]")
	cmd.Printf("  Timezone: %s\n", valueOr(settings.Display.Timezone, "(local)"))
	cmd.Println()

	if err := settings.RequireCredentials(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Set CLIENT_ID and CLIENT_SECRET or run 'tramtid settings set auth.client_id <id>'.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	if key == "auth.client_secret" {
		value = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", key, strings.TrimSpace(value))
	return nil
}

func runSettingsUnset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Unset(args[0]); err != nil {
		return fmt.Errorf("failed to unset %s: %w", args[0], err)
	}
	cmd.Printf("Unset %s\n", args[0])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

// maskAPIKey masks a secret for display.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func valueOrUnset(v string) string {
	return valueOr(v, "(not set)")
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// exactArgs is cobra.ExactArgs reported as a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}
