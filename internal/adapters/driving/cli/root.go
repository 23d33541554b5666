package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tramtid/internal/core/domain"
	"github.com/custodia-labs/tramtid/internal/core/ports/driving"
	"github.com/custodia-labs/tramtid/internal/logger"
)

// Exit codes returned by Execute.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// version is set at build time via -ldflags.
var version = "dev"

// Services wired in by main.
var (
	settingsService  driving.SettingsService
	tokenService     driving.TokenService
	departureService driving.DepartureService

	// clock is the wall clock countdowns are measured against.
	clock = time.Now
)

// Root command flags.
var (
	stopName   string
	platform   string
	jsonOutput bool
	watch      bool
	verbose    bool
)

// Services holds the driving ports the commands call into.
type Services struct {
	Settings   driving.SettingsService
	Tokens     driving.TokenService
	Departures driving.DepartureService
	// Clock supplies the current time in the display timezone. Nil means time.Now.
	Clock func() time.Time
}

// SetServices injects the services used by every command.
func SetServices(s Services) {
	settingsService = s.Settings
	tokenService = s.Tokens
	departureService = s.Departures
	clock = s.Clock
	if clock == nil {
		clock = time.Now
	}
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "tramtid",
	Short: "Live tram departures from Västtrafik",
	Long: `Show upcoming departures for a Västtrafik stop with a countdown
to each one.

Client credentials are read from CLIENT_ID and CLIENT_SECRET (a .env file
in the working directory is loaded first) or from the config file.`,
	Example: `  tramtid --stop Brunnsparken
  tramtid -s "Järntorget" -p A --watch
  tramtid journeys --from Brunnsparken --to Saltholmen`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	RunE: runDepartures,
}

func init() {
	rootCmd.Flags().StringVarP(&stopName, "stop", "s", "", "stop name to look up")
	rootCmd.Flags().StringVarP(&platform, "platform", "p", "", "only show departures from this platform")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the board as JSON")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep the board open with a live countdown")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	_ = rootCmd.MarkFlagRequired("stop")
	rootCmd.MarkFlagsMutuallyExclusive("json", "watch")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return execute(ctx, rootCmd.ErrOrStderr())
}

func execute(ctx context.Context, stderr io.Writer) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return ExitOK
}

// usageError marks a bad invocation.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// cobraUsagePrefixes match argument and flag errors cobra returns unwrapped.
var cobraUsagePrefixes = []string{
	"required flag",
	"unknown command",
	"unknown flag",
	"unknown shorthand flag",
	"accepts ",
	"requires at least",
	"if any flags in the group",
}

// exitCode maps an error to ExitUsage for bad invocations and missing
// configuration, ExitFailure otherwise.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var usage *usageError
	if errors.As(err, &usage) ||
		errors.Is(err, domain.ErrConfiguration) ||
		errors.Is(err, domain.ErrInvalidInput) {
		return ExitUsage
	}
	for _, prefix := range cobraUsagePrefixes {
		if strings.HasPrefix(err.Error(), prefix) {
			return ExitUsage
		}
	}
	return ExitFailure
}
