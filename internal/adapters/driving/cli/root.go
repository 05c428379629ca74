// Package cli provides the cobra command tree for pvflow.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pvflow/internal/core/ports/driving"
	"github.com/custodia-labs/pvflow/internal/logger"
)

// annotationStandalone marks commands that run without services.
const annotationStandalone = "pvflow/standalone"

var version = "dev"

var (
	verbose   bool
	configDir string
	dataDir   string
	ephemeral bool
)

// Services injected by the composition root.
var (
	settingsService  driving.SettingsService
	powerFlowService driving.PowerFlowService
	forecastService  driving.ForecastService
	reportService    driving.ReportService
	scheduler        driving.Scheduler
	scheduleStatus   driving.ScheduleStatus
	configWatcher    Runner
	closeServices    func() error

	initializer Initializer
)

// Runner is a background loop that runs until its context is cancelled.
type Runner interface {
	Run(ctx context.Context) error
}

// Services holds the driving ports the commands use.
type Services struct {
	Settings       driving.SettingsService
	PowerFlow      driving.PowerFlowService
	Forecast       driving.ForecastService
	Report         driving.ReportService
	Scheduler      driving.Scheduler
	ScheduleStatus driving.ScheduleStatus

	// ConfigWatcher reloads settings while serving. Optional.
	ConfigWatcher Runner

	// Close releases stores and watchers. Optional.
	Close func() error
}

// Options are the root flags that select where state lives.
type Options struct {
	ConfigDir string
	DataDir   string
	Ephemeral bool
}

// Initializer builds services once the root flags are parsed.
type Initializer func(opts Options) (*Services, error)

var rootCmd = &cobra.Command{
	Use:   "pvflow",
	Short: "Solar power flow and production forecast service",
	Long: `pvflow reads the power history of a FoxESS inverter, turns it into
daily energy totals and a power flow diagram, and compares Solcast PV
production forecasts against real production.

Run "pvflow serve" for the web interface, or use the commands below
from the terminal.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.pvflow)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.pvflow/data)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep forecasts in memory only")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetServices injects the driving ports.
func SetServices(s *Services) {
	settingsService = s.Settings
	powerFlowService = s.PowerFlow
	forecastService = s.Forecast
	reportService = s.Report
	scheduler = s.Scheduler
	scheduleStatus = s.ScheduleStatus
	configWatcher = s.ConfigWatcher
	closeServices = s.Close
}

// SetInitializer registers the function that builds services after flag
// parsing. Commands annotated as standalone skip it.
func SetInitializer(fn Initializer) {
	initializer = fn
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cmd.Annotations[annotationStandalone] == "true" || initializer == nil {
		return nil
	}

	services, err := initializer(Options{
		ConfigDir: configDir,
		DataDir:   dataDir,
		Ephemeral: ephemeral,
	})
	if err != nil {
		return fmt.Errorf("initialising services: %w", err)
	}
	SetServices(services)
	return nil
}

// Shutdown releases whatever the initializer opened. Safe to call twice.
func Shutdown() error {
	if closeServices == nil {
		return nil
	}
	fn := closeServices
	closeServices = nil
	return fn()
}

var errNotConfigured = errors.New("service not configured")

// requireService reports a missing service by name.
func requireService(ok bool, name string) error {
	if !ok {
		return fmt.Errorf("%s %w", name, errNotConfigured)
	}
	return nil
}
