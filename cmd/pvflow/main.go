// Command pvflow serves FoxESS power flows and Solcast production forecasts.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	_ "time/tzdata" // site timezones on images without a zoneinfo database

	"github.com/custodia-labs/pvflow/internal/adapters/driven/chart"
	"github.com/custodia-labs/pvflow/internal/adapters/driven/config/file"
	"github.com/custodia-labs/pvflow/internal/adapters/driven/foxess"
	"github.com/custodia-labs/pvflow/internal/adapters/driven/report/pdf"
	"github.com/custodia-labs/pvflow/internal/adapters/driven/solcast"
	"github.com/custodia-labs/pvflow/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pvflow/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/pvflow/internal/adapters/driving/cli"
	"github.com/custodia-labs/pvflow/internal/core/ports/driven"
	"github.com/custodia-labs/pvflow/internal/core/services"
	"github.com/custodia-labs/pvflow/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.SetVersion(version)
	cli.SetInitializer(buildServices)

	err := cli.Execute(ctx)
	if shutdownErr := cli.Shutdown(); shutdownErr != nil {
		logger.Warn("shutdown: %v", shutdownErr)
	}
	stop()

	if err != nil {
		os.Exit(1)
	}
}

// buildServices wires adapters into the core services.
func buildServices(opts cli.Options) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, err
	}
	settings := services.NewSettingsService(configStore, os.Getenv)

	var (
		forecastStore  driven.ForecastStore
		schedulerStore driven.SchedulerStore
		closers        []func() error
	)
	if opts.Ephemeral {
		forecastStore = memory.NewForecastStore()
		schedulerStore = memory.NewSchedulerStore()
	} else {
		dataDir := opts.DataDir
		if dataDir == "" && opts.ConfigDir != "" {
			dataDir = filepath.Join(opts.ConfigDir, "data")
		}
		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, err
		}
		logger.Debug("database: %s", store.Path())
		forecastStore = store.ForecastStore()
		schedulerStore = store.SchedulerStore()
		closers = append(closers, store.Close)
	}

	inverter := foxess.NewClient(settings)
	powerFlow := services.NewPowerFlowService(inverter, settings)
	forecast := services.NewForecastService(
		solcast.NewClient(settings),
		forecastStore,
		inverter,
		chart.NewRenderer(),
		settings,
	)
	scheduler := services.NewScheduler(settings.Settings().Scheduler.Config(), schedulerStore, forecast)

	return &cli.Services{
		Settings:       settings,
		PowerFlow:      powerFlow,
		Forecast:       forecast,
		Report:         services.NewReportService(powerFlow, forecast, pdf.NewWriter()),
		Scheduler:      scheduler,
		ScheduleStatus: scheduler,
		ConfigWatcher:  configWatcher{store: configStore},
		Close: func() error {
			var errs []error
			for _, c := range closers {
				errs = append(errs, c())
			}
			return errors.Join(errs...)
		},
	}, nil
}

// configWatcher creates the file watcher only when a command runs it.
type configWatcher struct {
	store *file.ConfigStore
}

func (w configWatcher) Run(ctx context.Context) error {
	watcher, err := file.NewWatcher(w.store, func() {
		logger.Info("settings reloaded from %s", w.store.Path())
	})
	if err != nil {
		return err
	}
	defer watcher.Close()
	return watcher.Run(ctx)
}
