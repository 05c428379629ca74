package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pvflow/internal/adapters/driving/web"
	"github.com/custodia-labs/pvflow/internal/logger"
)

var (
	serveAddr        string
	serveNoScheduler bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Starts the web interface and JSON API. While serving, the forecast is
refreshed in the background and the configuration file is watched for
changes.

Examples:
  # Listen on the configured address (server.addr, default 127.0.0.1:5000)
  pvflow serve

  # Inside a container
  pvflow serve --addr 0.0.0.0:5000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from server.addr)")
	serveCmd.Flags().BoolVar(&serveNoScheduler, "no-scheduler", false, "do not run background tasks")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := requireService(powerFlowService != nil, "power flow"); err != nil {
		return err
	}
	logger.SetTimestamps(true)

	addr := serveAddr
	if addr == "" && settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			addr = settings.Server.Addr
		}
	}

	server, err := web.NewServer(web.Ports{
		PowerFlow: powerFlowService,
		Forecast:  forecastService,
		Settings:  settingsService,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var wg sync.WaitGroup
	runBackground := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("%s: %v", name, err)
			}
		}()
	}

	if scheduler != nil && !serveNoScheduler {
		runBackground("scheduler", scheduler.Start)
	}
	if configWatcher != nil {
		runBackground("config watcher", configWatcher.Run)
	}

	if addr == "" {
		addr = web.DefaultAddr
	}
	cmd.Printf("pvflow listening on http://%s\n", addr)
	err = server.Run(ctx, addr)

	cancel()
	if scheduler != nil {
		if stopErr := scheduler.Stop(); stopErr != nil {
			logger.Warn("scheduler: stop: %v", stopErr)
		}
	}
	wg.Wait()

	if err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
