package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/pricesync/internal/config"
	"github.com/davidbz/pricesync/internal/http"
	"github.com/davidbz/pricesync/internal/observability"
	"github.com/davidbz/pricesync/internal/scheduler"
)

const shutdownTimeout = 30 * time.Second

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API and run the sync on a schedule.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		container, err := buildContainer(containerOptions{})
		if err != nil {
			return err
		}

		err = container.Invoke(func(
			cfg *config.Config,
			logger *zap.Logger,
			server *http.Server,
			sched *scheduler.Scheduler,
		) error {
			defer func() { _ = logger.Sync() }()

			if validateErr := cfg.Validate(true); validateErr != nil {
				return validateErr
			}

			return serve(ctx, cfg, server, sched)
		})
		if err != nil {
			return dig.RootCause(err)
		}

		return nil
	},
}

func serve(ctx context.Context, cfg *config.Config, server *http.Server, sched *scheduler.Scheduler) error {
	logger := observability.FromContext(ctx)

	if cfg.Schedule.Enabled {
		go sched.Start(ctx)
	} else {
		logger.Info("scheduler disabled")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("HTTP server stopped: %w", err)
		}
		return errors.New("HTTP server stopped unexpectedly")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
