// Package httpd implements the HTTP server command for the price engine.
package httpd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pharmalens/pricelens/internal/api"
	"github.com/pharmalens/pricelens/internal/bootstrap"
	"github.com/pharmalens/pricelens/internal/domain"
)

const shutdownTimeout = 10 * time.Second

// Command returns the httpd command.
func Command(cfgFile *string, debug *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "httpd",
		Short: "Start the HTTP API server",
		Long:  `Start the HTTP API server exposing search, streaming, and batch endpoints.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(*cfgFile, *debug)
		},
	}
}

// run assembles the application and serves HTTP until interrupted.
func run(cfgFile string, debug bool) error {
	app, err := bootstrap.New(cfgFile, debug)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	lister := func() []domain.SourceDescriptor {
		descs := make([]domain.SourceDescriptor, len(app.Adapters))
		for i, a := range app.Adapters {
			descs[i] = a.Descriptor()
		}
		return descs
	}

	server := api.NewServer(app.Config, app.Logger, app.Aggregator, lister, app.Registry)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case sig := <-sigCh:
		app.Logger.Info("received signal, shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
