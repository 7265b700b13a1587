package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/relay"
	"github.com/aretw0/relay/pkg/adapters/httpapi"
)

// ServeOptions contains the configuration for the serve command.
type ServeOptions struct {
	ConfigPath string
	Port       string
	Debug      bool
}

// RunServe starts the HTTP API server and blocks until ctx is cancelled.
func RunServe(ctx context.Context, opts ServeOptions) error {
	logger := createLogger(true) // server mode always logs

	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()

	bridge, cleanup, err := buildBridge(cfg, logger, relay.WithMetricsRegistry(registry))
	if err != nil {
		return err
	}
	defer cleanup()

	if err := bridge.VerifyCredentials(ctx); err != nil {
		return fmt.Errorf("credential check: %w", err)
	}

	handler := httpapi.NewHandler(bridge,
		httpapi.WithLogger(logger),
		httpapi.WithGatherer(registry),
	)

	srv := &http.Server{
		Addr:    ":" + opts.Port,
		Handler: handler,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("relay server listening", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "err", err)
			return srv.Close()
		}
		logger.Info("relay server stopped gracefully")
		return nil
	}
}
