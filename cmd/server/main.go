// Package main is the entry point for the accounts HTTP service. It wires the
// application graph with samber/do v2, serves until SIGINT/SIGTERM, and then
// drains requests, closes store connections, and flushes telemetry.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	adapthttp "github.com/jsamuelsen11/go-accounts-service/internal/adapters/http"
	"github.com/jsamuelsen11/go-accounts-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-accounts-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/go-accounts-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen11/go-accounts-service/internal/bootstrap"
	"github.com/jsamuelsen11/go-accounts-service/internal/platform/config"
	"github.com/jsamuelsen11/go-accounts-service/internal/platform/logging"
	"github.com/jsamuelsen11/go-accounts-service/internal/platform/telemetry"
	"github.com/jsamuelsen11/go-accounts-service/internal/ports"
)

const (
	connectTimeout        = 10 * time.Second
	serverShutdownTimeout = 15 * time.Second
	otelShutdownTimeout   = 5 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, dev, qa, prod)")
	}

	var opts []config.Option
	if envFile := os.Getenv("APP_ENV_FILE"); envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}
	if override := os.Getenv("APP_CONFIG_FILE"); override != "" {
		opts = append(opts, config.WithOverrideFile(override))
	}
	cfg, err := config.Load(profile, opts...)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(logging.ResolveLevel(cfg.Log.Level, cfg.Log.Debug), cfg.Log.Format, os.Stderr)

	otel, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer flushTelemetry(otel, logger)

	injector := do.New()
	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.Metrics)

	connectCtx, cancelConnect := context.WithTimeout(ctx, connectTimeout)
	defer cancelConnect()
	bootstrap.Provide(connectCtx, injector)
	provideHTTP(injector)

	// Resolving the server wires the whole graph and opens the store.
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("wiring application: %w", err)
	}
	defer do.MustInvoke[*bootstrap.Backends](injector).Close()

	if err := server.Listen(ctx); err != nil {
		return err
	}
	logger.Info("accounts service ready",
		slog.String("profile", profile),
		slog.String("store", cfg.Store.Backend),
		slog.Bool("cache", cfg.Cache.Enabled),
		slog.Bool("telemetry", cfg.Telemetry.Enabled),
	)

	serveErr := make(chan error, 1)
	go func() { serveErr <- server.Start() }()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested", slog.Any("cause", context.Cause(ctx)))
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}
	<-serveErr

	logger.Info("shutdown complete")
	return nil
}

func flushTelemetry(otel *telemetry.Providers, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer cancel()
	if err := otel.Shutdown(ctx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}
}

// provideHTTP registers the transport adapter on top of the application
// graph from bootstrap.Provide.
func provideHTTP(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*handlers.AccountHandler, error) {
		dispatcher, err := do.Invoke[ports.Dispatcher](i)
		if err != nil {
			return nil, err
		}
		return handlers.NewAccountHandler(dispatcher), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry, err := do.Invoke[ports.HealthRegistry](i)
		if err != nil {
			return nil, err
		}
		cfg := do.MustInvoke[*config.Config](i)
		info := dto.ServiceInfo{Name: cfg.App.Name, Version: cfg.App.Version}
		return handlers.NewHealthHandler(registry, info), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		accountH, err := do.Invoke[*handlers.AccountHandler](i)
		if err != nil {
			return nil, err
		}
		healthH, err := do.Invoke[*handlers.HealthHandler](i)
		if err != nil {
			return nil, err
		}
		cfg := do.MustInvoke[*config.Config](i)
		logger := do.MustInvoke[*slog.Logger](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		return adapthttp.NewRouter(accountH, healthH,
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.CorrelationID(),
			middleware.CORS(cfg.Server.AllowedOrigins),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
			middleware.Timeout(cfg.Server.RequestTimeout),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler, err := do.Invoke[nethttp.Handler](i)
		if err != nil {
			return nil, err
		}
		cfg := do.MustInvoke[*config.Config](i)
		logger := do.MustInvoke[*slog.Logger](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
