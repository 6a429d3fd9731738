package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"scaffoldapi/internal/app"
	"scaffoldapi/internal/config"
	"scaffoldapi/internal/logging"
	"scaffoldapi/internal/otel"
)

var signalNotify = signal.Notify

// shutdownSignals stop the server gracefully. os.Interrupt is SIGINT.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// @title Scaffold API
// @version 0.1.0
// @description JSON API scaffold.
// @BasePath /
func main() {
	kingpinApp := kingpin.New("scaffold-api", "JSON API scaffold with health and example endpoints")
	envFile := kingpinApp.Flag("env-file", "Path to a dotenv file read before the environment (empty disables). OTEL_* entries are exported for the tracing SDK.").Default(".env").String()

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	settings, err := config.NewProvider(config.WithEnvFile(*envFile)).Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(logging.FromSettings(settings))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := otel.ApplyEnv(settings.OTelEnv); err != nil {
		logger.Fatal("failed to export tracing settings", zap.Error(err))
	}

	tracingShutdown, err := otel.Init(context.Background(), settings.AppName, settings.AppVersion, logger)
	if err != nil {
		logger.Fatal("failed to initialize tracing", zap.Error(err))
	}

	a, err := app.New(settings, logger, app.WithTracingShutdown(tracingShutdown))
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	go func() {
		if err := a.Listen(); err != nil {
			logger.Fatal("failed to start server", zap.Error(err), zap.String("addr", settings.Addr()))
		}
	}()

	shutdown(a, settings.ShutdownTimeout, logger)
}

func shutdown(a *app.App, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, shutdownSignals...)

	sig := <-quit
	logger.Info("shutting down server", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := a.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}
