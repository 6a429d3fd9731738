package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"scaffoldapi/docs"
	"scaffoldapi/internal/config"
	handlers "scaffoldapi/internal/http/handler"
	"scaffoldapi/internal/http/middleware"
	"scaffoldapi/internal/logging"
	"scaffoldapi/internal/otel"
	"scaffoldapi/internal/service"
)

// State is the lifecycle state of the application.
type State int32

const (
	StateStopped State = iota
	StateRunning
)

func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "stopped"
}

// Option customizes App construction.
type Option func(*options)

type options struct {
	registry prometheus.Registerer
	gatherer prometheus.Gatherer
	service  service.ExampleService
	tracing  otel.ShutdownFunc
}

// WithRegistry uses reg for the HTTP metrics instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = reg
		o.gatherer = reg
	}
}

// WithService replaces the default example service.
func WithService(svc service.ExampleService) Option {
	return func(o *options) { o.service = svc }
}

// WithTracingShutdown registers the tracer provider flush run on Shutdown.
func WithTracingShutdown(fn otel.ShutdownFunc) Option {
	return func(o *options) { o.tracing = fn }
}

// App owns the fiber application and its lifecycle.
type App struct {
	fiber    *fiber.App
	settings *config.Settings
	logger   *zap.Logger
	tracing  otel.ShutdownFunc
	state    atomic.Int32
}

// New builds the fiber application: middleware, API routes under the configured prefix,
// root routes, metrics and the API description. Everything is in place before New returns.
func New(settings *config.Settings, logger *zap.Logger, opts ...Option) (*App, error) {
	if settings == nil {
		return nil, errors.New("app: settings are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.registry == nil {
		reg := prometheus.NewRegistry()
		o.registry, o.gatherer = reg, reg
	}
	if o.service == nil {
		o.service = service.NewExampleService(logger)
	}

	a := &App{
		settings: settings,
		logger:   logging.Named(logger, logging.AppChannel),
		tracing:  o.tracing,
	}

	a.fiber = fiber.New(fiber.Config{
		AppName:               settings.AppName,
		ErrorHandler:          handlers.ErrorHandler(logger),
		DisableStartupMessage: true,
	})
	a.fiber.Hooks().OnListen(a.onStartup)
	a.fiber.Hooks().OnShutdown(a.onShutdown)

	var prom *middleware.PrometheusMiddleware
	if settings.MetricsEnabled {
		var err error
		if prom, err = middleware.NewPrometheusMiddleware(o.registry); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	a.fiber.Use(middleware.RequestID())
	a.fiber.Use(otelfiber.Middleware())
	a.fiber.Use(middleware.Logger(logger))
	if prom != nil {
		a.fiber.Use(prom.Handler())
	}
	a.fiber.Use(middleware.Recover(logger))
	a.fiber.Use(middleware.CORS(settings.CORSOrigins))
	a.fiber.Use(middleware.RateLimit(settings.RateLimit.RPS, settings.RateLimit.Burst))

	if prom != nil {
		a.fiber.Get(middleware.MetricsPath, middleware.MetricsHandler(o.gatherer))
	}
	binder := handlers.NewBinder(nil, logger)
	binder.Bind(a.fiber, handlers.RootRoutes()...)
	a.fiber.Get("/healthz", handlers.LivenessProbe())

	docs.SwaggerInfo.Title = settings.AppName
	docs.SwaggerInfo.Version = settings.AppVersion
	docs.SwaggerInfo.Host = settings.PublicURL.Host
	docs.SwaggerInfo.Schemes = []string{settings.PublicURL.Scheme}
	handlers.RegisterDocs(a.fiber, settings.APIPrefix)

	handlers.RegisterRoutes(a.fiber.Group(settings.APIPrefix), binder, settings, o.service)

	return a, nil
}

// Fiber exposes the underlying fiber application, mainly for app.Test in tests.
func (a *App) Fiber() *fiber.App { return a.fiber }

// State reports whether the app is currently serving.
func (a *App) State() State { return State(a.state.Load()) }

// Listen serves on the configured address until Shutdown.
func (a *App) Listen() error {
	return a.fiber.Listen(a.settings.Addr())
}

// Serve serves on ln until Shutdown.
func (a *App) Serve(ln net.Listener) error {
	return a.fiber.Listener(ln)
}

// Shutdown stops accepting connections, waits for in-flight requests until ctx expires,
// then flushes tracing.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.fiber.ShutdownWithContext(ctx)
	if a.tracing != nil {
		if terr := a.tracing(ctx); terr != nil {
			err = errors.Join(err, fmt.Errorf("shutdown tracing: %w", terr))
		}
	}
	return err
}

func (a *App) onStartup(data fiber.ListenData) error {
	a.state.Store(int32(StateRunning))
	a.logger.Info("application startup",
		zap.String("app_name", a.settings.AppName),
		zap.String("addr", net.JoinHostPort(data.Host, data.Port)),
		zap.String("api_prefix", a.settings.APIPrefix),
	)
	return nil
}

func (a *App) onShutdown() error {
	a.state.Store(int32(StateStopped))
	a.logger.Info("application shutdown")
	return nil
}
