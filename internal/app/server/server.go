// Package server assembles the console host: one local session, the API
// client that carries its token, and the guarded view routes.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"hrmconsole/internal/apiclient"
	authgateway "hrmconsole/internal/auth"
	"hrmconsole/internal/domain/auth"
	"hrmconsole/internal/guard"
	"hrmconsole/internal/hrmapi"
	"hrmconsole/internal/platform/config"
	"hrmconsole/internal/platform/jobs"
	"hrmconsole/internal/platform/logging"
	"hrmconsole/internal/platform/metrics"
	"hrmconsole/internal/platform/storage"
	"hrmconsole/internal/platform/telemetry"
	"hrmconsole/internal/session"
	"hrmconsole/internal/transport/http/api"
	sessionhandler "hrmconsole/internal/transport/http/handlers/session"
	viewhandler "hrmconsole/internal/transport/http/handlers/views"
	"hrmconsole/internal/transport/http/middleware"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Metrics  *metrics.Collector
	Sessions *session.Store
	Guard    *guard.Guard
	Router   http.Handler
	Jobs     *jobs.Service

	closeStorage func()
}

// New wires the console from cfg. The caller owns the returned App and must
// Close it.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	resolver := auth.DefaultResolver()
	if cfg.CapabilityMapFile != "" {
		m, err := auth.LoadCapabilityMap(cfg.CapabilityMapFile)
		if err != nil {
			return nil, fmt.Errorf("load capability map: %w", err)
		}
		if resolver, err = auth.NewResolver(m); err != nil {
			return nil, fmt.Errorf("capability map: %w", err)
		}
	}

	st, closeStorage, err := storage.Open(ctx, storage.Options{
		Backend:       cfg.SessionBackend,
		FilePath:      cfg.SessionFile,
		RedisAddr:     cfg.RedisAddr,
		DatabaseURL:   cfg.DatabaseURL,
		EncryptionKey: cfg.SessionEncryptionKey,
	})
	if err != nil {
		return nil, fmt.Errorf("open session storage: %w", err)
	}

	sessions := session.Open(ctx, st, session.WithKeyPrefix(cfg.SessionKeyPrefix), session.WithLogger(logger))
	client := apiclient.New(cfg.APIBaseURL, sessions,
		apiclient.WithTimeout(cfg.HTTPTimeout),
		apiclient.WithMetrics(collector),
		apiclient.WithLogger(logger),
	)
	gateway := authgateway.New(client, sessions, st,
		authgateway.WithLogger(logger),
		authgateway.WithMetrics(collector),
		authgateway.WithServerLogout(cfg.RevokeOnLogout),
	)
	switcher := authgateway.NewRoleSwitcher(sessions, cfg.RoleSwitchEnabled, logger)
	g := guard.New(sessions, resolver, nil, collector)

	app := &App{
		Config:       cfg,
		Logger:       logger,
		Metrics:      collector,
		Sessions:     sessions,
		Guard:        g,
		Jobs:         jobs.New(logger),
		closeStorage: closeStorage,
	}
	app.Jobs.Every("session_expiry", cfg.SessionExpiryCheck, func(ctx context.Context) (any, error) {
		expired, err := sessions.ExpireStale(ctx)
		return map[string]bool{"expired": expired}, err
	})
	app.Router = app.routes(
		sessionhandler.NewHandler(gateway, switcher, sessions, resolver, g),
		viewhandler.NewHandler(hrmapi.New(client), sessions, resolver, g),
	)

	if p, ok := sessions.Current(); ok {
		logger.Info("session restored", "userId", p.ID, "role", p.Role)
	}
	return app, nil
}

func (a *App) routes(sessions *sessionhandler.Handler, views *viewhandler.Handler) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID(a.Logger))
	router.Use(middleware.Logger(a.Metrics))
	router.Use(chimw.Recoverer)
	router.Use(middleware.SecureHeaders(a.Config.IsProduction()))
	router.Use(middleware.BodyLimit(a.Config.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if a.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", a.Metrics.Handler())
	}

	router.Group(func(r chi.Router) {
		r.Use(a.Guard.Middleware)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, guard.LandingPath, http.StatusSeeOther)
		})
		r.Get(guard.LoginPath, func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, map[string]string{"view": "login"}, middleware.GetRequestID(r.Context()))
		})
		sessions.RegisterRoutes(r, middleware.LoginRateLimit(a.Config.LoginRatePerMinute))
		views.RegisterRoutes(r)
	})
	return otelhttp.NewHandler(router, "hrms-console",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

func (a *App) Close() {
	if a.closeStorage != nil {
		a.closeStorage()
	}
}

// Run loads configuration, serves the console until ctx is cancelled and
// then drains in-flight requests.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	shutdownTelemetry, err := telemetry.Setup(ctx, TelemetryOptions(cfg, "hrms-console"))
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer FlushTelemetry(shutdownTelemetry)

	logger := logging.New(logging.Options{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		OTel:        cfg.LogOTel,
		ServiceName: "hrms-console",
	})
	slog.SetDefault(logger)

	app, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	jobCtx, stopJobs := context.WithCancel(ctx)
	app.Jobs.Start(jobCtx)
	defer func() {
		stopJobs()
		app.Jobs.Wait()
	}()

	srv := &http.Server{
		Addr:              cfg.ConsoleAddr,
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return Serve(ctx, srv, logger)
}

func TelemetryOptions(cfg config.Config, service string) telemetry.Options {
	return telemetry.Options{
		Tracing:     cfg.TracingEnabled,
		Logs:        cfg.LogOTel,
		ServiceName: service,
		Endpoint:    cfg.OTLPEndpoint,
		SampleRatio: cfg.TracingSampleRatio,
	}
}

// FlushTelemetry gives exporters a bounded window to drain on exit.
func FlushTelemetry(shutdown telemetry.ShutdownFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		slog.Warn("telemetry shutdown failed", "err", err)
	}
}

// Serve runs srv until it fails or ctx is done, then shuts it down.
func Serve(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("shutting down", "addr", srv.Addr)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
