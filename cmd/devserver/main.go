// Command devserver runs the in-memory HRM backend the console talks to in
// development. Seeded accounts: admin@hrms.com, manager@hrms.com and
// employee@hrms.com, all with the password "password".
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"hrmconsole/internal/app/server"
	"hrmconsole/internal/devserver"
	"hrmconsole/internal/platform/config"
	"hrmconsole/internal/platform/jobs"
	"hrmconsole/internal/platform/logging"
	"hrmconsole/internal/platform/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	if cfg.IsProduction() {
		log.Fatal("devserver must not run with APP_ENV=production")
	}
	shutdownTelemetry, err := telemetry.Setup(ctx, server.TelemetryOptions(cfg, "hrms-devserver"))
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	defer server.FlushTelemetry(shutdownTelemetry)

	logger := logging.New(logging.Options{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		OTel:        cfg.LogOTel,
		ServiceName: "hrms-devserver",
	})

	backend, err := devserver.New(devserver.Options{
		Secret:   cfg.DevServerJWTSecret,
		TokenTTL: cfg.DevServerTokenTTL,
		Logger:   logger,
	})
	if err != nil {
		log.Fatalf("devserver: %v", err)
	}

	housekeeping := jobs.New(logger)
	housekeeping.Every("prune_revoked", cfg.DevServerPruneEvery, func(context.Context) (any, error) {
		return map[string]int{"pruned": backend.PruneRevoked()}, nil
	})
	housekeeping.Start(ctx)

	srv := &http.Server{
		Addr:              cfg.DevServerAddr,
		Handler:           otelhttp.NewHandler(backend.Handler(), "hrms-devserver"),
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := server.Serve(ctx, srv, logger); err != nil {
		log.Fatalf("devserver failed: %v", err)
	}
}
