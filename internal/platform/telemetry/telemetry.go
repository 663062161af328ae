// Package telemetry installs the process-wide OpenTelemetry tracer and logger
// providers.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type Options struct {
	Tracing     bool
	Logs        bool
	ServiceName string
	// Endpoint is the collector base URL, e.g. http://localhost:4318. Empty
	// falls back to the standard OTEL_EXPORTER_OTLP_* environment variables.
	Endpoint    string
	SampleRatio float64

	// SpanExporter and LogExporter replace the OTLP exporters when set.
	SpanExporter sdktrace.SpanExporter
	LogExporter  sdklog.Exporter
}

type ShutdownFunc func(context.Context) error

// Setup installs the providers opts asks for. Providers that are not enabled
// are left as the global no-op ones. The returned shutdown flushes whatever
// was installed.
func Setup(ctx context.Context, opts Options) (ShutdownFunc, error) {
	var shutdowns []ShutdownFunc
	shutdown := func(ctx context.Context) error {
		var errs []error
		for _, fn := range shutdowns {
			errs = append(errs, fn(ctx))
		}
		return errors.Join(errs...)
	}
	if !opts.Tracing && !opts.Logs {
		return shutdown, nil
	}

	opts.Endpoint = strings.TrimRight(opts.Endpoint, "/")
	name := opts.ServiceName
	if name == "" {
		name = "hrms-console"
	}
	res, err := resource.New(ctx, resource.WithAttributes(attribute.String("service.name", name)))
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	if opts.Tracing {
		provider, err := newTracerProvider(ctx, opts, res)
		if err != nil {
			return nil, err
		}
		otel.SetTracerProvider(provider)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
		shutdowns = append(shutdowns, provider.Shutdown)
	}
	if opts.Logs {
		provider, err := newLoggerProvider(ctx, opts, res)
		if err != nil {
			_ = shutdown(ctx)
			return nil, err
		}
		global.SetLoggerProvider(provider)
		shutdowns = append(shutdowns, provider.Shutdown)
	}
	return shutdown, nil
}

func newTracerProvider(ctx context.Context, opts Options, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	exporter := opts.SpanExporter
	if exporter == nil {
		var exporterOpts []otlptracehttp.Option
		if opts.Endpoint != "" {
			exporterOpts = append(exporterOpts, otlptracehttp.WithEndpointURL(opts.Endpoint+"/v1/traces"))
		}
		var err error
		if exporter, err = otlptracehttp.New(ctx, exporterOpts...); err != nil {
			return nil, fmt.Errorf("create otlp trace exporter: %w", err)
		}
	}

	ratio := opts.SampleRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 1
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
	), nil
}

func newLoggerProvider(ctx context.Context, opts Options, res *resource.Resource) (*sdklog.LoggerProvider, error) {
	exporter := opts.LogExporter
	if exporter == nil {
		var exporterOpts []otlploghttp.Option
		if opts.Endpoint != "" {
			exporterOpts = append(exporterOpts, otlploghttp.WithEndpointURL(opts.Endpoint+"/v1/logs"))
		}
		var err error
		if exporter, err = otlploghttp.New(ctx, exporterOpts...); err != nil {
			return nil, fmt.Errorf("create otlp log exporter: %w", err)
		}
	}
	return sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
		sdklog.WithResource(res),
	), nil
}
