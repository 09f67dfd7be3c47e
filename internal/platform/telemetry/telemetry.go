package telemetry

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ridloal/supermarket-management/internal/platform/config"
	"github.com/ridloal/supermarket-management/internal/platform/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type ShutdownFunc func(context.Context) error

// Setup installs a global tracer provider exporting to stdout when tracing is enabled.
// The returned shutdown flushes pending spans; it is safe to call when tracing is off.
func Setup(cfg config.TelemetryConfig) (ShutdownFunc, error) {
	if !cfg.TracingEnabled {
		return func(context.Context) error { return nil }, nil
	}

	exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", cfg.ServiceName),
		)),
	)
	otel.SetTracerProvider(tp)
	logger.Info("Tracing enabled for %s (stdout exporter)", cfg.ServiceName)

	return tp.Shutdown, nil
}

// WrapHandler instruments h with otelhttp when tracing is enabled.
func WrapHandler(cfg config.TelemetryConfig, h http.Handler) http.Handler {
	if !cfg.TracingEnabled {
		return h
	}
	return otelhttp.NewHandler(h, cfg.ServiceName)
}
