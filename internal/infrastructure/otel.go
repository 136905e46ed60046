package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"radpulse/internal/config"
)

const (
	ServiceName = "radpulse"
	TracerName  = "radpulse/pipeline"
)

// Tracing holds the tracer provider for one run. When tracing is disabled
// the Tracer is a no-op and Shutdown does nothing.
type Tracing struct {
	Tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	file     *os.File
	logger   *slog.Logger
}

// InitializeTracing sets up a tracer provider that writes pretty-printed
// spans to the configured trace file. A single batch run produces few spans,
// so the stdouttrace exporter is sufficient.
func InitializeTracing(cfg config.ObservabilityConfig, traceFile string, logger *slog.Logger) (*Tracing, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if !cfg.TracingEnabled || traceFile == "" {
		return &Tracing{
			Tracer: noop.NewTracerProvider().Tracer(TracerName),
			logger: logger,
		}, nil
	}

	dir := filepath.Dir(traceFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create trace directory %s: %w", dir, err)
	}

	file, err := os.Create(traceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace file %s: %w", traceFile, err)
	}

	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(file),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(config.AppVersion),
		),
	)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	logger.Info("Tracing initialized",
		slog.String("service", ServiceName),
		slog.String("trace_file", traceFile))

	return &Tracing{
		Tracer:   provider.Tracer(TracerName),
		provider: provider,
		file:     file,
		logger:   logger,
	}, nil
}

// Shutdown flushes pending spans and closes the trace file.
func (t *Tracing) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}

	if err := t.provider.Shutdown(ctx); err != nil {
		t.file.Close()
		return fmt.Errorf("failed to shut down tracer provider: %w", err)
	}

	return t.file.Close()
}
