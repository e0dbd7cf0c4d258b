package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/mrops-br/bank-products/internal/infrastructure/config"
)

// Options tune the telemetry components beyond the OTLP settings.
type Options struct {
	Level  slog.Level
	Output io.Writer
	// Prometheus registers an exporter on the default registry so /metrics
	// can serve the meter provider's instruments. Only one process-wide
	// provider may enable it.
	Prometheus bool
}

func (o Options) output() io.Writer {
	if o.Output == nil {
		return os.Stdout
	}
	return o.Output
}

// Telemetry holds all OpenTelemetry components
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *metric.MeterProvider
	Logger         *slog.Logger
}

// NewTelemetry initializes all OpenTelemetry components
func NewTelemetry(cfg *config.OTLPConfig, opts Options) (*Telemetry, error) {
	logger := initLogger(cfg, opts)

	logger.Info("Initializing OpenTelemetry",
		slog.String("endpoint", cfg.Endpoint),
		slog.String("service_name", cfg.ServiceName),
	)

	tp, err := initTracerProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer provider: %w", err)
	}

	otel.SetTracerProvider(tp)
	logger.Info("Tracer provider initialized successfully")

	mp, err := initMeterProvider(cfg, opts.Prometheus)
	if err != nil {
		_ = tp.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to initialize meter provider: %w", err)
	}

	otel.SetMeterProvider(mp)
	logger.Info("Meter provider initialized successfully",
		slog.Bool("prometheus", opts.Prometheus),
	)

	return &Telemetry{
		TracerProvider: tp,
		MeterProvider:  mp,
		Logger:         logger,
	}, nil
}

// NewNoOpTelemetry creates a telemetry instance whose providers never export
// over OTLP. Prometheus still works when requested.
func NewNoOpTelemetry(cfg *config.OTLPConfig, opts Options) (*Telemetry, error) {
	logger := initLogger(cfg, opts)

	tp := sdktrace.NewTracerProvider()

	var mopts []metric.Option
	if opts.Prometheus {
		reader, err := newPrometheusReader()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize prometheus exporter: %w", err)
		}
		mopts = append(mopts, metric.WithReader(reader))
	}
	mp := metric.NewMeterProvider(mopts...)

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	logger.Debug("Telemetry initialized in no-op mode (export disabled)")

	return &Telemetry{
		TracerProvider: tp,
		MeterProvider:  mp,
		Logger:         logger,
	}, nil
}

// Setup picks the exporting or no-op variant from cfg.Enabled.
func Setup(cfg *config.OTLPConfig, opts Options) (*Telemetry, error) {
	if cfg.Enabled {
		return NewTelemetry(cfg, opts)
	}
	return NewNoOpTelemetry(cfg, opts)
}

// Shutdown gracefully shuts down all telemetry components
func (t *Telemetry) Shutdown(ctx context.Context) error {
	t.Logger.Debug("Shutting down OpenTelemetry")

	if err := t.TracerProvider.Shutdown(ctx); err != nil {
		t.Logger.Error("Failed to shutdown tracer provider", slog.String("error", err.Error()))
		return err
	}

	if err := t.MeterProvider.Shutdown(ctx); err != nil {
		t.Logger.Error("Failed to shutdown meter provider", slog.String("error", err.Error()))
		return err
	}

	t.Logger.Debug("OpenTelemetry shutdown successfully")
	return nil
}
