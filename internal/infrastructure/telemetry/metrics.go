package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/mrops-br/bank-products/internal/infrastructure/config"
)

// initMeterProvider initializes the meter provider with an OTLP reader and,
// optionally, a Prometheus reader
func initMeterProvider(cfg *config.OTLPConfig, withPrometheus bool) (*metric.MeterProvider, error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(cfg.Endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	exporter, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	opts := []metric.Option{
		metric.WithReader(metric.NewPeriodicReader(exporter)),
		metric.WithResource(res),
	}
	if withPrometheus {
		reader, err := newPrometheusReader()
		if err != nil {
			return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		opts = append(opts, metric.WithReader(reader))
	}

	return metric.NewMeterProvider(opts...), nil
}

// newPrometheusReader registers an exporter on the default Prometheus registry.
func newPrometheusReader() (metric.Reader, error) {
	return prometheus.New()
}
