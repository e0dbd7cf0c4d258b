package viewmodel

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry bundles what the view models report to.
type Telemetry struct {
	Tracer trace.Tracer
	Meter  metric.Meter
	Logger *slog.Logger
}

type instruments struct {
	name       string
	tracer     trace.Tracer
	logger     *slog.Logger
	operations metric.Int64Counter
}

func newInstruments(name string, tel Telemetry) instruments {
	operations, _ := tel.Meter.Int64Counter(
		"viewmodel.operations",
		metric.WithDescription("Total number of view model operations by result"),
	)
	return instruments{
		name:       name,
		tracer:     tel.Tracer,
		logger:     tel.Logger.With(slog.String("layer", name)),
		operations: operations,
	}
}

func (in instruments) start(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := in.tracer.Start(ctx, in.name+"."+operation)
	span.SetAttributes(attrs...)
	return ctx, span
}

func (in instruments) succeed(ctx context.Context, span trace.Span, operation string) {
	span.SetStatus(codes.Ok, operation+" succeeded")
	in.record(ctx, operation, "success")
}

// fail records a settled failure. msg is the string stored in the state.
func (in instruments) fail(ctx context.Context, span trace.Span, operation string, err error, msg string) {
	if err != nil {
		span.RecordError(err)
	}
	span.SetStatus(codes.Error, msg)
	in.logger.ErrorContext(ctx, msg, slog.String("operation", operation))
	in.record(ctx, operation, "failure")
}

func (in instruments) record(ctx context.Context, operation, result string) {
	in.operations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("view_model", in.name),
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}
