// Package observability owns the OpenTelemetry meter and tracer providers.
package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer

	analysisCounter  otelmetric.Int64Counter
	analysisDuration otelmetric.Float64Histogram
}

// New builds the providers, registers them globally and exports meters
// through reg. Span processors are optional; without one spans are sampled
// but not shipped anywhere.
func New(serviceName string, reg prometheus.Registerer, processors ...sdktrace.SpanProcessor) (*Observability, error) {
	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	res := resource.NewSchemaless(attribute.String("service.name", serviceName))

	meterProvider := metric.NewMeterProvider(metric.WithReader(exporter), metric.WithResource(res))

	traceOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	for _, p := range processors {
		traceOpts = append(traceOpts, sdktrace.WithSpanProcessor(p))
	}
	tracerProvider := sdktrace.NewTracerProvider(traceOpts...)

	otel.SetMeterProvider(meterProvider)
	otel.SetTracerProvider(tracerProvider)

	meter := meterProvider.Meter(serviceName)

	analysisCounter, err := meter.Int64Counter(
		"credit.analyses",
		otelmetric.WithDescription("Number of credit analyses served"),
	)
	if err != nil {
		return nil, err
	}

	analysisDuration, err := meter.Float64Histogram(
		"credit.analysis.duration",
		otelmetric.WithDescription("Credit analysis duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &Observability{
		meterProvider:    meterProvider,
		tracerProvider:   tracerProvider,
		tracer:           tracerProvider.Tracer(serviceName),
		analysisCounter:  analysisCounter,
		analysisDuration: analysisDuration,
	}, nil
}

func (o *Observability) Tracer() trace.Tracer {
	return o.tracer
}

func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// RecordAnalysis counts one analysis by entry point and outcome.
func (o *Observability) RecordAnalysis(ctx context.Context, entrypoint, outcome string, elapsed time.Duration) {
	attrs := otelmetric.WithAttributes(
		attribute.String("entrypoint", entrypoint),
		attribute.String("outcome", outcome),
	)
	o.analysisCounter.Add(ctx, 1, attrs)
	o.analysisDuration.Record(ctx, float64(elapsed.Milliseconds()), attrs)
}

func (o *Observability) Shutdown(ctx context.Context) error {
	return errors.Join(
		o.tracerProvider.Shutdown(ctx),
		o.meterProvider.Shutdown(ctx),
	)
}
