// Package telemetry configures OpenTelemetry tracing and metrics for the service.
package telemetry

import (
	"context"

	"github.com/abgdnv/catalog/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/propagation"
	metricsdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

// NewTracerProvider installs a global tracer provider and W3C propagators.
// With telemetry disabled the provider records spans locally but exports nothing,
// so trace ids still reach the logs.
func NewTracerProvider(ctx context.Context, serviceName string, cfg config.TelemetryConfig) (*tracesdk.TracerProvider, error) {
	opts := []tracesdk.TracerProviderOption{
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
		)),
	}

	if cfg.Enabled {
		collectorOpts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(cfg.Traces.OtlpHttp.Endpoint),
			otlptracehttp.WithTimeout(cfg.Traces.OtlpHttp.Timeout),
		}
		if cfg.Traces.OtlpHttp.Insecure {
			collectorOpts = append(collectorOpts, otlptracehttp.WithInsecure())
		}
		exporter, err := otlptracehttp.New(ctx, collectorOpts...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, tracesdk.WithBatcher(exporter))
	}

	tp := tracesdk.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	return tp, nil
}

// NewMeterProvider installs a global meter provider whose instruments are exported
// through the given Prometheus registry, next to the client_golang collectors.
func NewMeterProvider(serviceName string, reg prometheus.Registerer) (*metricsdk.MeterProvider, error) {
	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, err
	}
	mp := metricsdk.NewMeterProvider(
		metricsdk.WithReader(exporter),
		metricsdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
		)),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}
