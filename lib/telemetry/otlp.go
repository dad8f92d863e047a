package telemetry

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// OtlpEndpoint is where one signal is exported to. When both endpoints are
// set grpc is used, when neither is the signal is kept in process.
type OtlpEndpoint struct {
	GrpcEndpoint string            `json:"grpc_endpoint"`
	HttpEndpoint string            `json:"http_endpoint"`
	Headers      map[string]string `json:"headers"`
}

func (e OtlpEndpoint) transport() string {
	switch {
	case e.GrpcEndpoint != "":
		return "grpc"
	case e.HttpEndpoint != "":
		return "http"
	}
	return ""
}

type OtlpConfig struct {
	Traces  OtlpEndpoint `json:"traces"`
	Metrics OtlpEndpoint `json:"metrics"`
}

type Config struct {
	// Environment is recorded as deployment.environment, eg. "dev".
	Environment string     `json:"environment"`
	Otlp        OtlpConfig `json:"otlp"`
}

func newResource(serviceName string, config Config) (*resource.Resource, error) {
	attrs := []resource.Option{
		resource.WithAttributes(semconv.ServiceName(serviceName)),
		resource.WithSchemaURL(semconv.SchemaURL),
	}
	if config.Environment != "" {
		attrs = append(attrs, resource.WithAttributes(semconv.DeploymentEnvironment(config.Environment)))
	}
	custom, err := resource.New(context.Background(), attrs...)
	if err != nil {
		return nil, err
	}
	return resource.Merge(resource.Default(), custom)
}

func newTraceProvider(ctx context.Context, r *resource.Resource, endpoint OtlpEndpoint) (*trace.TracerProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()

	var (
		exporter trace.SpanExporter
		err      error
	)
	switch endpoint.transport() {
	case "grpc":
		exporter, err = otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpointURL(endpoint.GrpcEndpoint),
			otlptracegrpc.WithHeaders(endpoint.Headers),
		)
	case "http":
		exporter, err = otlptracehttp.New(
			ctx,
			otlptracehttp.WithEndpointURL(endpoint.HttpEndpoint),
			otlptracehttp.WithHeaders(endpoint.Headers),
		)
	default:
		return trace.NewTracerProvider(trace.WithResource(r)), nil
	}
	if err != nil {
		return nil, err
	}

	slog.Debug("trace exporter initialized", "transport", endpoint.transport())
	return trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(r),
	), nil
}

func newMetricProvider(ctx context.Context, r *resource.Resource, endpoint OtlpEndpoint) (*metric.MeterProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*3)
	defer cancel()

	var (
		exporter metric.Exporter
		err      error
	)
	switch endpoint.transport() {
	case "grpc":
		exporter, err = otlpmetricgrpc.New(
			ctx,
			otlpmetricgrpc.WithEndpointURL(endpoint.GrpcEndpoint),
			otlpmetricgrpc.WithHeaders(endpoint.Headers),
		)
	case "http":
		exporter, err = otlpmetrichttp.New(
			ctx,
			otlpmetrichttp.WithEndpointURL(endpoint.HttpEndpoint),
			otlpmetrichttp.WithHeaders(endpoint.Headers),
		)
	default:
		return metric.NewMeterProvider(metric.WithResource(r)), nil
	}
	if err != nil {
		return nil, err
	}

	slog.Debug("metric exporter initialized", "transport", endpoint.transport())
	return metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(exporter, metric.WithInterval(time.Second*5))),
		metric.WithResource(r),
	), nil
}
