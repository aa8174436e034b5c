// tracing поднимает глобальный OpenTelemetry TracerProvider с OTLP/gRPC
// экспортом. Спаны создают otelhttp-обёртки сервера и исходящего клиента.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"

	"github.com/cathysarisky/api-with-activitypub/internal/config"
)

// Shutdown сбрасывает буфер спанов и закрывает экспортёр.
type Shutdown func(ctx context.Context) error

func noop(context.Context) error { return nil }

// Setup настраивает трейсинг. При выключенном экспорте ничего не меняет
// и возвращает no-op Shutdown.
func Setup(ctx context.Context, cfg config.TracingConfig, env, version string) (Shutdown, error) {
	const op = "tracing.Setup"

	if !cfg.Enabled() {
		return noop, nil
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return noop, fmt.Errorf("%s: exporter: %w", op, err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(version),
			semconv.DeploymentEnvironmentKey.String(env),
		),
	)
	if err != nil {
		return noop, fmt.Errorf("%s: resource: %w", op, err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}
