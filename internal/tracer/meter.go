package tracer

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const metricExportInterval = 30 * time.Second

// InitMeter installs a meter provider that pushes metrics over OTLP/HTTP on a
// fixed interval. Like tracing it stays off unless OTEL_ENABLED=true.
func InitMeter() func(context.Context) error {
	if !enabled() {
		return func(context.Context) error { return nil }
	}

	ctx := context.Background()
	otelEndpoint := otlpEndpoint()

	exporter, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpoint(otelEndpoint),
		otlpmetrichttp.WithInsecure(),
	)
	if err != nil {
		log.Printf("Warning: Failed to create OTLP metric exporter: %v (metrics disabled)", err)
		return func(context.Context) error { return nil }
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(metricExportInterval),
		)),
		sdkmetric.WithResource(newResource()),
	)

	otel.SetMeterProvider(mp)
	log.Printf("✅ OpenTelemetry meter initialized (endpoint: %s)", otelEndpoint)

	return mp.Shutdown
}
