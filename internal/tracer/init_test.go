package tracer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func TestInitTracer_DisabledByDefault(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "")

	shutdown := InitTracer()
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitMeter(t *testing.T) {
	t.Run("disabled keeps the global provider", func(t *testing.T) {
		t.Setenv("OTEL_ENABLED", "")
		before := otel.GetMeterProvider()

		shutdown := InitMeter()
		assert.NoError(t, shutdown(context.Background()))
		assert.Equal(t, before, otel.GetMeterProvider())
	})

	t.Run("enabled installs an sdk provider", func(t *testing.T) {
		t.Setenv("OTEL_ENABLED", "true")
		t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "127.0.0.1:1")
		t.Cleanup(func() { otel.SetMeterProvider(noop.NewMeterProvider()) })

		shutdown := InitMeter()
		assert.IsType(t, &sdkmetric.MeterProvider{}, otel.GetMeterProvider())

		// nothing listens on the endpoint, so only check that shutdown returns
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_ = shutdown(ctx)
	})
}

func TestServiceName(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "")
	assert.Equal(t, defaultServiceName, serviceName())

	t.Setenv("OTEL_SERVICE_NAME", "elicitation")
	assert.Equal(t, "elicitation", serviceName())
}
