package telemetry

import (
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/recomp/internal/core/ports"
)

// Setup configures the OpenTelemetry SDK so that every finished span is
// reported to logger, and registers it as the global provider.
// Callers should Shutdown the returned provider when done.
func Setup(logger ports.Logger) *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewBridge(logger)),
	)
	otel.SetTracerProvider(tp)
	return tp
}
