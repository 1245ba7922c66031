package telemetry_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/recomp/internal/adapters/telemetry"
	"go.trai.ch/recomp/internal/core/ports"
	"go.trai.ch/recomp/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newRecordedTracer(t *testing.T) (*telemetry.OTelTracer, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return telemetry.NewOTelTracerWithProvider(tp, "test"), recorder
}

func attrMap(kvs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(kvs))
	for _, kv := range kvs {
		m[string(kv.Key)] = kv.Value
	}
	return m
}

func TestOTelTracer_Attributes(t *testing.T) {
	tracer, recorder := newRecordedTracer(t)

	_, span := tracer.Start(context.Background(), "compile", ports.WithAttribute("unit.path", "a.ui"))
	span.SetAttribute("unit.cached", true)
	span.SetAttribute("unit.dependencies", []string{"b.ui"})
	span.SetAttribute("count", 3)
	span.SetAttribute("big", int64(7))
	span.SetAttribute("ratio", 0.5)
	span.SetAttribute("other", struct{ X int }{1})
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "compile", ended[0].Name())

	attrs := attrMap(ended[0].Attributes())
	assert.Equal(t, "a.ui", attrs["unit.path"].AsString())
	assert.True(t, attrs["unit.cached"].AsBool())
	assert.Equal(t, []string{"b.ui"}, attrs["unit.dependencies"].AsStringSlice())
	assert.Equal(t, int64(3), attrs["count"].AsInt64())
	assert.Equal(t, int64(7), attrs["big"].AsInt64())
	assert.InDelta(t, 0.5, attrs["ratio"].AsFloat64(), 0.0001)
	assert.Equal(t, "{1}", attrs["other"].AsString())
}

func TestOTelTracer_RecordError(t *testing.T) {
	tracer, recorder := newRecordedTracer(t)

	_, span := tracer.Start(context.Background(), "compile")
	span.RecordError(errors.New("unit not found"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "unit not found", ended[0].Status().Description)
	require.Len(t, ended[0].Events(), 1)
	assert.Equal(t, "exception", ended[0].Events()[0].Name)
}

func TestNoOpTracer(t *testing.T) {
	t.Parallel()

	tracer := telemetry.NewNoOpTracer()
	ctx := context.Background()

	newCtx, span := tracer.Start(ctx, "test-span", ports.WithAttribute("k", "v"))
	assert.Equal(t, ctx, newCtx)
	require.NotNil(t, span)

	span.SetAttribute("key", "value")
	span.RecordError(errors.New("test error"))
	span.End()
}

func TestBridge_OnEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	var logged string
	logger.EXPECT().Debug(gomock.Any()).Do(func(msg string) { logged = msg })

	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(logger)))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	tracer := telemetry.NewOTelTracerWithProvider(tp, "test")

	_, span := tracer.Start(context.Background(), "compile",
		ports.WithAttribute("unit.path", "b.ui"))
	span.SetAttribute("unit.cached", false)
	span.RecordError(errors.New("boom"))
	span.End()

	assert.True(t, strings.HasPrefix(logged, "span compile took "), logged)
	assert.Contains(t, logged, "unit.cached=false unit.path=b.ui")
	assert.Contains(t, logged, `error="boom"`)
}

func TestBridge_NilLogger(t *testing.T) {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(telemetry.NewBridge(nil)))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := tp.Tracer("test").Start(context.Background(), "compile")
	span.End()
}

func TestSetup(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).Times(1)

	tp := telemetry.Setup(logger)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := telemetry.NewOTelTracer(telemetry.InstrumentationName).Start(context.Background(), "watch")
	span.End()
}
