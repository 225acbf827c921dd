package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ch4444rlie/SyntheticAmazonOrder/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zaptest"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	original := otel.GetTracerProvider()
	tp := telemetry.NewTracerProviderWithProcessor(telemetry.Config{ServiceName: "test", SamplingRatio: 1}, sr, zaptest.NewLogger(t))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(original)
	})
	return sr
}

func TestStartSpan(t *testing.T) {
	sr := setupTestTracer(t)

	ctx, span := telemetry.StartSpan(context.Background(), "pipeline.synthesize",
		telemetry.KV(telemetry.AttrOrderCount, 20, telemetry.AttrRunID, "abc")...)
	assert.NotEmpty(t, telemetry.TraceID(ctx))
	assert.NotEmpty(t, telemetry.SpanID(ctx))
	telemetry.SetOK(span)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "pipeline.synthesize", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.Int(telemetry.AttrOrderCount, 20))
	assert.Contains(t, spans[0].Attributes(), attribute.String(telemetry.AttrRunID, "abc"))
}

func TestRecordError(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "pipeline.export")
	telemetry.RecordError(span, errors.New("disk full"))
	telemetry.RecordError(span, nil)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "disk full", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
}

func TestKV(t *testing.T) {
	attrs := telemetry.KV("a", "x", 1, "skipped", "b", true, "c", uint64(7), "d", []string{"p"}, "dangling")
	assert.Equal(t, []attribute.KeyValue{
		attribute.String("a", "x"),
		attribute.Bool("b", true),
		attribute.Int64("c", 7),
		attribute.StringSlice("d", []string{"p"}),
	}, attrs)
}

func TestTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, telemetry.TraceID(context.Background()))
	assert.Empty(t, telemetry.SpanID(context.Background()))
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{Enabled: false, ServiceName: "ordergen"}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("x"))
	assert.NoError(t, tp.ForceFlush(context.Background()))
	assert.NoError(t, tp.Shutdown(context.Background()))
}
