package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext_DefaultsToNop(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
	assert.False(t, l.Core().Enabled(zapcore.ErrorLevel))
}

func TestWithRunID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	ctx, l := WithRunID(context.Background(), zap.New(core), "run-123")
	assert.Equal(t, "run-123", RunID(ctx))

	l.Info("direct")
	FromContext(ctx).Info("from context")

	entries := recorded.All()
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, "run-123", e.ContextMap()["run_id"])
	}
}

func TestRunID_Missing(t *testing.T) {
	assert.Empty(t, RunID(context.Background()))
}

func TestWithTraceContext(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	WithTraceContext(context.Background(), base).Info("no span")

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)
	WithTraceContext(ctx, base).Info("with span")

	entries := recorded.All()
	require.Len(t, entries, 2)
	assert.NotContains(t, entries[0].ContextMap(), "trace_id")
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entries[1].ContextMap()["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", entries[1].ContextMap()["span_id"])
}
