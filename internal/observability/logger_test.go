package observability_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/Swoorup/the-sorted-array/internal/observability"
)

func TestTracingHandler_InjectsTraceContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(observability.NewTracingHandler(inner, "test-svc", "test", observability.ModeCLI))

	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	require.NoError(t, err)

	spanID, err := trace.SpanIDFromHex("0102030405060708")
	require.NoError(t, err)

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	logger.InfoContext(ctx, "test message")

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "0102030405060708090a0b0c0d0e0f10", record["trace_id"])
	assert.Equal(t, "0102030405060708", record["span_id"])
	assert.Equal(t, "test-svc", record["service"])
	assert.Equal(t, "test", record["env"])
	assert.Equal(t, "cli", record["mode"])
}

func TestTracingHandler_NoTraceContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(observability.NewTracingHandler(inner, "sortedarray", "", observability.ModeScript))

	logger.InfoContext(context.Background(), "no span")

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	_, hasTraceID := record["trace_id"]
	assert.False(t, hasTraceID)
	assert.Equal(t, "script", record["mode"])

	_, hasEnv := record["env"]
	assert.False(t, hasEnv)
}

func TestTracingHandler_WithGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	inner := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(observability.NewTracingHandler(inner, "sortedarray", "", observability.ModeCLI))

	logger.WithGroup("window").InfoContext(context.Background(), "gap reported", slog.Float64("from", 2))

	var record map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	// Service attrs stay at the top level.
	assert.Equal(t, "sortedarray", record["service"])

	group, ok := record["window"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 2.0, group["from"], 0)
}
