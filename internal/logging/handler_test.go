package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestSetupStampsServiceIdentity(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("gatehouse", "1.2.3", "json", &buf)

	logger.Info("hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "gatehouse", record["service"])
	assert.Equal(t, "1.2.3", record["version"])
	assert.Equal(t, "hello", record["msg"])
}

func TestSetupTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("gatehouse", "dev", "text", &buf)

	logger.Info("hello")
	assert.Contains(t, buf.String(), "service=gatehouse")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestHandlerAddsTraceContext(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("gatehouse", "dev", "json", &buf)

	traceID := trace.TraceID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10}
	spanID := trace.SpanID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)

	logger.InfoContext(ctx, "traced")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, traceID.String(), record["trace_id"])
	assert.Equal(t, spanID.String(), record["span_id"])
}

func TestHandlerWithAttrsPreservesIdentity(t *testing.T) {
	var buf bytes.Buffer
	logger := Setup("gatehouse", "dev", "json", &buf)

	logger.With("component", "test").Info("attributed")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "gatehouse", record["service"])
	assert.Equal(t, "test", record["component"])
}

func TestSetupDefaultsToStderrAndJSON(t *testing.T) {
	logger := Setup("gatehouse", "dev", "", nil)
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))
}
