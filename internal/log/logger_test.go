package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFromEnv(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}

	for value, want := range tests {
		t.Setenv("LOG_LEVEL", value)
		assert.Equal(t, want, levelFromEnv(), "LOG_LEVEL=%q", value)
	}
}

func TestWithCorrelationID_UsesContextValue(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelInfo)

	ctx := context.WithValue(context.Background(), CorrelatedIDKey, "req-123")
	logger.WithCorrelationID(ctx).Info("hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "req-123", record["correlation_id"])
	assert.Equal(t, "hello", record["msg"])
}

func TestGetLoggerInstanceFromContext(t *testing.T) {
	stored := NewLogger(&bytes.Buffer{}, slog.LevelInfo)
	ctx := context.WithValue(context.Background(), LoggerKeyForContext, stored)

	assert.Same(t, stored, GetLoggerInstanceFromContext(ctx, nil))

	fallback := NewLogger(&bytes.Buffer{}, slog.LevelInfo)
	var noCtx context.Context
	assert.Same(t, fallback, GetLoggerInstanceFromContext(noCtx, fallback))
	assert.NotNil(t, GetLoggerInstanceFromContext(context.Background(), fallback))
}

func TestNewLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn)

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestContextHelpers(t *testing.T) {
	_, ok := CorrelationID(context.Background())
	assert.False(t, ok)

	ctx := ContextWithCorrelationID(context.Background(), "req-7")
	id, ok := CorrelationID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "req-7", id)
	assert.Equal(t, "req-7", GetOrGenerateCorrelationID(ctx))

	var buf bytes.Buffer
	stored := NewLogger(&buf, slog.LevelInfo).With("component", "waitlist")
	ctx = ContextWithLogger(ctx, stored)
	GetLoggerInstanceFromContext(ctx, nil).Info("stored")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "waitlist", record["component"])
}

func TestGenerateCorrelationID_IsUUID(t *testing.T) {
	id := GenerateCorrelationID()

	assert.Len(t, id, 36)
	assert.NotEqual(t, id, GenerateCorrelationID())
}
