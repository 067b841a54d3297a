package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedactingCore_MasksCredentialFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(NewRedactingCore(core))

	log.Info("calling upstream",
		zap.String("api_key", "sk-secret"),
		zap.String("Authorization", "Bearer sk-secret"),
		zap.String("stage", "notes"),
		zap.Int("status", 200),
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "[REDACTED]", ctx["api_key"])
	assert.Equal(t, "[REDACTED]", ctx["Authorization"])
	assert.Equal(t, "notes", ctx["stage"])
	assert.EqualValues(t, 200, ctx["status"])
}

func TestRedactingCore_MasksWithFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(NewRedactingCore(core)).With(zap.String("refresh_token", "abc"))

	log.Info("hello")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "[REDACTED]", entries[0].ContextMap()["refresh_token"])
}

func TestNew_ReturnsUsableLogger(t *testing.T) {
	log := New("production", "debug")
	require.NotNil(t, log)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))

	log = New("development", "info")
	assert.False(t, log.Core().Enabled(zap.DebugLevel))
}
