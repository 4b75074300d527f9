package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Levels(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "WARN", " error "} {
		l, err := New(lvl)
		require.NoError(t, err, lvl)
		assert.NotNil(t, l)
	}
	_, err := New("loud")
	assert.Error(t, err)
}

func TestFromZap_WritesEventAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core))

	l.InfoObj("analysis done", "analysis_completed", map[string]any{"role": "go", "jobs": 3})
	l.ErrorObj("fetch failed", "fetch_error", map[string]any{"error": errors.New("boom")})

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "analysis_completed", first["event"])
	assert.Equal(t, "go", first["role"])
	assert.EqualValues(t, 3, first["jobs"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}

func TestNopLogger(t *testing.T) {
	var l Logger = NopLogger{}
	l.InfoObj("x", "y", nil)
	assert.NoError(t, l.Sync())
}
