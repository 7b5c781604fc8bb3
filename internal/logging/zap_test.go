package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_WritesJSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewZapLogger("debug", &buf)
	require.NoError(t, err)

	log.With("address", "0xabc").Info(context.Background(), "task added", "id", 7)

	out := buf.String()
	assert.Contains(t, out, `"msg":"task added"`)
	assert.Contains(t, out, `"address":"0xabc"`)
	assert.Contains(t, out, `"id":7`)
	assert.Contains(t, out, `"level":"info"`)
}

func TestZapLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewZapLogger("warn", &buf)
	require.NoError(t, err)

	ctx := context.Background()
	log.Debug(ctx, "dbg")
	log.Info(ctx, "inf")
	log.Warn(ctx, "wrn")
	log.Error(ctx, "err")

	out := buf.String()
	assert.NotContains(t, out, "dbg")
	assert.NotContains(t, out, "inf")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestWrapZap_UsesObserverCore(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := WrapZap(zap.New(core))

	log.Error(context.Background(), "refresh failed", "count", 3)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "refresh failed", entry.Message)
	assert.Equal(t, int64(3), entry.ContextMap()["count"])
}

func TestNewZapLogger_InvalidLevel(t *testing.T) {
	_, err := NewZapLogger("loud", &bytes.Buffer{})
	require.Error(t, err)
}
