package logger

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap/zapcore"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"":        zapcore.InfoLevel,
		"debug":   zapcore.DebugLevel,
		"TRACE":   zapcore.DebugLevel,
		" warn ":  zapcore.WarnLevel,
		"WARNING": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLogLevel(in), "input %q", in)
	}
}

func TestInitializeWritesConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	logPath := filepath.Join(t.TempDir(), "nested", "kramden.log")

	l := Initialize(Config{Level: "info", File: logPath, Console: &console})
	t.Cleanup(InitializeWithFallback)

	l.Info("erase started")
	otelzap.Ctx(context.Background()).Info("via otelzap")
	require.NoError(t, Sync())

	assert.Contains(t, console.String(), "erase started")
	assert.Contains(t, console.String(), "via otelzap")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"erase started"`)
	assert.Same(t, l, L())
}

func TestInitializeUnwritableFileFallsBackToConsole(t *testing.T) {
	var console bytes.Buffer
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))

	l := Initialize(Config{Level: "debug", File: filepath.Join(blocker, "kramden.log"), Console: &console})
	t.Cleanup(InitializeWithFallback)

	l.Info("still logging")
	assert.Contains(t, console.String(), "Could not open log file")
	assert.Contains(t, console.String(), "still logging")
}
