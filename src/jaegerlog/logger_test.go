package jaegerlog

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, zapcore.InfoLevel)
	log.Debug("hidden")
	log.Info("Server starting", zap.String("addr", ":8080"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "Server starting")
	assert.Contains(t, out, `"addr": ":8080"`)
}

func TestOpenAppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "server.log")
	log, closeFn, err := Open(path, "debug")
	require.NoError(t, err)
	log.Debug("Start logging")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Start logging")
}

func TestOpenRejectsUnknownLevel(t *testing.T) {
	_, _, err := Open("", "loud")
	require.Error(t, err)
}
