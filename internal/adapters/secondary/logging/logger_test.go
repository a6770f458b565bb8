package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fredcamaral/promptdeck/internal/domain/entities"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, Level(entities.LogLevelDebug))
	assert.Equal(t, zapcore.InfoLevel, Level(entities.LogLevelInfo))
	assert.Equal(t, zapcore.WarnLevel, Level(entities.LogLevelWarn))
	assert.Equal(t, zapcore.ErrorLevel, Level(entities.LogLevelError))
	assert.Equal(t, zapcore.InfoLevel, Level("bogus"))
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(entities.LoggingConfig{Level: "info", JSONFormat: true}, &buf, false)

	logger.Debug("hidden")
	logger.Named("http").Info("request", zap.Int("status", 200))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "http", entry["logger"])
	assert.Equal(t, "request", entry["msg"])
	assert.Equal(t, float64(200), entry["status"])
	assert.Contains(t, entry, "time")
	assert.Contains(t, entry, "caller")
}

func TestNewWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(entities.LoggingConfig{Verbose: true}, &buf, false)

	logger.Debug("visible in verbose mode")

	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "visible in verbose mode")
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "promptdeck.log")

	logger, closeFn, err := New(entities.LoggingConfig{File: path, JSONFormat: true})
	require.NoError(t, err)

	logger.Warn("written to file")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestNew_BadFile(t *testing.T) {
	_, _, err := New(entities.LoggingConfig{File: filepath.Join(t.TempDir(), "missing", "app.log")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening log file")
}
