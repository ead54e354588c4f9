package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/focusplanner/internal/infrastructure/config"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
}

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, "info", "text")
	logger.now = fixedClock

	logger.Log("INFO", "plan evaluated", map[string]interface{}{"target": "Charcoal", "focus": 20})

	assert.Equal(t, "12:30:00 [INFO] plan evaluated focus=20 target=Charcoal\n", buf.String())
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, "debug", "json")
	logger.now = fixedClock

	logger.Log("WARNING", "dropped record", map[string]interface{}{"name": ""})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "dropped record", entry["message"])
	assert.Equal(t, "2026-03-01T12:30:00Z", entry["time"])
}

func TestLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, "warn", "text")

	logger.Log("DEBUG", "noise", nil)
	logger.Log("INFO", "noise", nil)
	logger.Log("ERROR", "kept", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "kept")
}

func TestNewLogger_FileOutputRequiresPath(t *testing.T) {
	_, err := NewLogger(config.LoggingConfig{Level: "info", Format: "text", Output: "file"})

	assert.Error(t, err)
}

func TestNewLogger_WritesToFile(t *testing.T) {
	path := t.TempDir() + "/planner.log"
	logger, err := NewLogger(config.LoggingConfig{Level: "info", Format: "text", Output: "file", FilePath: path})
	require.NoError(t, err)

	logger.Log("INFO", "hello", nil)
	require.NoError(t, logger.Close())

	assert.FileExists(t, path)
}
