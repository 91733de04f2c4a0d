package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, line string) LogEntry {
	t.Helper()
	var entry LogEntry
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	return entry
}

func TestJSONLoggerWritesStructuredLines(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, InfoLevel)

	log.Info("analysis started", File("brain_scan"), Int("datasets", 3))

	entry := decodeLine(t, buf.String())
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "analysis started", entry.Message)
	assert.Equal(t, "brain_scan", entry.Fields["file"])
	assert.Equal(t, float64(3), entry.Fields["datasets"])
}

func TestJSONLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, WarnLevel)

	log.Debug("noise")
	log.Info("noise")
	log.Warn("kept")
	log.Error("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "WARN", decodeLine(t, lines[0]).Level)
	assert.Equal(t, "ERROR", decodeLine(t, lines[1]).Level)
}

func TestWithCreatesIndependentChild(t *testing.T) {
	var buf bytes.Buffer
	parent := NewJSONLogger(&buf, InfoLevel)
	child := parent.With(Component("pipeline"))

	child.Info("from child")
	parent.Info("from parent")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "pipeline", decodeLine(t, lines[0]).Fields["component"])
	assert.NotContains(t, decodeLine(t, lines[1]).Fields, "component")
}

func TestCallSiteFieldsOverrideBoundFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, InfoLevel).With(String("stage", "build"))

	log.Info("override", String("stage", "filter"))

	assert.Equal(t, "filter", decodeLine(t, buf.String()).Fields["stage"])
}

func TestErrorField(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, InfoLevel)

	log.Error("failed", Error(errors.New("checksum mismatch")))

	assert.Equal(t, "checksum mismatch", decodeLine(t, buf.String()).Fields["error"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("debug"))
	assert.Equal(t, WarnLevel, ParseLevel("WARNING"))
	assert.Equal(t, ErrorLevel, ParseLevel("ERROR"))
	// Unknown strings default to info
	assert.Equal(t, InfoLevel, ParseLevel("loud"))
}
