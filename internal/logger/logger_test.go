package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset(t *testing.T) *bytes.Buffer {
	t.Helper()
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	var buf bytes.Buffer
	SetOutput(&buf)
	return &buf
}

func TestSetVerbose(t *testing.T) {
	reset(t)

	SetVerbose(false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebug_WhenVerbose(t *testing.T) {
	buf := reset(t)
	SetVerbose(true)

	Debug("test message %s", "arg")

	assert.Equal(t, "[DEBUG] test message arg\n", buf.String())
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	buf := reset(t)
	SetVerbose(false)

	Debug("test message")

	assert.Zero(t, buf.Len())
}

func TestSection(t *testing.T) {
	buf := reset(t)
	SetVerbose(true)

	Section("Checkout")

	assert.Contains(t, buf.String(), "=== Checkout ===")
}

func TestInfo(t *testing.T) {
	buf := reset(t)

	Info("hidden")
	assert.Zero(t, buf.Len())

	SetVerbose(true)
	Info("basket %d", 7)
	assert.Equal(t, "[INFO] basket 7\n", buf.String())
}

func TestWarn_AlwaysPrinted(t *testing.T) {
	buf := reset(t)
	SetVerbose(false)

	Warn("stale basket %d", 3)

	assert.Equal(t, "[WARN] stale basket 3\n", buf.String())
}

func TestJSONFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")
	buf := reset(t)
	SetVerbose(true)

	Info("refreshed")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "refreshed", line["message"])
}
