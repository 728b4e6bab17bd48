package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNew_RoleField verifies that every entry carries the role field.
func TestNew_RoleField(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "organiser")

	l.Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "organiser", entry["role"])
	assert.Equal(t, "hello", entry["message"])
	_, hasTime := entry["time"]
	assert.True(t, hasTime, "expected 'time' field in log entry")
}

// TestWith_AddsField verifies that the child logger carries the extra field
// and keeps the parent's fields.
func TestWith_AddsField(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "organiser").With("run", "42")

	l.Warn().Msg("careful")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "42", entry["run"])
	assert.Equal(t, "organiser", entry["role"])
	assert.Equal(t, "warn", entry["level"])
}

// TestNop_DiscardsOutput verifies that a Nop logger produces no output.
func TestNop_DiscardsOutput(t *testing.T) {
	var buf bytes.Buffer
	l := Nop()
	l.Logger = l.Output(&buf)

	l.Info().Msg("should be discarded")

	assert.Empty(t, buf.String())
}

func TestNewConsole_NotNil(t *testing.T) {
	require.NotNil(t, NewConsole("cli", "debug"))
	require.NotNil(t, NewConsole("cli", "bogus"))
}
