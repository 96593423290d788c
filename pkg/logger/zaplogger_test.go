package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestLogger_InfoCarriesContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewZapLogger("forecaster", "test", &buf)

	l.Info("forecast served", map[string]any{"days": 5})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "forecast served", entries[0]["msg"])
	assert.Equal(t, "forecaster", entries[0]["app_name"])
	assert.Equal(t, "test", entries[0]["app_env"])
	assert.EqualValues(t, 5, entries[0]["days"])
	assert.Contains(t, entries[0]["caller_func"], "TestLogger_InfoCarriesContext")
	assert.NotEmpty(t, entries[0]["timestamp"])
}

func TestLogger_ErrorHasStack(t *testing.T) {
	var buf bytes.Buffer
	l := NewZapLogger("forecaster", "test", &buf)

	l.Error(errors.New("upstream down"))

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "error", entries[0]["level"])
	assert.Equal(t, "upstream down", entries[0]["error"])
	assert.NotEmpty(t, entries[0]["stack"])
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewZapLogger("forecaster", "test", &buf)

	require.NoError(t, l.SetLevel("warn"))
	l.Debug("hidden")
	l.Info("hidden too")
	l.Warning("visible")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "visible", entries[0]["msg"])

	assert.Error(t, l.SetLevel("loud"))
}

func TestLogger_MultipleWriters(t *testing.T) {
	var a, b bytes.Buffer
	l := NewZapLogger("forecaster", "test", &a, &b)

	l.Info("fan out")

	assert.Len(t, decodeLines(t, &a), 1)
	assert.Len(t, decodeLines(t, &b), 1)
}
