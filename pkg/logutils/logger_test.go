package logutils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEntries(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var e map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		entries = append(entries, e)
	}
	return entries
}

func TestNew_writesJSONAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "foodverse.log")

	l, closer, err := New("info", path)
	require.NoError(t, err)
	l.Info().Str("run", "first").Msg("hello")
	l.Debug().Msg("filtered")
	closer()

	l, closer, err = New("info", path)
	require.NoError(t, err)
	l.Info().Str("run", "second").Msg("again")
	closer()

	entries := readEntries(t, path)
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0]["run"])
	assert.Equal(t, "second", entries[1]["run"])
	assert.Contains(t, entries[0], "time")
}

func TestNew_badLevel(t *testing.T) {
	_, closer, err := New("loud", "")
	require.Error(t, err)
	assert.NotNil(t, closer)
}

type tagHook struct{}

func (tagHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Str("hooked", "yes")
}

func TestNew_hooks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	l, closer, err := New("debug", path, tagHook{})
	require.NoError(t, err)
	l.Debug().Msg("with hook")
	closer()

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "yes", entries[0]["hooked"])
}
