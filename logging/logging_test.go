package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesConsoleAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.log")
	var console bytes.Buffer

	log, err := New(Options{Level: "info", File: path, Console: &console, NoColor: true})
	require.NoError(t, err)

	log.Info().Str("query", "dance").Msg("search started")
	log.Debug().Msg("hidden")
	require.NoError(t, log.Close())

	assert.Contains(t, console.String(), "| INFO  | search started")
	assert.Contains(t, console.String(), "query=dance")
	assert.NotContains(t, console.String(), "hidden")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "| INFO  | search started")
	assert.NotContains(t, string(data), "\x1b[", "file output must not carry colour codes")
}

func TestNewAppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	require.NoError(t, os.WriteFile(path, []byte("previous run\n"), 0o644))

	log, err := New(Options{File: path, Console: &bytes.Buffer{}})
	require.NoError(t, err)
	log.Warn().Msg("stopped by user")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("previous run\n")))
	assert.Contains(t, string(data), "| WARN  | stopped by user")
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	var console bytes.Buffer
	log, err := New(Options{Level: "loud", Console: &console, NoColor: true})
	require.NoError(t, err)

	log.Info().Msg("visible")
	log.Debug().Msg("invisible")

	assert.Contains(t, console.String(), "visible")
	assert.NotContains(t, console.String(), "invisible")
	assert.NoError(t, log.Close())
}
