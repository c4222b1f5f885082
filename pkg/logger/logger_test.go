package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerDefaultsCreateNoFiles(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	l, err := NewLogger()
	require.NoError(t, err)
	l.Info("hello")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewLoggerFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "publisher.log")

	l, err := NewLogger(WithEncoding("json"), WithOutputPaths([]string{path}))
	require.NoError(t, err)
	l.Info("written", String("k", "v"))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"written"`)
	assert.Contains(t, string(data), `"k":"v"`)
}

func TestNewLoggerRejectsBadSettings(t *testing.T) {
	_, err := NewLogger(WithLevel("loud"))
	assert.Error(t, err)

	_, err = NewLogger(WithEncoding("xml"))
	assert.Error(t, err)
}

func TestTestLoggerSharesEntriesWithChildren(t *testing.T) {
	l := NewTestLogger()
	child := l.Named("pipeline").With(String("run_id", "r1"))

	child.Warn("careful")
	l.Info("root")

	entries := l.GetEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "pipeline", entries[0].Logger)
	assert.Len(t, entries[0].Fields, 1)
	assert.True(t, l.HasMessage("INFO", "root"))

	l.Clear()
	assert.Empty(t, l.GetEntries())
}
