package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)
	logger.Info("hidden")
	logger.Warn("shown", "path", "a.b")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "path=a.b")

	buf.Reset()
	New(&buf, true).Debug("details")
	assert.Contains(t, buf.String(), "details")
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokgraph.log")

	logger, closeFn, err := NewFile(path, false)
	require.NoError(t, err)
	logger.Info("reloaded", "path", "tokens.json")
	logger.Debug("skipped")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "reloaded")
	assert.NotContains(t, string(data), "skipped")
}

func TestNewFileError(t *testing.T) {
	_, _, err := NewFile(filepath.Join(t.TempDir(), "missing", "x.log"), false)
	assert.Error(t, err)
}
