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
)

func TestNew_FileAndConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.log")
	var stderr bytes.Buffer
	l, err := New(Config{File: path, Console: true, Format: "json", Level: "info", Stderr: &stderr})
	require.NoError(t, err)

	run := ForRun(l.Logger, "/data/people.csv")
	run.Info("loaded file", zap.Int("rows", 7))
	run.Debug("hidden")
	require.NoError(t, l.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "loaded file", entry["msg"])
	assert.Equal(t, "/data/people.csv", entry["file"])
	assert.NotEmpty(t, entry["run_id"])
	assert.EqualValues(t, 7, entry["rows"])

	assert.Contains(t, stderr.String(), "INFO")
	assert.Contains(t, stderr.String(), "loaded file")
	assert.NotContains(t, stderr.String(), "hidden")
}

func TestNew_NoDestinationsIsNop(t *testing.T) {
	l, err := New(Config{})
	require.NoError(t, err)
	l.Info("dropped")
	assert.NoError(t, l.Close())
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(Config{Console: true, Level: "loud"})
	assert.Error(t, err)
}

func TestForRun_DistinctIDs(t *testing.T) {
	var a, b bytes.Buffer
	la, err := New(Config{Console: true, Stderr: &a})
	require.NoError(t, err)
	lb, err := New(Config{Console: true, Stderr: &b})
	require.NoError(t, err)
	ForRun(la.Logger, "x").Info("m")
	ForRun(lb.Logger, "x").Info("m")
	assert.NotEqual(t, a.String(), b.String())
}
