// Package logging includes tests for the zap logger helpers.
package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var linePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2},\d{3} - (INFO|ERROR) - `)

func TestFileName(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 3, 9, 7, 5, 1, 0, time.Local)
	assert.Equal(t, "kanji_scraper_20240309_070501.log", FileName(ts))
}

// TestNewWritesConsoleAndFile confirms every line is mirrored to both sinks.
func TestNewWritesConsoleAndFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	started := time.Date(2024, 3, 9, 7, 5, 1, 0, time.Local)
	var console bytes.Buffer

	logger, closer, err := New(Config{Dir: dir, StartedAt: started, Console: &console})
	require.NoError(t, err)

	logger.Info("Starting kanji scraper")
	logger.Error("Error fetching https://example.com/x: Status code 404")
	require.NoError(t, closer.Close())

	// #nosec G304 -- test reads from the controlled temp directory.
	data, err := os.ReadFile(filepath.Join(dir, FileName(started)))
	require.NoError(t, err)

	for _, out := range []string{console.String(), string(data)} {
		lines := bytes.Split(bytes.TrimSpace([]byte(out)), []byte("\n"))
		require.Len(t, lines, 2)
		assert.Regexp(t, linePattern, string(lines[0]))
		assert.Contains(t, string(lines[0]), "INFO - Starting kanji scraper")
		assert.Contains(t, string(lines[1]), "ERROR - Error fetching https://example.com/x: Status code 404")
	}
}

func TestNewCreatesMissingDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "logs")
	logger, closer, err := New(Config{Dir: dir, StartedAt: time.Now(), Console: &bytes.Buffer{}})
	require.NoError(t, err)
	logger.Info("ready")
	require.NoError(t, closer.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestNewFailsWhenDirIsAFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	_, _, err := New(Config{Dir: path, StartedAt: time.Now(), Console: &bytes.Buffer{}})
	assert.Error(t, err)
}
