package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilLoggerDiscards(t *testing.T) {
	var l *HandlerLogger
	assert.NotPanics(t, func() {
		l.Log("POST %s", "/api/claude")
		l.Close()
	})
}

func TestLoggerWritesDailyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(dir))
	t.Cleanup(func() {
		CloseAll()
		mu.Lock()
		logDir = ""
		mu.Unlock()
	})

	l := For("Track Order")
	require.NotNil(t, l)
	assert.Same(t, l, For("track order"))

	l.Log("POST /api/track-order %d", 404)
	l.Close()
	l.Log("POST /api/track-order %d", 200)
	CloseAll()

	path := filepath.Join(dir, fmt.Sprintf("track-order-%s.log", time.Now().Format("2006-01-02")))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "POST /api/track-order 404")
	assert.Contains(t, string(data), "POST /api/track-order 200")
}

func TestCleanOldLogs(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "claude-2020-01-01.log")
	fresh := filepath.Join(dir, "claude-today.log")
	other := filepath.Join(dir, "notes.txt")
	for _, p := range []string{old, fresh, other} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0600))
	}
	past := time.Now().Add(-30 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))
	require.NoError(t, os.Chtimes(other, past, past))

	cleanOldLogs(dir, time.Now().Add(-maxLogAge))

	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)
	assert.FileExists(t, other)
}
