package ingest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nextPath(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case p, ok := <-ch:
		require.True(t, ok, "watcher channel closed")
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher event")
		return ""
	}
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "existing.txt")
	writeFile(t, existing, "old")
	writeFile(t, filepath.Join(dir, "skip.pdf"), "x")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{
		Roots:       []string{dir},
		InitialScan: true,
		Debounce:    50 * time.Millisecond,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, existing, nextPath(t, events))

	fresh := filepath.Join(dir, "fresh.md")
	writeFile(t, fresh, "new document")
	assert.Equal(t, fresh, nextPath(t, events))

	writeFile(t, filepath.Join(dir, "fresh.tables.html"), "<table></table>")
	assert.Equal(t, fresh, nextPath(t, events))

	cancel()
	for range events {
	}
}

func TestWatcherNoRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{}, nil)
	assert.Error(t, err)
}
