package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsWatchedFileOnce(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "left.txt")
	other := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(watched, []byte("v1"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("v1"), 0o644))

	w, err := New(50 * time.Millisecond)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Set(watched))

	require.NoError(t, os.WriteFile(other, []byte("v2"), 0o644))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(watched, []byte("v2"), 0o644))
	}

	select {
	case got := <-w.Changes():
		want, _ := filepath.Abs(watched)
		assert.Equal(t, filepath.Clean(want), got)
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case got := <-w.Changes():
		t.Fatalf("unexpected second change %q", got)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherSetDropsOldFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.txt")
	second := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(first, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("b"), 0o644))

	w, err := New(20 * time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Set(first))
	require.NoError(t, w.Set(second))
	w.mu.Lock()
	assert.Len(t, w.files, 1)
	assert.Equal(t, 1, w.dirs[filepath.Clean(dir)])
	w.mu.Unlock()

	require.NoError(t, os.WriteFile(first, []byte("a2"), 0o644))
	select {
	case got := <-w.Changes():
		t.Fatalf("dropped file reported: %q", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherSetFailureKeepsPreviousFiles(t *testing.T) {
	dir := t.TempDir()
	kept := filepath.Join(dir, "kept.txt")
	require.NoError(t, os.WriteFile(kept, []byte("a"), 0o644))
	missing := filepath.Join(dir, "no-such-dir", "x.txt")
	other := filepath.Join(t.TempDir(), "other.txt")

	w, err := New(20 * time.Millisecond)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Set(kept))
	require.Error(t, w.Set(other, missing))

	w.mu.Lock()
	assert.Equal(t, map[string]bool{filepath.Clean(kept): true}, w.files)
	assert.Equal(t, map[string]int{filepath.Clean(dir): 1}, w.dirs)
	w.mu.Unlock()

	require.NoError(t, os.WriteFile(kept, []byte("a2"), 0o644))
	select {
	case got := <-w.Changes():
		assert.Equal(t, filepath.Clean(kept), got)
	case <-time.After(3 * time.Second):
		t.Fatal("kept file no longer watched after failed Set")
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	w, err := New(0)
	require.NoError(t, err)
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
