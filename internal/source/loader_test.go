package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReadsFileRelativeToCwd(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "left.txt"), []byte("héllo\n"), 0o644))

	got, err := NewLoader(dir).Load(context.Background(), "left.txt")
	require.NoError(t, err)
	assert.Equal(t, "héllo\n", got)
}

func TestLoadAbsolutePathIgnoresCwd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abs.txt")
	require.NoError(t, os.WriteFile(path, []byte("abs"), 0o644))

	got, err := NewLoader("/definitely/not/here").Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "abs", got)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bin.dat"), []byte{0xff, 0xfe, 0x00}, 0o644))
	l := NewLoader(dir)

	_, err := l.Load(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyID)

	_, err = l.Load(context.Background(), "missing.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = l.Load(context.Background(), "bin.dat")
	assert.ErrorIs(t, err, ErrNotText)

	_, err = l.Load(context.Background(), ".")
	assert.ErrorIs(t, err, ErrDirectory)

	_, err = l.Load(context.Background(), "git:HEAD")
	assert.ErrorIs(t, err, ErrBadGitSpec)

	_, err = l.Load(context.Background(), "git::a.txt")
	assert.ErrorIs(t, err, ErrBadGitSpec)
}

func TestFilePath(t *testing.T) {
	l := NewLoader("/work")

	p, ok := l.FilePath("a.txt")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join("/work", "a.txt"), p)

	_, ok = l.FilePath(GitID("HEAD", "a.txt"))
	assert.False(t, ok)

	_, ok = l.FilePath("")
	assert.False(t, ok)
}

func TestFilePathIsCleanAbsolute(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(dir)

	p, ok := l.FilePath(filepath.Join(dir, "sub", "..", "a.txt"))
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "a.txt"), p)

	p, ok = l.FilePath("./sub/../b.txt")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "b.txt"), p)

	cwd, err := os.Getwd()
	require.NoError(t, err)
	p, ok = NewLoader("").FilePath("c.txt")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(cwd, "c.txt"), p)
}

func TestGitID(t *testing.T) {
	assert.Equal(t, "git:HEAD~1:cmd/main.go", GitID("HEAD~1", "cmd/main.go"))
}
