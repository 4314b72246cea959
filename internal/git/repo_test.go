package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"chardiff/internal/util"
)

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	ctx := context.Background()
	steps := [][]string{
		{"init", "-q"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "test"},
	}
	for _, args := range steps {
		if _, err := util.Output(ctx, dir, "git", args...); err != nil {
			t.Fatalf("git %v: %v", args, err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "note.txt"), []byte("committed\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	for _, args := range [][]string{{"add", "."}, {"commit", "-q", "-m", "init"}} {
		if _, err := util.Output(ctx, dir, "git", args...); err != nil {
			t.Fatalf("git %v: %v", args, err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "note.txt"), []byte("edited\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return dir
}

func TestShowFileRelativeToCwd(t *testing.T) {
	dir := initRepo(t)

	got, err := ShowFile(context.Background(), filepath.Join(dir, "sub"), "HEAD", "note.txt")
	if err != nil {
		t.Fatalf("ShowFile() error = %v", err)
	}
	if string(got) != "committed\n" {
		t.Fatalf("ShowFile()=%q want %q", got, "committed\n")
	}
}

func TestShowFileAbsolutePath(t *testing.T) {
	dir := initRepo(t)
	root, err := DiscoverRepoRoot(context.Background(), dir)
	if err != nil {
		t.Fatalf("DiscoverRepoRoot() error = %v", err)
	}

	got, err := ShowFile(context.Background(), dir, "HEAD", filepath.Join(root, "sub", "note.txt"))
	if err != nil {
		t.Fatalf("ShowFile() error = %v", err)
	}
	if string(got) != "committed\n" {
		t.Fatalf("ShowFile()=%q want %q", got, "committed\n")
	}
}

func TestShowFileUnknownPath(t *testing.T) {
	dir := initRepo(t)
	if _, err := ShowFile(context.Background(), dir, "HEAD", "nope.txt"); err == nil {
		t.Fatalf("expected error for unknown path")
	}
}

func TestShowFileRejectsEmptyParts(t *testing.T) {
	if _, err := ShowFile(context.Background(), "", "", "a.txt"); err == nil {
		t.Fatalf("expected error for empty revision")
	}
	if _, err := ShowFile(context.Background(), "", "HEAD", ""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
