package git

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"chardiff/internal/util"
)

func DiscoverRepoRoot(ctx context.Context, cwd string) (string, error) {
	out, err := util.Output(ctx, cwd, "git", "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// ShowFile returns the content of path as of rev. Relative paths resolve
// against cwd; absolute paths must live inside the repository.
func ShowFile(ctx context.Context, cwd, rev, path string) ([]byte, error) {
	if rev == "" {
		return nil, fmt.Errorf("empty revision for %q", path)
	}
	if path == "" {
		return nil, fmt.Errorf("empty path for revision %q", rev)
	}

	spec := "./" + filepath.ToSlash(path)
	if filepath.IsAbs(path) {
		root, err := DiscoverRepoRoot(ctx, cwd)
		if err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			return nil, fmt.Errorf("%s is outside repository %s", path, root)
		}
		spec = filepath.ToSlash(rel)
	}
	return util.Output(ctx, cwd, "git", "show", rev+":"+spec)
}
