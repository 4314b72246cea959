// Package source resolves source identifiers to text content.
//
// An identifier is either a file path or "git:<rev>:<path>", which reads the
// file as it was at a revision of the repository containing the working
// directory.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"chardiff/internal/git"
)

const gitPrefix = "git:"

var (
	ErrEmptyID    = errors.New("empty source identifier")
	ErrNotText    = errors.New("content is not valid UTF-8")
	ErrDirectory  = errors.New("source is a directory")
	ErrBadGitSpec = errors.New(`git source must look like "git:<rev>:<path>"`)
)

type Loader struct {
	cwd string
}

// NewLoader resolves relative paths against cwd. An empty cwd means the
// process working directory.
func NewLoader(cwd string) *Loader {
	return &Loader{cwd: cwd}
}

func (l *Loader) Load(ctx context.Context, sourceID string) (string, error) {
	if strings.TrimSpace(sourceID) == "" {
		return "", ErrEmptyID
	}

	var (
		data []byte
		err  error
	)
	if rest, ok := strings.CutPrefix(sourceID, gitPrefix); ok {
		data, err = l.loadGit(ctx, rest)
	} else {
		data, err = l.loadFile(sourceID)
	}
	if err != nil {
		return "", err
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: %w", sourceID, ErrNotText)
	}
	return string(data), nil
}

func (l *Loader) loadFile(path string) ([]byte, error) {
	path = l.resolve(path)
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: %w", path, ErrDirectory)
	}
	return os.ReadFile(path)
}

func (l *Loader) loadGit(ctx context.Context, spec string) ([]byte, error) {
	rev, path, ok := strings.Cut(spec, ":")
	if !ok || rev == "" || path == "" {
		return nil, fmt.Errorf("%q: %w", gitPrefix+spec, ErrBadGitSpec)
	}
	return git.ShowFile(ctx, l.cwd, rev, path)
}

func (l *Loader) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	if l.cwd == "" {
		return path
	}
	return filepath.Join(l.cwd, path)
}

// GitID builds the identifier for path at rev.
func GitID(rev, path string) string {
	return gitPrefix + rev + ":" + path
}

// FilePath reports the local file behind sourceID, if there is one, as a
// clean absolute path in the form the watcher reports changes.
func (l *Loader) FilePath(sourceID string) (string, bool) {
	if sourceID == "" || strings.HasPrefix(sourceID, gitPrefix) {
		return "", false
	}
	p, err := filepath.Abs(l.resolve(sourceID))
	if err != nil {
		return "", false
	}
	return p, true
}
