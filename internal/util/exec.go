package util

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Output runs name in cwd and returns its stdout untouched. Stderr is only
// used to describe a failure.
func Output(ctx context.Context, cwd string, name string, args ...string) ([]byte, error) {
	return run(ctx, cwd, nil, name, args...)
}

// RunWithStdin feeds stdin to name and discards its output.
func RunWithStdin(ctx context.Context, stdin, name string, args ...string) error {
	_, err := run(ctx, "", strings.NewReader(stdin), name, args...)
	return err
}

func run(ctx context.Context, cwd string, stdin io.Reader, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if cwd != "" {
		cmd.Dir = cwd
	}
	cmd.Stdin = stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("command failed: %s %s: %w (%s)", name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
