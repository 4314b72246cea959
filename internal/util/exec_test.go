package util

import (
	"context"
	"os/exec"
	"strings"
	"testing"
)

func TestOutputKeepsStdoutOnly(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	out, err := Output(context.Background(), "", "sh", "-c", "printf 'a\\n\\nb'; echo noise >&2")
	if err != nil {
		t.Fatalf("Output() error = %v", err)
	}
	if got, want := string(out), "a\n\nb"; got != want {
		t.Fatalf("Output()=%q want %q", got, want)
	}
}

func TestOutputReportsStderrOnFailure(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	_, err := Output(context.Background(), "", "sh", "-c", "echo broken >&2; exit 3")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Fatalf("error %q does not mention stderr", err)
	}
}

func TestRunWithStdin(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	if err := RunWithStdin(context.Background(), "payload", "sh", "-c", `test "$(cat)" = payload`); err != nil {
		t.Fatalf("RunWithStdin() error = %v", err)
	}
}
