package clipboard

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"runtime"

	"chardiff/internal/util"
)

var ErrUnavailable = errors.New("no clipboard command found")

type command struct {
	name string
	args []string
}

// CopyText pipes text into the first clipboard command available on this
// platform.
func CopyText(ctx context.Context, text string) error {
	for _, c := range candidates(runtime.GOOS, os.Getenv("WAYLAND_DISPLAY") != "") {
		if _, err := exec.LookPath(c.name); err != nil {
			continue
		}
		return util.RunWithStdin(ctx, text, c.name, c.args...)
	}
	return ErrUnavailable
}

func candidates(goos string, wayland bool) []command {
	switch goos {
	case "darwin":
		return []command{{name: "pbcopy"}}
	case "windows":
		return []command{{name: "clip"}}
	case "linux", "freebsd", "openbsd", "netbsd":
		xclip := command{name: "xclip", args: []string{"-selection", "clipboard"}}
		xsel := command{name: "xsel", args: []string{"--clipboard", "--input"}}
		if wayland {
			return []command{{name: "wl-copy"}, xclip, xsel}
		}
		return []command{xclip, xsel, {name: "wl-copy"}}
	default:
		return nil
	}
}
