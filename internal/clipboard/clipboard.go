// Package clipboard copies text to the system clipboard through the
// platform's clipboard tool.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	atotto "github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no clipboard tool is installed.
var ErrUnavailable = errors.New("no clipboard tool found")

// Command is a clipboard tool invocation that reads the text on stdin.
type Command struct {
	Name string
	Args []string
}

func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Choose picks the first available tool for goos. lookPath reports whether
// a binary exists; wayland is true inside a Wayland session.
func Choose(goos string, wayland bool, lookPath func(string) bool) (Command, bool) {
	var candidates []Command
	switch goos {
	case "darwin":
		candidates = []Command{{Name: "pbcopy"}}
	case "windows":
		candidates = []Command{{Name: "clip"}}
	default:
		if wayland {
			candidates = append(candidates, Command{Name: "wl-copy"})
		}
		candidates = append(candidates,
			Command{Name: "xclip", Args: []string{"-selection", "clipboard"}},
			Command{Name: "xsel", Args: []string{"--clipboard", "--input"}},
		)
	}
	for _, c := range candidates {
		if lookPath(c.Name) {
			return c, true
		}
	}
	return Command{}, false
}

// CopyText writes text to the clipboard. Without a known tool it falls back
// to the atotto/clipboard driver.
func CopyText(ctx context.Context, text string) error {
	cmd, ok := Choose(runtime.GOOS, os.Getenv("WAYLAND_DISPLAY") != "", func(name string) bool {
		_, err := exec.LookPath(name)
		return err == nil
	})
	if !ok {
		if atotto.Unsupported {
			return ErrUnavailable
		}
		return atotto.WriteAll(text)
	}
	_, err := runWithStdin(ctx, text, cmd)
	return err
}

func runWithStdin(ctx context.Context, stdin string, c Command) (string, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Stdin = strings.NewReader(stdin)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("command failed: %s: %w (%s)", c, err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}
