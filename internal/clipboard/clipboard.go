// Package clipboard copies derived passwords to the system clipboard by
// piping them into the platform's clipboard tool.
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
)

// For testing - allows us to mock these functions
var (
	execCommand  = exec.Command
	execLookPath = exec.LookPath
	runtimeGOOS  = runtime.GOOS
)

// ErrNoTool is returned when no clipboard tool is installed.
var ErrNoTool = errors.New("no clipboard tool found")

// Copier copies text to a clipboard.
type Copier interface {
	Copy(text string) error
}

// System copies to the operating system clipboard.
type System struct{}

// Ensure System implements Copier interface
var _ Copier = System{}

// Copy implements Copier.
func (System) Copy(text string) error { return Copy(text) }

// linuxTools are tried in order; Wayland first, then X11.
var linuxTools = [][]string{
	{"wl-copy"},
	{"xclip", "-selection", "clipboard"},
	{"xsel", "--clipboard", "--input"},
}

// Copy copies text to the clipboard and returns an error if unsuccessful
func Copy(text string) error {
	switch runtimeGOOS {
	case "darwin":
		return pipe(text, "pbcopy")
	case "windows":
		return pipe(text, "clip")
	case "linux", "freebsd", "openbsd", "netbsd":
		for _, tool := range linuxTools {
			if _, err := execLookPath(tool[0]); err == nil {
				return pipe(text, tool[0], tool[1:]...)
			}
		}
		return fmt.Errorf("%w: install wl-clipboard, xclip or xsel", ErrNoTool)
	default:
		return fmt.Errorf("unsupported platform: %s", runtimeGOOS)
	}
}

// pipe writes text to the standard input of name.
func pipe(text, name string, args ...string) error {
	cmd := execCommand(name, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}

	_, writeErr := io.WriteString(stdin, text)
	closeErr := stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	if writeErr != nil {
		return writeErr
	}
	return closeErr
}
