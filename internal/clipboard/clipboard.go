// Package clipboard writes share links to the clipboard through one of
// several backends. Exactly one backend is used per writer; there is no
// fallback from one to another.
package clipboard

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	atotto "github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"

	apperrors "tripshare/internal/errors"
)

// Writer places text on a clipboard
type Writer interface {
	WriteText(ctx context.Context, text string) error
}

// Backend names a clipboard implementation
type Backend string

const (
	BackendSystem  Backend = "system"
	BackendOSC52   Backend = "osc52"
	BackendCommand Backend = "command"
)

// New returns the writer for backend. out is only used by the OSC52 backend
// and defaults to stdout.
func New(backend Backend, out io.Writer) (Writer, error) {
	switch backend {
	case BackendSystem:
		return &SystemWriter{}, nil
	case BackendOSC52:
		return NewOSC52Writer(out), nil
	case BackendCommand:
		return &CommandWriter{}, nil
	default:
		return nil, fmt.Errorf("unknown clipboard backend: %s", backend)
	}
}

// SystemWriter uses the native clipboard through github.com/atotto/clipboard
type SystemWriter struct{}

func (w *SystemWriter) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.WrapClipboardError(err, string(BackendSystem))
	}
	if atotto.Unsupported {
		return apperrors.WrapClipboardError(fmt.Errorf("clipboard not supported on %s", runtime.GOOS), string(BackendSystem))
	}
	if err := atotto.WriteAll(text); err != nil {
		return apperrors.WrapClipboardError(err, string(BackendSystem))
	}
	return nil
}

// OSC52Writer asks the terminal emulator to set the clipboard. It works over
// SSH, but the terminal may silently ignore the request.
type OSC52Writer struct {
	out    io.Writer
	tmux   bool
	screen bool
}

// NewOSC52Writer creates an OSC52 writer, detecting tmux and screen from the
// environment so the sequence is wrapped for passthrough.
func NewOSC52Writer(out io.Writer) *OSC52Writer {
	if out == nil {
		out = os.Stdout
	}
	return &OSC52Writer{
		out:    out,
		tmux:   os.Getenv("TMUX") != "",
		screen: strings.HasPrefix(os.Getenv("TERM"), "screen"),
	}
}

func (w *OSC52Writer) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return apperrors.WrapClipboardError(err, string(BackendOSC52))
	}

	seq := osc52.New(text)
	switch {
	case w.tmux:
		seq = seq.Tmux()
	case w.screen:
		seq = seq.Screen()
	}

	if _, err := seq.WriteTo(w.out); err != nil {
		return apperrors.WrapClipboardError(err, string(BackendOSC52))
	}
	return nil
}

// CommandWriter pipes text into the platform clipboard utility
type CommandWriter struct{}

func (w *CommandWriter) WriteText(ctx context.Context, text string) error {
	cmd, err := clipboardCommand(ctx)
	if err != nil {
		return apperrors.WrapClipboardError(err, string(BackendCommand))
	}

	cmd.Stdin = strings.NewReader(text)
	if out, err := cmd.CombinedOutput(); err != nil {
		if len(out) > 0 {
			err = fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))
		}
		return apperrors.WrapClipboardError(err, string(BackendCommand))
	}
	return nil
}

func clipboardCommand(ctx context.Context) (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin":
		return exec.CommandContext(ctx, "pbcopy"), nil
	case "linux":
		// Try xclip first, then xsel
		if _, err := exec.LookPath("xclip"); err == nil {
			return exec.CommandContext(ctx, "xclip", "-selection", "clipboard"), nil
		}
		if _, err := exec.LookPath("xsel"); err == nil {
			return exec.CommandContext(ctx, "xsel", "--clipboard", "--input"), nil
		}
		return nil, fmt.Errorf("no clipboard utility found (install xclip or xsel)")
	case "windows":
		return exec.CommandContext(ctx, "clip"), nil
	default:
		return nil, fmt.Errorf("clipboard not supported on %s", runtime.GOOS)
	}
}
