// Package clipboard overwrites the system clipboard's text content with
// the delivered file path. Writes are best-effort: by the time the path
// is written back the image is already safely stored, so every failure
// is intentionally discarded rather than surfaced.
package clipboard

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/clipshot/clipshot/internal/platform"
)

// DefaultWriteTimeout bounds a single clipboard tool invocation.
const DefaultWriteTimeout = 2 * time.Second

// Writer sets the clipboard text. Write returns nothing: it is a
// documented no-op on any failure.
type Writer interface {
	Write(ctx context.Context, text string)
}

// New selects the platform strategy once at startup.
func New(env platform.Environment, timeout time.Duration) Writer {
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	switch env {
	case platform.NativeWindows:
		return &toolWriter{tool: "clip", timeout: timeout}
	case platform.WSL:
		// The Windows interop binary reachable from inside WSL.
		return &toolWriter{tool: "clip.exe", timeout: timeout}
	case platform.MacOS:
		return &toolWriter{tool: "pbcopy", timeout: timeout}
	default:
		return newUnixWriter(timeout)
	}
}

// toolWriter pipes the text into a stdin-fed clipboard tool.
type toolWriter struct {
	tool    string
	args    []string
	timeout time.Duration
}

func (w *toolWriter) Write(ctx context.Context, text string) {
	if w.tool == "" {
		return
	}
	tctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	cmd := exec.CommandContext(tctx, w.tool, w.args...)
	cmd.Stdin = strings.NewReader(text)
	_ = cmd.Run()
}

// newUnixWriter picks the first installed tool; none installed yields a
// permanent no-op writer.
func newUnixWriter(timeout time.Duration) *toolWriter {
	candidates := []struct {
		tool string
		args []string
	}{
		{"wl-copy", nil},
		{"xclip", []string{"-selection", "clipboard"}},
	}
	for _, c := range candidates {
		if _, err := exec.LookPath(c.tool); err == nil {
			return &toolWriter{tool: c.tool, args: c.args, timeout: timeout}
		}
	}
	return &toolWriter{timeout: timeout}
}
