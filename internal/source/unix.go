package source

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const pngTarget = "image/png"

// unixSource reads the clipboard with wl-paste (Wayland) or xclip (X11),
// whichever is installed, preferring Wayland. Available MIME targets are
// queried first: extracting image/png from a clipboard that never
// advertised it would misread arbitrary content as empty image bytes.
type unixSource struct {
	tool    string
	timeout time.Duration
}

func newUnixSource(timeout time.Duration, log zerolog.Logger) *unixSource {
	s := &unixSource{timeout: timeout}
	for _, tool := range []string{"wl-paste", "xclip"} {
		if _, err := exec.LookPath(tool); err == nil {
			s.tool = tool
			break
		}
	}
	if s.tool == "" {
		log.Warn().Msg("no clipboard tool found; install wl-clipboard or xclip")
	}
	return s
}

func (s *unixSource) Acquire(ctx context.Context) []byte {
	if s.tool == "" {
		return nil
	}
	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var targets, read *exec.Cmd
	switch s.tool {
	case "wl-paste":
		targets = exec.CommandContext(tctx, "wl-paste", "--list-types")
		read = exec.CommandContext(tctx, "wl-paste", "--type", pngTarget)
	default:
		targets = exec.CommandContext(tctx, "xclip", "-selection", "clipboard", "-t", "TARGETS", "-o")
		read = exec.CommandContext(tctx, "xclip", "-selection", "clipboard", "-t", pngTarget, "-o")
	}

	out, err := targets.Output()
	if err != nil || !hasImageTarget(string(out)) {
		return nil
	}
	b, err := read.Output()
	if err != nil || len(b) == 0 {
		return nil
	}
	return b
}

// hasImageTarget reports whether a newline-separated target list
// advertises PNG image content.
func hasImageTarget(list string) bool {
	for _, line := range strings.Split(list, "\n") {
		if strings.TrimSpace(line) == pngTarget {
			return true
		}
	}
	return false
}
