package source

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// darwinSource reads the clipboard image with pngpaste. A non-zero exit
// is pngpaste's normal "no image on the pasteboard" signal, not a
// failure worth logging.
type darwinSource struct {
	timeout   time.Duration
	available bool
}

func newDarwinSource(timeout time.Duration, log zerolog.Logger) *darwinSource {
	s := &darwinSource{timeout: timeout}
	if _, err := exec.LookPath("pngpaste"); err != nil {
		log.Warn().Msg("pngpaste not found; clipboard capture disabled (brew install pngpaste)")
	} else {
		s.available = true
	}
	return s
}

func (s *darwinSource) Acquire(ctx context.Context) []byte {
	if !s.available {
		return nil
	}
	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tmp := filepath.Join(os.TempDir(), "clipshot-"+uuid.NewString()+".png")
	defer os.Remove(tmp)

	if err := exec.CommandContext(tctx, "pngpaste", tmp).Run(); err != nil {
		return nil
	}
	b, err := os.ReadFile(tmp)
	if err != nil || len(b) == 0 {
		return nil
	}
	return b
}

// defaultsBinary is overridable so tests can substitute a fake.
var defaultsBinary = "defaults"

// DefaultScreenshotDir returns the macOS screenshot location: the value
// configured via com.apple.screencapture when readable, otherwise
// ~/Desktop.
func DefaultScreenshotDir() string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, defaultsBinary, "read", "com.apple.screencapture", "location").Output()
	if err == nil {
		if dir := strings.TrimSpace(string(out)); dir != "" {
			return expandHome(dir)
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Desktop")
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
		}
	}
	return p
}
