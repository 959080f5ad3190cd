// Package source acquires clipboard (and, on macOS, screenshot-file)
// image bytes through external platform tools. Every variant collapses
// tool failure, timeout, and absence into "no image": to the poll loop
// those are operationally the same as an empty clipboard.
package source

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/clipshot/clipshot/internal/platform"
)

// DefaultAcquireTimeout bounds a single external tool invocation so a
// hung helper cannot stall the poll loop.
const DefaultAcquireTimeout = 3 * time.Second

// Source returns the current clipboard image as PNG bytes, or nil when
// no new image is available. Implementations never return errors; the
// caller treats nil as "nothing to do this tick".
type Source interface {
	Acquire(ctx context.Context) []byte
}

// New selects the clipboard strategy for env once at startup. Missing
// optional tools are warned about here, not on every tick.
func New(env platform.Environment, timeout time.Duration, log zerolog.Logger) Source {
	if timeout <= 0 {
		timeout = DefaultAcquireTimeout
	}
	switch env {
	case platform.NativeWindows:
		return newWindowsSource(false, timeout)
	case platform.WSL:
		return newWindowsSource(true, timeout)
	case platform.MacOS:
		return newDarwinSource(timeout, log)
	default:
		return newUnixSource(timeout, log)
	}
}
