// Package sink persists captured image bytes to their delivery target:
// a local directory or a remote host reached through the system ssh
// binary. The target is fixed for the daemon's lifetime.
package sink

import (
	"context"
	"fmt"
	"time"
)

// RemoteDirName is the directory created under the remote home for
// delivered screenshots. Its layout is part of the contract with users
// pasting the written-back path.
const RemoteDirName = "clipshot-screenshots"

// DefaultRemoteTimeout bounds a single remote transfer.
const DefaultRemoteTimeout = 5 * time.Second

// LocalTarget is the literal target string selecting local delivery.
const LocalTarget = "local"

// Target is the parsed delivery destination.
type Target struct {
	Remote   bool
	HostSpec string // opaque user@host or alias, handed verbatim to ssh
}

// ParseTarget interprets the daemon's positional argument. Anything that
// is not the local marker is treated as an opaque remote host spec.
func ParseTarget(s string) Target {
	if s == "" || s == LocalTarget {
		return Target{}
	}
	return Target{Remote: true, HostSpec: s}
}

func (t Target) String() string {
	if !t.Remote {
		return LocalTarget
	}
	return t.HostSpec
}

// Result reports one delivery attempt. Path is populated best-effort
// even on failure so the log can show where the write was aimed.
type Result struct {
	OK     bool
	Path   string
	Detail string // remote stderr or local error text, empty on success
}

// Sink persists image bytes under the given filename.
type Sink interface {
	Deliver(ctx context.Context, b []byte, filename string) Result
}

// Options tunes sink construction.
type Options struct {
	LocalDir      string        // local delivery directory
	RemoteTimeout time.Duration // per-transfer bound
	Multiplex     bool          // reuse the ssh control channel across transfers
}

// New builds the sink for the parsed target.
func New(t Target, opts Options) Sink {
	if t.Remote {
		timeout := opts.RemoteTimeout
		if timeout <= 0 {
			timeout = DefaultRemoteTimeout
		}
		return newRemoteSink(t.HostSpec, timeout, opts.Multiplex)
	}
	return &localSink{dir: opts.LocalDir}
}

// Filename derives the collision-avoiding delivery filename from ts.
// Second precision: two captures within the same second may collide,
// which is acceptable at human screenshot cadence.
func Filename(ts time.Time) string {
	return fmt.Sprintf("screenshot-%s.png", ts.Format("2006-01-02T15-04-05"))
}
