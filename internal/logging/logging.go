// Package logging provides the daemon's append-only event log: a
// timestamped file per session, rotated by age, with optional console
// echo. The log directory is the de facto interface for the external
// status utility, so files are line-oriented and human-readable and are
// never deleted here.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// NoConsoleEnv suppresses console echo when set. The detached run mode
// sets it so log lines are not duplicated onto a captured stdout.
const NoConsoleEnv = "CLIPSHOT_NO_CONSOLE_LOG"

// DefaultRotateAge is the session age after which the next append opens
// a fresh log file.
const DefaultRotateAge = time.Hour

// Writer is the rotating session writer. It owns the current log file
// exclusively; no other component opens it.
type Writer struct {
	dir       string
	rotateAge time.Duration
	now       func() time.Time

	mu        sync.Mutex
	f         *os.File
	path      string
	startedAt time.Time
}

// NewWriter creates the log directory and returns a writer with no open
// session yet; the first Write opens one. Directory creation failure is
// fatal to startup because all later diagnostics depend on it.
func NewWriter(dir string, rotateAge time.Duration) (*Writer, error) {
	if rotateAge <= 0 {
		rotateAge = DefaultRotateAge
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	return &Writer{dir: dir, rotateAge: rotateAge, now: time.Now}, nil
}

// Write appends to the current session file, rotating first when the
// session is older than the rotation age or none is open.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.f == nil || w.now().Sub(w.startedAt) > w.rotateAge {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}
	return w.f.Write(p)
}

func (w *Writer) rotate() error {
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	ts := w.now()
	path := filepath.Join(w.dir, fmt.Sprintf("clipshot-%s.log", ts.Format("20060102-150405")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	w.f = f
	w.path = path
	w.startedAt = ts
	return nil
}

// Path returns the current session file path, or "" before the first write.
func (w *Writer) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

// Close closes the current session file, if any.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}

// New builds the process logger: zerolog writing timestamp-prefixed lines
// through the rotating file writer, echoed to stdout unless suppressed by
// NoConsoleEnv.
func New(dir string, rotateAge time.Duration) (zerolog.Logger, *Writer, error) {
	w, err := NewWriter(dir, rotateAge)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	fileOut := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.RFC3339}
	outs := []io.Writer{fileOut}

	if os.Getenv(NoConsoleEnv) == "" {
		outs = append(outs, zerolog.ConsoleWriter{
			Out:        os.Stdout,
			NoColor:    !isatty.IsTerminal(os.Stdout.Fd()),
			TimeFormat: time.RFC3339,
		})
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(outs...)).With().Timestamp().Logger()
	return logger, w, nil
}
