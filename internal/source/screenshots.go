package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is the minimum age of a screenshot file before it is
// trusted to be completely written.
const DefaultDebounce = 300 * time.Millisecond

// ScreenshotWatcher is the macOS file-based image source: it returns the
// bytes of the newest file in the screenshot directory when that file's
// modification time is strictly newer than the last one seen. fsnotify
// events gate the directory scan; when the watch cannot be established
// the watcher degrades to scanning on every Acquire.
type ScreenshotWatcher struct {
	dir      string
	debounce time.Duration
	now      func() time.Time
	log      zerolog.Logger

	mu       sync.Mutex
	lastSeen time.Time
	dirty    bool
	watching bool
}

// NewScreenshotWatcher seeds last-seen to the current time so files
// already present at daemon start are never delivered.
func NewScreenshotWatcher(dir string, debounce time.Duration, log zerolog.Logger) *ScreenshotWatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &ScreenshotWatcher{
		dir:      dir,
		debounce: debounce,
		now:      time.Now,
		log:      log,
		lastSeen: time.Now(),
	}
}

// Start runs the fsnotify watch until ctx is cancelled, re-arming it with
// exponential backoff after errors.
func (w *ScreenshotWatcher) Start(ctx context.Context) {
	go w.watchLoop(ctx)
}

func (w *ScreenshotWatcher) watchLoop(ctx context.Context) {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 0 // keep retrying for the life of the process

	for {
		if ctx.Err() != nil {
			return
		}
		if err := w.watchOnce(ctx); err != nil {
			w.setWatching(false)
			w.log.Warn().Err(err).Str("dir", w.dir).Msg("screenshot watch unavailable, falling back to scanning")
			select {
			case <-ctx.Done():
				return
			case <-time.After(bo.NextBackOff()):
			}
			continue
		}
		bo.Reset()
	}
}

func (w *ScreenshotWatcher) watchOnce(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return err
	}
	w.setWatching(true)
	defer w.setWatching(false)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				w.markDirty()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

// Acquire returns the newest screenshot's bytes, or nil when nothing new
// and settled exists. A file younger than the debounce window stays
// eligible for the next tick.
func (w *ScreenshotWatcher) Acquire(ctx context.Context) []byte {
	if !w.consumePending() {
		return nil
	}

	path, mtime := newestFile(w.dir)
	if path == "" || !w.newerThanLastSeen(mtime) {
		return nil
	}
	if w.now().Sub(mtime) < w.debounce {
		// Possibly still being written; rescan next tick.
		w.markDirty()
		return nil
	}

	b, err := os.ReadFile(path)
	if err != nil || len(b) == 0 {
		w.markDirty()
		return nil
	}

	w.mu.Lock()
	w.lastSeen = mtime
	w.mu.Unlock()
	return b
}

// consumePending takes the dirty token before the scan starts: an event
// landing mid-scan sets it again and triggers the next tick's scan
// instead of being erased by a clear after the scan.
func (w *ScreenshotWatcher) consumePending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	// Without a healthy watch every tick must scan the directory.
	take := w.dirty || !w.watching
	w.dirty = false
	return take
}

func (w *ScreenshotWatcher) newerThanLastSeen(mtime time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return mtime.After(w.lastSeen)
}

func (w *ScreenshotWatcher) markDirty() {
	w.mu.Lock()
	w.dirty = true
	w.mu.Unlock()
}

func (w *ScreenshotWatcher) setWatching(v bool) {
	w.mu.Lock()
	w.watching = v
	w.mu.Unlock()
}

// newestFile returns the regular file with the latest modification time
// in dir, skipping dotfiles. Overridable so tests can interleave events
// with a scan.
var newestFile = func(dir string) (string, time.Time) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return "", time.Time{}
	}
	var (
		best      string
		bestMtime time.Time
	)
	for _, e := range ents {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(bestMtime) {
			best = filepath.Join(dir, e.Name())
			bestMtime = info.ModTime()
		}
	}
	return best, bestMtime
}
