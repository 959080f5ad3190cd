package sink

import (
	"context"
	"os"
	"path/filepath"
)

type localSink struct {
	dir string
}

func (s *localSink) Deliver(_ context.Context, b []byte, filename string) Result {
	path := filepath.Join(s.dir, filename)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Result{Path: path, Detail: err.Error()}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return Result{Path: path, Detail: err.Error()}
	}
	return Result{OK: true, Path: path}
}
