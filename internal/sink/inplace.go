package sink

import (
	"context"
	"os"
	"path/filepath"
	"time"

	logpkg "github.com/rzbill/snaptail/pkg/log"
)

// InPlace rewrites the target file through a single long-lived handle:
// write at offset zero, then truncate to the snapshot length so no stale
// tail survives a shrinking snapshot.
type InPlace struct {
	path    string
	f       *os.File
	logger  logpkg.Logger
	metrics MetricsHook
}

// NewInPlace creates the in-place sink and eagerly opens the target. An
// open failure is not fatal: the handle is reacquired lazily on the next
// Write attempt.
func NewInPlace(opts Options) *InPlace {
	s := &InPlace{path: opts.Path, logger: opts.Logger, metrics: opts.Metrics}
	if err := s.open(); err != nil {
		s.logger.Warn("open target failed, will retry on next flush",
			logpkg.Str("path", s.path), logpkg.Err(err))
	}
	return s
}

func (s *InPlace) open() error {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	s.f = f
	return nil
}

// Write replaces the file contents with snapshot. On any failure the handle
// is dropped so the next attempt reopens from scratch.
func (s *InPlace) Write(_ context.Context, snapshot []byte) error {
	start := time.Now()
	if s.f == nil {
		if err := s.open(); err != nil {
			return err
		}
	}
	if _, err := s.f.WriteAt(snapshot, 0); err != nil {
		s.drop()
		return err
	}
	if err := s.f.Truncate(int64(len(snapshot))); err != nil {
		s.drop()
		return err
	}
	s.metrics.ObserveFlush(time.Since(start), len(snapshot))
	return nil
}

func (s *InPlace) drop() {
	if s.f != nil {
		_ = s.f.Close()
		s.f = nil
	}
}

// Close releases the file handle.
func (s *InPlace) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}
