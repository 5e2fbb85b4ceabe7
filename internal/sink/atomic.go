package sink

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rzbill/snaptail/pkg/id"
	logpkg "github.com/rzbill/snaptail/pkg/log"
)

// Atomic persists each snapshot to a sibling temp file and renames it over
// the target. Readers that follow the file by path observe whole-file
// transitions; readers holding an already-open handle keep seeing the old
// inode, which is a documented caveat of this strategy.
type Atomic struct {
	path    string
	dir     string
	base    string
	gen     *id.Generator
	logger  logpkg.Logger
	metrics MetricsHook
}

// NewAtomic creates the atomic sink. It holds no open handle between
// flushes.
func NewAtomic(opts Options) *Atomic {
	return &Atomic{
		path:    opts.Path,
		dir:     filepath.Dir(opts.Path),
		base:    filepath.Base(opts.Path),
		gen:     id.NewGenerator(),
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
}

// Write materializes snapshot under a unique temp name and renames it over
// the target. The temp artifact is removed on any failure.
func (s *Atomic) Write(_ context.Context, snapshot []byte) error {
	start := time.Now()
	if s.dir != "." && s.dir != "" {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return err
		}
	}
	tmp := filepath.Join(s.dir, "."+s.base+".tmp-"+s.gen.Next().String())
	if err := os.WriteFile(tmp, snapshot, 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	s.metrics.ObserveFlush(time.Since(start), len(snapshot))
	return nil
}

// Close is a no-op; the atomic strategy keeps no open handle.
func (s *Atomic) Close() error { return nil }
