package sink

import (
	"context"
	"runtime"
	"time"

	logpkg "github.com/rzbill/snaptail/pkg/log"
)

// Sink persists one assembled snapshot per call, replacing the previous
// contents of the target file.
type Sink interface {
	// Write replaces the target file contents with snapshot. Failures are
	// returned for the caller to retry on its next scheduled flush.
	Write(ctx context.Context, snapshot []byte) error
	Close() error
}

// MetricsHook is a minimal hook surface for flush observations.
type MetricsHook interface {
	ObserveFlush(elapsed time.Duration, bytes int)
}

// NoopMetrics is used when no metrics hook is provided.
type NoopMetrics struct{}

func (NoopMetrics) ObserveFlush(time.Duration, int) {}

// Options configures sink construction.
type Options struct {
	// Path is the target file.
	Path string
	// Atomic selects the temp-file-and-rename strategy.
	Atomic bool
	// Logger receives sink diagnostics. Defaults to a console logger.
	Logger logpkg.Logger
	// Metrics observes flush latencies and sizes. Optional.
	Metrics MetricsHook
}

// New selects the persistence strategy for the target path. When atomic
// writes are requested on a platform without atomic rename semantics, it
// logs the documented fallback warning and returns the in-place sink.
func New(opts Options) Sink {
	if opts.Logger == nil {
		opts.Logger = logpkg.NewLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = NoopMetrics{}
	}
	if opts.Atomic {
		if atomicRenameSupported() {
			return NewAtomic(opts)
		}
		opts.Logger.Warn("atomic writes not supported on this platform, using in-place writes",
			logpkg.Str("path", opts.Path), logpkg.Str("goos", runtime.GOOS))
	}
	return NewInPlace(opts)
}

// atomicRenameSupported reports whether rename-over-existing is atomic here.
func atomicRenameSupported() bool {
	return runtime.GOOS != "windows"
}
