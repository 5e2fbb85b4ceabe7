package runcmd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	cfgpkg "github.com/rzbill/snaptail/internal/config"
	"github.com/rzbill/snaptail/internal/flush"
	"github.com/rzbill/snaptail/internal/ingest"
	"github.com/rzbill/snaptail/internal/linebuf"
	"github.com/rzbill/snaptail/internal/sink"
	"github.com/rzbill/snaptail/pkg/id"
	logpkg "github.com/rzbill/snaptail/pkg/log"
)

// Options wires one snaptail run.
type Options struct {
	// Target is the snapshot file path.
	Target string
	// Config is the validated core configuration.
	Config cfgpkg.Config
	// Input overrides the stream to consume. Defaults to stdin.
	Input io.Reader
	// Logger overrides the process logger. Built from Config when nil.
	Logger logpkg.Logger
	// Metrics observes flush latencies and sizes. Optional.
	Metrics sink.MetricsHook
}

// Run consumes the input stream into the rolling snapshot until end-of-stream
// or ctx cancellation, then drives the final flush and blocks until the flush
// loop has terminated.
func Run(ctx context.Context, opts Options) error {
	// Be robust to callers that don't pass a signal-aware context; the
	// restricted signal-capture work stays inside the runtime either way.
	sctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.Target == "" {
		return errors.New("run: target path is required")
	}
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := opts.Logger
	if logger == nil {
		built, err := logpkg.ApplyConfig(&logpkg.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
		if err != nil {
			return err
		}
		logger = built
	}
	logger = logger.With(logpkg.Str("run_id", id.NewGenerator().Next().String()))

	snk := sink.New(sink.Options{
		Path:    opts.Target,
		Atomic:  cfg.AtomicWrites,
		Logger:  logger.With(logpkg.Component("sink")),
		Metrics: opts.Metrics,
	})
	defer func() { _ = snk.Close() }()

	buf := linebuf.New(cfg.MaxSize)
	var evicted atomic.Int64
	buf.SetEvictHook(func([]byte) { evicted.Add(1) })

	w := flush.NewWriter(flush.Options{
		Buffer:    buf,
		Sink:      snk,
		Interval:  cfg.Interval(),
		Immediate: cfg.Immediate,
		Logger:    logger.With(logpkg.Component("flush")),
		Reporter:  sink.NewReporter(logger.With(logpkg.Component("sink")), 0),
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = w.Run(sctx)
	}()

	var src ingest.Source
	switch in := opts.Input.(type) {
	case nil:
		src = ingest.NewSource(os.Stdin)
	case *os.File:
		src = ingest.NewSource(in)
	default:
		src = ingest.NewReaderSource(in)
	}

	ing := ingest.New(src, w, cfg.MaxSize, logger.With(logpkg.Component("ingest")))

	logger.Info("snaptail started",
		logpkg.Str("target", opts.Target),
		logpkg.Int64("max_size", cfg.MaxSize),
		logpkg.Dur("write_interval", cfg.Interval()),
		logpkg.Bool("immediate", cfg.Immediate || cfg.WriteIntervalMs == 0),
		logpkg.Bool("atomic_writes", cfg.AtomicWrites),
	)

	err := ing.Run(sctx)
	_ = src.Close()

	// EOF and termination signal converge on the same final-flush path
	w.Shutdown()
	wg.Wait()

	if n := evicted.Load(); n > 0 {
		logger.Debug("lines evicted over budget", logpkg.Int64("lines", n))
	}
	if n := ing.Dropped(); n > 0 {
		logger.Debug("overlong lines dropped", logpkg.Int64("lines", n))
	}
	logger.Info("snaptail stopped")

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
