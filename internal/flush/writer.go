package flush

import (
	"context"
	"sync"
	"time"

	"github.com/rzbill/snaptail/internal/linebuf"
	"github.com/rzbill/snaptail/internal/sink"
	logpkg "github.com/rzbill/snaptail/pkg/log"
)

// State describes where the flush loop currently is.
type State int32

// Flush loop states
const (
	Idle State = iota
	Waiting
	Flushing
	ShuttingDown
	Terminated
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Waiting:
		return "waiting"
	case Flushing:
		return "flushing"
	case ShuttingDown:
		return "shutting_down"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Options configures the Writer.
type Options struct {
	// Buffer is the rolling line buffer. The Writer owns its lock.
	Buffer *linebuf.Buffer
	// Sink persists assembled snapshots.
	Sink sink.Sink
	// Interval is the debounce window. Non-positive selects immediate mode.
	Interval time.Duration
	// Immediate forces a flush per appended line regardless of Interval.
	Immediate bool
	// Logger receives flush diagnostics.
	Logger logpkg.Logger
	// Reporter rate-limits persistence error diagnostics. Optional; built
	// from Logger when nil.
	Reporter *sink.Reporter
}

// Writer owns the flush schedule: it decides when buffered lines are
// materialized to the sink. All shared state (the buffer, the dirty flag,
// the shutdown flag) lives under one mutex with a close-and-replace
// notify channel as the wake primitive. The lock is never held across
// a sink write.
type Writer struct {
	mu           sync.Mutex
	buf          *linebuf.Buffer
	dirty        bool
	shuttingDown bool
	notifyCh     chan struct{}
	lastFlush    time.Time
	state        State

	interval  time.Duration
	immediate bool
	snk       sink.Sink
	logger    logpkg.Logger
	reporter  *sink.Reporter
	done      chan struct{}
}

// NewWriter creates a Writer. Run must be started on its own goroutine for
// appends to become visible in the sink.
func NewWriter(opts Options) *Writer {
	w := &Writer{
		buf:       opts.Buffer,
		interval:  opts.Interval,
		immediate: opts.Immediate || opts.Interval <= 0,
		snk:       opts.Sink,
		logger:    opts.Logger,
		reporter:  opts.Reporter,
		notifyCh:  make(chan struct{}),
		done:      make(chan struct{}),
		lastFlush: time.Now(),
	}
	if w.logger == nil {
		w.logger = logpkg.NewLogger()
	}
	if w.reporter == nil {
		w.reporter = sink.NewReporter(w.logger, 0)
	}
	return w
}

// AppendLine adds a terminated line to the buffer, trims it to budget, marks
// the state dirty, and wakes the flush loop. It never blocks on I/O.
func (w *Writer) AppendLine(line []byte) {
	w.mu.Lock()
	w.buf.Append(line)
	w.buf.TrimToMax()
	w.dirty = true
	close(w.notifyCh)
	w.notifyCh = make(chan struct{})
	w.mu.Unlock()
}

// Shutdown requests termination and wakes the flush loop. It is idempotent
// and safe to call from any goroutine; the final conditional flush runs on
// the flush goroutine.
func (w *Writer) Shutdown() {
	w.mu.Lock()
	if w.shuttingDown {
		w.mu.Unlock()
		return
	}
	w.shuttingDown = true
	close(w.notifyCh)
	w.notifyCh = make(chan struct{})
	w.mu.Unlock()
}

// Done is closed once the loop has terminated after its final flush.
func (w *Writer) Done() <-chan struct{} { return w.done }

// State reports the loop's current state.
func (w *Writer) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Run executes the flush loop until Shutdown (or ctx cancellation, which is
// redirected into Shutdown). Exactly one flush executes at a time and the
// final conditional flush is guaranteed before return.
func (w *Writer) Run(ctx context.Context) error {
	defer close(w.done)
	ctxDone := ctx.Done()

	for {
		w.mu.Lock()
		if w.shuttingDown {
			break
		}

		if w.immediate {
			if w.dirty {
				if w.flushLocked(ctx) {
					w.mu.Unlock()
					continue
				}
				// flush failed: wait for the next wake instead of
				// hammering a faulty sink in a tight loop
			}
			ch := w.notifyCh
			w.state = Idle
			w.mu.Unlock()

			select {
			case <-ch:
			case <-ctxDone:
				ctxDone = nil
				w.Shutdown()
			}
			continue
		}

		ch := w.notifyCh
		w.state = Waiting
		w.mu.Unlock()

		timer := time.NewTimer(w.interval)
		timedOut := false
		select {
		case <-ch:
		case <-timer.C:
			timedOut = true
		case <-ctxDone:
			ctxDone = nil
			w.Shutdown()
		}
		timer.Stop()

		w.mu.Lock()
		if w.dirty && !w.shuttingDown && (timedOut || time.Since(w.lastFlush) >= w.interval) {
			w.flushLocked(ctx)
		}
		w.mu.Unlock()
	}

	// lock held: final conditional flush, then terminate
	w.state = ShuttingDown
	if w.dirty {
		w.flushLocked(ctx)
	}
	w.state = Terminated
	w.mu.Unlock()
	w.logger.Debug("flush loop terminated")
	return nil
}

// flushLocked assembles a snapshot and persists it, reporting success. The
// caller holds the lock; it is released around the sink write so ingestion
// is never blocked by slow I/O. On sink failure the dirty flag is re-set so
// the next scheduled flush retries.
func (w *Writer) flushLocked(ctx context.Context) bool {
	w.state = Flushing
	snapshot := w.buf.Assemble()
	w.dirty = false
	w.lastFlush = time.Now()
	w.mu.Unlock()

	err := w.snk.Write(ctx, snapshot)

	w.mu.Lock()
	if err != nil {
		w.dirty = true
		w.reporter.Report("flush failed", err)
		return false
	}
	return true
}
