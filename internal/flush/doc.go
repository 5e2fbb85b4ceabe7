// Package flush implements the time-driven flush scheduler.
//
// # Overview
//
// Writer is the single goroutine that owns persistence. Ingestion appends
// lines and marks the shared state dirty; the flush loop wakes — by
// notification, by debounce timeout, or by shutdown — assembles a snapshot,
// and hands it to the sink with the lock released.
//
// Two policies exist. Immediate mode blocks until dirty or shutting down and
// flushes on every wake. Debounced mode waits up to the configured interval
// and flushes only when dirty and either the wait timed out or the interval
// has elapsed since the last flush, coalescing bursts into at most one flush
// per interval while still flushing a lone line once input goes idle.
//
// # Shutdown
//
// Shutdown (or cancellation of the context passed to Run) sets the shutdown
// flag and wakes the loop through the same notify channel used for new
// data. The loop performs one final conditional flush, transitions to
// Terminated, and closes Done. Because a single goroutine owns all sink
// calls, flushes are strictly ordered and never concurrent.
package flush
