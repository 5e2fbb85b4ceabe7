// Package runcmd wires the ingester, flush loop, and sink into one snaptail
// run and owns the shutdown sequence: a termination signal or end-of-stream
// cancels the shared context, the flush loop performs its guaranteed final
// flush, and Run returns once the loop has terminated.
package runcmd
