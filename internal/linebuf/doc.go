// Package linebuf implements the rolling window of retained lines.
//
// # Overview
//
// Buffer is an ordered queue of whole, terminated lines plus a running byte
// total against a fixed budget. Appends go to the newest end; when the total
// exceeds the budget, TrimToMax evicts from the oldest end, one whole line
// at a time, so output never contains a partial line. The queue keeps a head
// index instead of re-slicing from the front, which makes eviction O(1)
// amortized under sustained input.
//
// Assemble produces the contiguous snapshot handed to the persistence sink.
// It is called once per flush, never per append, keeping the ingestion path
// allocation-free apart from the line itself.
//
// Usage
//
//	b := linebuf.New(maxSize)
//	b.Append(line) // line includes its trailing '\n'
//	b.TrimToMax()
//	snapshot := b.Assemble()
package linebuf
