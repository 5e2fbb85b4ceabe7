// Package id provides a 64-bit, lexicographically sortable identifier.
//
// # Format
//
// The ID packs a 48-bit millisecond timestamp and a 16-bit per-process
// sequence into a single uint64. Hex-encoded IDs compare byte-wise in
// chronological order, which keeps temp-file names and run ids sortable.
//
// # Monotonicity
//
// The Generator ensures per-process monotonicity:
//   - If the system clock regresses, it pins to the last seen millisecond and
//     increments the sequence to avoid going backwards.
//   - If the sequence would overflow within a millisecond, it waits for the
//     next millisecond before emitting the next ID.
//
// Usage
//
//	g := id.NewGenerator()
//	suffix := g.Next().String() // 16 hex digits
package id
