// Package sink persists assembled snapshots to the target file.
//
// # Strategies
//
// InPlace keeps one handle open across flushes: it writes the snapshot at
// offset zero and truncates to the exact length, removing any stale tail
// from a previously larger snapshot. A failed write drops the handle and the
// next flush reopens lazily, so a transient fault never stops the process.
//
// Atomic (opt-in) writes to a sibling temp file and renames it over the
// target, giving path-based readers an indivisible content transition. On
// platforms without atomic rename-over-existing semantics, New logs a
// warning and falls back to the in-place strategy.
//
// # Diagnostics
//
// Both strategies return errors rather than handling them; the flush loop
// retries on its next pass and routes the error through Reporter, which
// emits at most one message per cooldown window.
package sink
