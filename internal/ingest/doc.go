// Package ingest consumes the raw input stream and reassembles it into
// whole, normalized lines.
//
// # Overview
//
// A Source abstracts the input capability: NewSource prefers a cancelable
// reader (reactive multiplexing via muesli/cancelreader) so a pending read
// can be unblocked on shutdown, and falls back to plain blocking reads where
// the platform cannot support it. The Ingester scans fixed-size chunks,
// splits on '\n', strips a trailing '\r', and forwards each accepted line to
// an Appender.
//
// # Overlong-line defense
//
// Once a partially-assembled line reaches maxSize-1 bytes without
// terminating, the ingester switches to a dropping sub-state and discards
// bytes (including the eventual terminator) without emitting anything.
// Memory stays bounded regardless of input, and no line that cannot fit the
// budget alone is ever retained.
//
// # End of stream
//
// An unterminated trailing fragment at end-of-stream is treated as a final
// complete line; its terminator is appended before forwarding.
package ingest
