package ingest

import (
	"io"
	"os"

	"github.com/muesli/cancelreader"
)

// Source is a cancelable byte stream. Cancel unblocks a pending Read so the
// read loop can observe shutdown without waiting for more input.
type Source interface {
	io.Reader
	// Cancel unblocks a pending Read. It reports whether cancellation is
	// supported on this platform.
	Cancel() bool
	Close() error
}

// NewSource wraps a file in a reactive, cancelable reader when the platform
// supports select/epoll/kqueue multiplexing, falling back to plain blocking
// reads otherwise.
func NewSource(f *os.File) Source {
	if cr, err := cancelreader.NewReader(f); err == nil {
		return &cancelSource{cr: cr}
	}
	return &blockingSource{r: f}
}

// NewReaderSource wraps an arbitrary reader in a non-cancelable Source.
// Reads block until the reader produces data or reaches EOF.
func NewReaderSource(r io.Reader) Source {
	return &blockingSource{r: r}
}

type cancelSource struct {
	cr cancelreader.CancelReader
}

func (s *cancelSource) Read(p []byte) (int, error) { return s.cr.Read(p) }
func (s *cancelSource) Cancel() bool               { return s.cr.Cancel() }
func (s *cancelSource) Close() error               { return s.cr.Close() }

type blockingSource struct {
	r io.Reader
}

func (s *blockingSource) Read(p []byte) (int, error) { return s.r.Read(p) }
func (s *blockingSource) Cancel() bool               { return false }

func (s *blockingSource) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
