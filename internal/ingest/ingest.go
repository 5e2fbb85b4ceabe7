package ingest

import (
	"context"
	"errors"
	"io"

	"github.com/muesli/cancelreader"
	logpkg "github.com/rzbill/snaptail/pkg/log"
)

const chunkSize = 8192

// Appender receives complete, terminator-normalized lines. Each line carries
// exactly one trailing '\n' and fits the configured byte budget on its own.
type Appender interface {
	AppendLine(line []byte)
}

// Ingester consumes raw input chunks, reassembles line boundaries, and
// forwards accepted lines to an Appender.
type Ingester struct {
	src     Source
	out     Appender
	maxSize int64
	logger  logpkg.Logger

	cur      []byte
	dropping bool
	dropped  int64
}

// New creates an Ingester reading from src. maxSize is the buffer byte
// budget: a line that cannot fit alone is dropped rather than split.
func New(src Source, out Appender, maxSize int64, logger logpkg.Logger) *Ingester {
	return &Ingester{src: src, out: out, maxSize: maxSize, logger: logger}
}

// Dropped reports how many lines were discarded for exceeding the budget.
func (in *Ingester) Dropped() int64 { return in.dropped }

// Run consumes the source until end-of-stream or ctx cancellation. An
// unterminated trailing fragment at end-of-stream is treated as a final
// complete line. Returns nil on EOF, ctx.Err() when cancelled.
func (in *Ingester) Run(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			in.src.Cancel()
		case <-stop:
		}
	}()

	buf := make([]byte, chunkSize)
	for {
		n, err := in.src.Read(buf)
		if n > 0 {
			in.consume(buf[:n])
		}
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			in.finish()
			return nil
		}
		if errors.Is(err, cancelreader.ErrCanceled) || ctx.Err() != nil {
			in.finish()
			return ctx.Err()
		}
		return err
	}
}

// consume scans a chunk byte-wise, maintaining the partial line and the
// dropping sub-state for overlong lines.
func (in *Ingester) consume(chunk []byte) {
	for _, c := range chunk {
		switch {
		case c == '\n':
			if in.dropping {
				in.dropping = false
			} else {
				in.emit()
			}
			in.cur = in.cur[:0]
		case in.dropping:
			// discard until the terminator
		default:
			if int64(len(in.cur)) >= in.maxSize-1 {
				// the line can no longer fit even alone; drop the rest
				in.dropping = true
				in.cur = in.cur[:0]
				in.dropped++
				in.logger.Debug("dropping overlong line", logpkg.Int64("max_size", in.maxSize))
				continue
			}
			in.cur = append(in.cur, c)
		}
	}
}

// emit normalizes and forwards the current line. A trailing carriage return
// is stripped before the size check.
func (in *Ingester) emit() {
	line := in.cur
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	if int64(len(line))+1 > in.maxSize {
		in.dropped++
		in.logger.Debug("dropping overlong line", logpkg.Int64("max_size", in.maxSize))
		return
	}
	out := make([]byte, 0, len(line)+1)
	out = append(out, line...)
	out = append(out, '\n')
	in.out.AppendLine(out)
}

// finish applies the end-of-stream policy to whatever is pending.
func (in *Ingester) finish() {
	if in.dropping {
		// the unterminated tail was already over budget
		in.dropping = false
		in.cur = in.cur[:0]
		return
	}
	if len(in.cur) > 0 {
		in.emit()
		in.cur = in.cur[:0]
	}
}
