package ingest

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	logpkg "github.com/rzbill/snaptail/pkg/log"
)

type collectAppender struct {
	lines [][]byte
}

func (c *collectAppender) AppendLine(line []byte) {
	c.lines = append(c.lines, line)
}

func (c *collectAppender) joined() []byte {
	return bytes.Join(c.lines, nil)
}

func testLogger() logpkg.Logger {
	return logpkg.NewLogger(logpkg.WithLevel(logpkg.ErrorLevel), logpkg.WithOutput(logpkg.NewWriterOutput(io.Discard)))
}

func runIngest(t *testing.T, input string, maxSize int64) *collectAppender {
	t.Helper()
	out := &collectAppender{}
	in := New(NewReaderSource(strings.NewReader(input)), out, maxSize, testLogger())
	if err := in.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out
}

func TestSplitsOnNewline(t *testing.T) {
	out := runIngest(t, "a\nbb\nccc\n", 100)
	if got := out.joined(); !bytes.Equal(got, []byte("a\nbb\nccc\n")) {
		t.Fatalf("got %q", got)
	}
}

func TestCRLFNormalization(t *testing.T) {
	out := runIngest(t, "a\r\nb\r\n", 100)
	if got := out.joined(); !bytes.Equal(got, []byte("a\nb\n")) {
		t.Fatalf("got %q", got)
	}
}

func TestTrailingFragmentBecomesFinalLine(t *testing.T) {
	out := runIngest(t, "done\npartial", 100)
	if got := out.joined(); !bytes.Equal(got, []byte("done\npartial\n")) {
		t.Fatalf("got %q", got)
	}
}

func TestOverlongLineDropped(t *testing.T) {
	out := runIngest(t, "123456\n7\n", 5)
	if got := out.joined(); !bytes.Equal(got, []byte("7\n")) {
		t.Fatalf("got %q", got)
	}
}

func TestOverlongUnterminatedTailDiscarded(t *testing.T) {
	out := runIngest(t, "ok\n"+strings.Repeat("x", 50), 10)
	if got := out.joined(); !bytes.Equal(got, []byte("ok\n")) {
		t.Fatalf("got %q", got)
	}
}

func TestDroppingSpansChunkBoundaries(t *testing.T) {
	// feed one byte at a time so the overlong line crosses many reads
	input := strings.Repeat("y", 30) + "\nafter\n"
	out := &collectAppender{}
	in := New(NewReaderSource(iotest1(input)), out, 8, testLogger())
	if err := in.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := out.joined(); !bytes.Equal(got, []byte("after\n")) {
		t.Fatalf("got %q", got)
	}
	if in.Dropped() != 1 {
		t.Fatalf("dropped = %d, want 1", in.Dropped())
	}
}

// iotest1 yields the input one byte per Read call.
func iotest1(s string) io.Reader { return &oneByteReader{rest: []byte(s)} }

type oneByteReader struct {
	rest []byte
}

func (r *oneByteReader) Read(p []byte) (int, error) {
	if len(r.rest) == 0 {
		return 0, io.EOF
	}
	p[0] = r.rest[0]
	r.rest = r.rest[1:]
	return 1, nil
}

func TestCancellationStopsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	out := &collectAppender{}

	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	in := New(NewReaderSource(pr), out, 100, testLogger())
	done := make(chan error, 1)
	go func() { done <- in.Run(ctx) }()

	if _, err := pw.Write([]byte("before\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	cancel()
	// the pipe source cannot be cancelled mid-read; closing the writer
	// unblocks it the way EOF on stdin would
	_ = pw.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("ingester did not stop")
	}
	if got := out.joined(); !bytes.Equal(got, []byte("before\n")) {
		t.Fatalf("got %q", got)
	}
}
