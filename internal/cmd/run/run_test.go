package runcmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	cfgpkg "github.com/rzbill/snaptail/internal/config"
	logpkg "github.com/rzbill/snaptail/pkg/log"
)

func testLogger() logpkg.Logger {
	return logpkg.NewLogger(logpkg.WithLevel(logpkg.FatalLevel), logpkg.WithOutput(logpkg.NewWriterOutput(io.Discard)))
}

func TestRunRequiresTarget(t *testing.T) {
	err := Run(context.Background(), Options{Config: cfgpkg.Default(), Logger: testLogger()})
	if err == nil {
		t.Fatalf("expected error without target")
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.MaxSize = 0
	err := Run(context.Background(), Options{Target: filepath.Join(t.TempDir(), "a.log"), Config: cfg, Logger: testLogger()})
	if err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestRunToEOFWritesSnapshot(t *testing.T) {
	target := filepath.Join(t.TempDir(), "app.log")
	cfg := cfgpkg.Default()
	cfg.Immediate = true

	err := Run(context.Background(), Options{
		Target: target,
		Config: cfg,
		Input:  strings.NewReader("alpha\nbeta\ngamma\n"),
		Logger: testLogger(),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, []byte("alpha\nbeta\ngamma\n")) {
		t.Fatalf("snapshot: %q", got)
	}
}

func TestRunEnforcesBudgetOnDisk(t *testing.T) {
	target := filepath.Join(t.TempDir(), "app.log")
	cfg := cfgpkg.Default()
	cfg.MaxSize = 12
	cfg.Immediate = true

	var input strings.Builder
	for i := 0; i < 100; i++ {
		input.WriteString("0123456789\n") // 11 bytes each
	}
	err := Run(context.Background(), Options{
		Target: target,
		Config: cfg,
		Input:  strings.NewReader(input.String()),
		Logger: testLogger(),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if int64(len(got)) > cfg.MaxSize {
		t.Fatalf("snapshot exceeds budget: %d > %d", len(got), cfg.MaxSize)
	}
	if !bytes.Equal(got, []byte("0123456789\n")) {
		t.Fatalf("snapshot: %q", got)
	}
}

func TestRunFinalFlushOnUnterminatedTail(t *testing.T) {
	target := filepath.Join(t.TempDir(), "app.log")
	cfg := cfgpkg.Default()
	cfg.WriteIntervalMs = 60_000 // only the shutdown flush can persist

	err := Run(context.Background(), Options{
		Target: target,
		Config: cfg,
		Input:  strings.NewReader("complete\ndangling"),
		Logger: testLogger(),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, []byte("complete\ndangling\n")) {
		t.Fatalf("snapshot: %q", got)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	target := filepath.Join(t.TempDir(), "app.log")
	cfg := cfgpkg.Default()
	cfg.Immediate = true

	pr, pw := io.Pipe()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Options{Target: target, Config: cfg, Input: pr, Logger: testLogger()})
	}()

	if _, err := pw.Write([]byte("observed\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	// wait for the line to land on disk, then request shutdown
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if b, err := os.ReadFile(target); err == nil && bytes.Equal(b, []byte("observed\n")) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	// the pipe reader is not cancelable; closing the writer unblocks it
	_ = pw.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not stop")
	}
	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, []byte("observed\n")) {
		t.Fatalf("snapshot: %q", got)
	}
}

func TestRunAtomicWrites(t *testing.T) {
	target := filepath.Join(t.TempDir(), "app.log")
	cfg := cfgpkg.Default()
	cfg.Immediate = true
	cfg.AtomicWrites = true

	err := Run(context.Background(), Options{
		Target: target,
		Config: cfg,
		Input:  strings.NewReader("atomic\n"),
		Logger: testLogger(),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, []byte("atomic\n")) {
		t.Fatalf("snapshot: %q", got)
	}
}
