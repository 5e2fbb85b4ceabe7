package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DebugLevel,
		"info":    InfoLevel,
		"warn":    WarnLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
		"FATAL":   FatalLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q: want %v got %v", in, want, got)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestTextFormatterFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(
		WithLevel(DebugLevel),
		WithFormatter(&TextFormatter{}),
		WithOutput(NewWriterOutput(&buf)),
	)
	l.Info("flush complete", Int("bytes", 42), Str("path", "a.log"))

	line := buf.String()
	if !strings.Contains(line, "INFO flush complete") {
		t.Fatalf("missing level/message: %q", line)
	}
	if !strings.Contains(line, "bytes=42") || !strings.Contains(line, "path=a.log") {
		t.Fatalf("missing fields: %q", line)
	}
}

func TestJSONFormatterFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(
		WithLevel(DebugLevel),
		WithFormatter(&JSONFormatter{}),
		WithOutput(NewWriterOutput(&buf)),
	)
	l.Error("write failed", Err(errors.New("disk full")))

	var obj map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &obj); err != nil {
		t.Fatalf("unmarshal: %v (line %q)", err, buf.String())
	}
	if obj["msg"] != "write failed" || obj["level"] != "error" {
		t.Fatalf("unexpected object: %v", obj)
	}
	if obj["error"] != "disk full" {
		t.Fatalf("expected error field, got %v", obj["error"])
	}
}

func TestLevelGate(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(
		WithLevel(WarnLevel),
		WithFormatter(&TextFormatter{}),
		WithOutput(NewWriterOutput(&buf)),
	)
	l.Debug("hidden")
	l.Info("hidden too")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %q", buf.String())
	}
	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected warn output, got %q", buf.String())
	}
}

func TestWithAttachesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(
		WithLevel(DebugLevel),
		WithFormatter(&TextFormatter{}),
		WithOutput(NewWriterOutput(&buf)),
	)
	scoped := l.With(Component("flush"))
	scoped.Info("wake")
	if !strings.Contains(buf.String(), "component=flush") {
		t.Fatalf("expected component field, got %q", buf.String())
	}
}
