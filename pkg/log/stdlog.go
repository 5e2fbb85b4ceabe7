package log

import (
	stdlog "log"
	"strings"
)

// RedirectStdLog routes standard library log output (used by some third-party
// packages) through the provided Logger at info level.
func RedirectStdLog(l Logger) {
	stdlog.SetFlags(0)
	stdlog.SetOutput(stdLogWriter{l: l})
}

type stdLogWriter struct {
	l Logger
}

func (w stdLogWriter) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\n")
	if msg != "" {
		w.l.Info(msg)
	}
	return len(p), nil
}
