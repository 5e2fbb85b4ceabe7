// Package log provides snaptail's structured logging facade and utilities.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// simple Field type for structured context. Internally it is backed by Go's
// standard library slog via a custom handler that preserves the
// formatter/outputs pipeline. Entries go to stderr by default so the
// process's stdout stays clean for pipelines.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormatter(&log.TextFormatter{}),
//	    log.WithOutput(log.NewConsoleOutput()),
//	)
//	l = l.With(log.Component("sink"), log.Str("path", "/tmp/app.log"))
//	l.Info("flush complete", log.Int("bytes", 4096))
//
// # Configuration
//
// Use ApplyConfig to build a logger from a declarative Config, supporting
// text or JSON formatting. To integrate with libraries expecting the stdlib
// logger, use RedirectStdLog.
package log
