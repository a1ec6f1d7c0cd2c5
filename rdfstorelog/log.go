// Package rdfstorelog is a thin structured-logging wrapper around
// go.uber.org/zap, using a log.New("component", value, ...)-style
// constructor and an Info("msg", "key", value, ...) call convention.
// Per-triple add/remove never log — too hot a path.
package rdfstorelog

import "go.uber.org/zap"

// Logger is a component-tagged logger.
type Logger struct {
	s *zap.SugaredLogger
}

var base = newBase()

func newBase() *zap.SugaredLogger {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	return l.Sugar()
}

// New returns a logger pre-tagged with component and any additional
// key/value pairs, e.g. New("coordinator", "writeTimeout", 30*time.Second).
func New(component string, kv ...any) *Logger {
	args := append([]any{"component", component}, kv...)
	return &Logger{s: base.With(args...)}
}

func (l *Logger) Debug(msg string, kv ...any) { l.s.Debugw(msg, kv...) }
func (l *Logger) Info(msg string, kv ...any)  { l.s.Infow(msg, kv...) }
func (l *Logger) Warn(msg string, kv ...any)  { l.s.Warnw(msg, kv...) }
func (l *Logger) Error(msg string, kv ...any) { l.s.Errorw(msg, kv...) }

// With returns a child logger with additional key/value pairs attached.
func (l *Logger) With(kv ...any) *Logger {
	return &Logger{s: l.s.With(kv...)}
}
