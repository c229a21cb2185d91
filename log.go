package motorengine

import (
	"os"

	kitlog "github.com/go-kit/kit/log"
)

// Logger is the structured logging contract used throughout the engine.
// It is satisfied directly by github.com/go-kit/kit/log.Logger, so callers
// may pass one in without an adapter.
type Logger interface {
	Log(keyvals ...interface{}) error
}

// NewLogger initializes the engine's logger the way smd.SCLogInit builds
// the spacecraft's: a logfmt logger over a synchronized stdout writer,
// with the run's name bound once instead of repeated at every call site.
func NewLogger(name string) Logger {
	l := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	return kitlog.With(l, "ts", kitlog.DefaultTimestampUTC, "engine", name)
}

// withMotor binds the motor name to every subsequent log line emitted
// through the returned logger.
func withMotor(l Logger, name string) Logger {
	if kl, ok := l.(kitlog.Logger); ok {
		return kitlog.With(kl, "motor", name)
	}
	return l
}

// withCycle binds the current sim_it to every subsequent log line.
func withCycle(l Logger, simIt uint64) Logger {
	if kl, ok := l.(kitlog.Logger); ok {
		return kitlog.With(kl, "sim_it", simIt)
	}
	return l
}

// nopLogger discards everything; used where a Logger is required but the
// caller (typically a test) does not want output.
type nopLogger struct{}

func (nopLogger) Log(keyvals ...interface{}) error { return nil }

// NopLogger returns a Logger that discards all log lines.
func NopLogger() Logger { return nopLogger{} }
