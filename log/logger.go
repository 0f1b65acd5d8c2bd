// Package log is a minimal wrapper around a structured logger. Like the
// teacher's own log package, it is never a global: a caller constructs a
// *Logger and passes it in explicitly (nexus.New takes one). The resolver,
// the minimizer, and the pipeline scheduler take no logger at all, so they
// stay free of any logging dependency of their own correctness (spec §5 -
// they perform no I/O and never block on external events; logging is
// purely a side channel).
package log

import (
	"go.uber.org/zap"
)

// Logger wraps a *zap.Logger with the small set of calls the core
// subsystems actually need, so call sites never import zap directly.
type Logger struct {
	z *zap.Logger
}

// New wraps an existing *zap.Logger.
func New(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{z: z}
}

// Nop returns a Logger that discards everything, for callers that don't
// care to wire one up (tests, short-lived CLI invocations).
func Nop() *Logger { return New(zap.NewNop()) }

func (l *Logger) Debugw(msg string, kv ...interface{}) { l.z.Sugar().Debugw(msg, kv...) }
func (l *Logger) Infow(msg string, kv ...interface{})  { l.z.Sugar().Infow(msg, kv...) }
func (l *Logger) Warnw(msg string, kv ...interface{})  { l.z.Sugar().Warnw(msg, kv...) }
func (l *Logger) Errorw(msg string, kv ...interface{}) { l.z.Sugar().Errorw(msg, kv...) }

// With returns a derived Logger carrying the given structured fields on
// every subsequent call, mirroring zap's own With.
func (l *Logger) With(kv ...interface{}) *Logger {
	return &Logger{z: l.z.Sugar().With(kv...).Desugar()}
}
