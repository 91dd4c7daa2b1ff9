// Package telemetry provides the opt-in internal tracing used by the
// Derivability and Resolution Engines to log propagation, selection, and
// subsumption decisions.
//
// The teacher library (gokanlogic) gates an equivalent trace helper,
// wfsTracef, behind a package-level atomic.Bool and writes through the
// standard log package. This package keeps the same "off by default, cheap
// to check, opt in via env var or config" shape but writes through
// go.uber.org/zap's SugaredLogger, matching the structured-logging choice
// the rest of the retrieved pack makes for this exact concern (codenerd and
// kubilitics-ai both depend on go.uber.org/zap).
package telemetry

import (
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Logger is the minimal structured-logging surface the engines need. It is
// satisfied by *zap.SugaredLogger but kept as an interface so tests can
// substitute a recording fake without linking zap's encoders.
type Logger interface {
	Debugw(msg string, keysAndValues ...any)
}

// noop is the default Logger until Enable or SetLogger installs another;
// its Debugw returns immediately. While tracing is off, Tracef returns after
// its atomic check without calling any logger.
type noop struct{}

func (noop) Debugw(string, ...any) {}

var (
	enabled  atomic.Bool
	loggerMu sync.RWMutex
	logger   Logger = noop{}
)

func init() {
	if os.Getenv("INFERGRAPH_TRACE") == "1" {
		Enable()
	}
}

// Enable turns on tracing, installing a default development zap logger
// (which writes debug-level events) if no logger has been set. Engines
// consult Enabled() on every trace call rather than caching it, so
// Enable/Disable take effect immediately without reconstructing engines.
func Enable() {
	loggerMu.Lock()
	if _, ok := logger.(noop); ok {
		if z, err := zap.NewDevelopment(); err == nil {
			logger = z.Sugar()
		}
	}
	loggerMu.Unlock()
	enabled.Store(true)
}

// Disable turns tracing back off without discarding the configured logger,
// so a later Enable resumes using it.
func Disable() {
	enabled.Store(false)
}

// Enabled reports whether tracing is currently active. Callers should guard
// any nontrivial trace-message construction with this check.
func Enabled() bool {
	return enabled.Load()
}

// SetLogger installs a caller-supplied Logger (e.g. a *zap.SugaredLogger
// built with the application's own configuration) and enables tracing.
func SetLogger(l Logger) {
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
	enabled.Store(true)
}

// Tracef records a structured trace event if tracing is enabled; it is a
// no-op otherwise. keysAndValues follows zap's SugaredLogger convention of
// alternating key, value pairs.
func Tracef(msg string, keysAndValues ...any) {
	if !enabled.Load() {
		return
	}
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	l.Debugw(msg, keysAndValues...)
}
