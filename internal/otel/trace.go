package otel

import (
	"os"
	"sync/atomic"
)

// traceEnabled is read on every TUI message, so it is an atomic set once at init.
var traceEnabled atomic.Bool

func init() {
	traceEnabled.Store(os.Getenv("RANKER_TRACE") != "")
}

// TraceEnabled reports whether RANKER_TRACE is set.
func TraceEnabled() bool {
	return traceEnabled.Load()
}

// setTraceEnabled overrides the flag in tests.
func setTraceEnabled(v bool) {
	traceEnabled.Store(v)
}
