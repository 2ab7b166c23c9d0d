// Package trace is the opaque trace(...) sink spec.md §9 calls for: a single
// place the runtime reports handler faults and other diagnostics through,
// backed by the teacher's own logging facility rather than a second
// logging framework grafted on top. It intentionally does not grow levels,
// sinks, or formatting knobs beyond what XDISPATCH_TRACE reads - "logging
// helpers beyond an opaque trace sink" are out of scope per spec.md §1.
package trace

import (
	"os"
	"strconv"

	"github.com/lindb/common/pkg/logger"
)

// enabledEnv is the one environment variable the core's diagnostics read,
// matching the original's XDISPATCH_TRACE_PREFIX/trace_utils.h gate.
const enabledEnv = "XDISPATCH_TRACE"

var enabled = parseEnabled(os.Getenv(enabledEnv))

func parseEnabled(v string) bool {
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// Enabled reports whether XDISPATCH_TRACE asked for diagnostics.
func Enabled() bool {
	return enabled
}

// Sink is the module-wide trace(...) emitter, named per component the way
// the teacher names its loggers ("Pool", "naive-worker-pool").
type Sink struct {
	log logger.Logger
}

// New returns a Sink for the given module/role pair.
func New(module, role string) *Sink {
	return &Sink{log: logger.GetLogger(module, role)}
}

// HandlerFault reports an operation that panicked during execution. Per
// spec.md §7 the fault is caught at the worker boundary, traced here, and
// never repropagated.
func (s *Sink) HandlerFault(err error) {
	if !enabled {
		return
	}
	s.log.Error("operation panicked during dispatch", logger.Error(err), logger.Stack())
}

// Debugf emits a low-volume diagnostic line, gated behind XDISPATCH_TRACE so
// a disabled sink costs nothing beyond the boolean check.
func (s *Sink) Debugf(msg string, fields ...logger.Field) {
	if !enabled {
		return
	}
	s.log.Debug(msg, fields...)
}
