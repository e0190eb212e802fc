package progress

import (
	"fmt"
	"log/slog"

	"mapsmith/internal/logging"
)

// Indeterminate marks a progress event with no known completion fraction.
const Indeterminate = -1.0

// Sink receives progress events. Implementations are typically UI-facing and
// may fail; the Reporter isolates callers from those failures.
type Sink func(fraction float64, message string) error

// Reporter normalizes multi-phase progress callbacks. A nil Reporter and a
// Reporter with a nil sink are both valid and drop all events.
type Reporter struct {
	sink   Sink
	logger *slog.Logger
	lo, hi float64
}

// NewReporter builds a Reporter delivering events to sink. Sink errors and
// panics are logged and swallowed so they never abort the reporting
// operation.
func NewReporter(sink Sink, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Reporter{sink: sink, logger: logger, lo: 0, hi: 1}
}

// Report delivers one event. Fractions outside [0,1] other than
// Indeterminate are clamped.
func (r *Reporter) Report(fraction float64, message string) {
	if r == nil || r.sink == nil {
		return
	}
	scaled := fraction
	if fraction != Indeterminate {
		if fraction < 0 {
			fraction = 0
		}
		if fraction > 1 {
			fraction = 1
		}
		scaled = r.lo + fraction*(r.hi-r.lo)
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("progress sink panicked",
				logging.String("panic", fmt.Sprint(rec)),
				logging.String("message", message))
		}
	}()
	if err := r.sink(scaled, message); err != nil {
		r.logger.Warn("progress sink failed",
			logging.Error(err),
			logging.String("message", message))
	}
}

// Indeterminate reports an event with no completion fraction.
func (r *Reporter) Indeterminate(message string) {
	r.Report(Indeterminate, message)
}

// Phase returns a sub-reporter whose [0,1] range maps onto [lo,hi] of the
// parent's range. A fraction reset at a phase boundary is expected; within a
// phase fractions should be non-decreasing.
func (r *Reporter) Phase(lo, hi float64) *Reporter {
	if r == nil {
		return nil
	}
	if lo < 0 {
		lo = 0
	}
	if hi > 1 {
		hi = 1
	}
	if hi < lo {
		hi = lo
	}
	span := r.hi - r.lo
	return &Reporter{
		sink:   r.sink,
		logger: r.logger,
		lo:     r.lo + lo*span,
		hi:     r.lo + hi*span,
	}
}
