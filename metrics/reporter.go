package metrics

import "sync/atomic"

// Reporter receives metric observations from library components. All methods
// must be safe for concurrent use and must never block: the socket core
// reports from inside its critical section.
type Reporter interface {
	// IncCounter adds delta to a monotonically increasing counter.
	IncCounter(name string, delta Value, dims Dimension)

	// SetGauge sets an instantaneous value.
	SetGauge(name string, value Value, dims Dimension)
}

// NoopReporter discards everything. It is the default.
type NoopReporter struct{}

func (NoopReporter) IncCounter(string, Value, Dimension) {}

func (NoopReporter) SetGauge(string, Value, Dimension) {}

var _defaultReporter atomic.Pointer[Reporter]

func init() {
	var r Reporter = NoopReporter{}
	_defaultReporter.Store(&r)
}

// SetDefault replaces the process-wide default reporter. Sockets created
// without an explicit reporter pick up the default at construction time.
func SetDefault(r Reporter) {
	if r == nil {
		r = NoopReporter{}
	}
	_defaultReporter.Store(&r)
}

// Default returns the process-wide default reporter.
func Default() Reporter {
	return *_defaultReporter.Load()
}
