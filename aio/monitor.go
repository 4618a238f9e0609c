package aio

import (
	"errors"
	"sync"
	"time"
)

// ErrTimedOut reports that a timed Wait expired before the monitor was
// posted.
var ErrTimedOut = errors.New("aio: wait timed out")

// Monitor is a condition variable bound to a dispatcher's mutual-exclusion
// domain. Any number of goroutines may park on it; Post releases all of them
// and each re-checks its own condition after reacquiring the domain. One
// socket owns exactly one monitor.
type Monitor struct {
	d    *Dispatcher
	cond *sync.Cond
	gen  uint64
}

// NewMonitor creates a monitor bound to d's domain.
func NewMonitor(d *Dispatcher) *Monitor {
	return &Monitor{
		d:    d,
		cond: sync.NewCond(&d.mu),
	}
}

// Wait parks the calling goroutine until the monitor is posted or, for a
// non-negative timeout, until the timeout expires. The caller must hold the
// domain; it is released for the duration of the wait and reacquired before
// Wait returns. A negative timeout waits forever and always returns nil.
func (m *Monitor) Wait(timeout time.Duration) error {
	start := m.gen
	if timeout < 0 {
		for m.gen == start {
			m.cond.Wait()
		}
		return nil
	}

	expired := false
	t := m.d.clk.AfterFunc(timeout, func() {
		m.d.mu.Lock()
		expired = true
		m.cond.Broadcast()
		m.d.mu.Unlock()
	})
	for m.gen == start && !expired {
		m.cond.Wait()
	}
	t.Stop()
	if m.gen == start {
		return ErrTimedOut
	}
	return nil
}

// Post wakes every parked goroutine. Waking all and letting each re-check is
// deliberately chosen over waking one: a single woken caller that fails to
// consume the readiness must not starve the rest. The caller must hold the
// domain.
func (m *Monitor) Post() {
	m.gen++
	m.cond.Broadcast()
}

// Term releases the monitor. Anything still parked is woken so it can
// observe the socket going away. The caller must hold the domain.
func (m *Monitor) Term() {
	m.Post()
}
