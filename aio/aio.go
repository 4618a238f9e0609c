// Package aio implements the asynchronous event dispatcher that underlies a
// socket: a per-socket run loop delivering posted (software) events and timer
// expirations to a callback table under a single mutual-exclusion domain.
// Raw file-descriptor readiness is part of the callback table for completeness
// but is never produced by this dispatcher; transports in this library drive
// their own I/O and feed the socket through posted events instead.
//
// The mutual-exclusion domain is the cornerstone of the socket layer's
// concurrency model: application calls into the socket and dispatcher
// callbacks into the pattern never interleave without it. The Monitor type in
// this package supplies condition-variable semantics bound to the same domain
// so blocking send/receive callers can park while the domain is released.
package aio

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/eapache/queue"
)

// Handler is the callback table a dispatcher delivers into. All three
// callbacks are invoked while the dispatcher's mutual-exclusion domain is
// held; implementations must not block and must not re-enter the public
// socket API.
type Handler interface {
	// OnIO delivers raw file-descriptor readiness. Reserved: this
	// dispatcher never produces it, and the socket layer treats an
	// invocation as a fatal contract violation.
	OnIO(event int, hndl *IOHandle)

	// OnPosted delivers an event previously scheduled with Post, tagged
	// with the integer the poster supplied.
	OnPosted(event int, hndl *Event)

	// OnTimeout delivers the expiration of a timer previously armed with
	// AddTimer.
	OnTimeout(hndl *TimerHandle)
}

// IOHandle identifies a raw I/O registration. Present only so the Handler
// table is complete; no API in this package produces one.
type IOHandle struct {
	FD uintptr
}

// Event identifies one posted-event slot. The owner of the slot sets Data to
// itself before first use so the handler can recover the originating object
// directly, without any layout-based back-reference tricks.
type Event struct {
	Data any
}

// TimerHandle identifies one armed timer. Data is for the owner's use and is
// carried back verbatim on expiration.
type TimerHandle struct {
	Data any
}

type postedEvent struct {
	event int
	hndl  *Event
}

// Dispatcher is the per-socket run loop. One worker goroutine removes posted
// events from a FIFO ring queue and delivers them under the domain; timers
// fire through the configured clock and are delivered under the same domain.
// A Dispatcher is exclusively owned by one socket and never shared.
type Dispatcher struct {
	mu      sync.Mutex
	work    *sync.Cond
	pending *queue.Queue
	timers  map[*TimerHandle]*clock.Timer
	handler Handler
	clk     clock.Clock
	closed  bool
	done    chan struct{}
}

// DispatcherOption customizes dispatcher construction.
type DispatcherOption func(*Dispatcher)

// WithClock substitutes the wall clock, letting tests drive timers with a
// mock clock.
func WithClock(clk clock.Clock) DispatcherOption {
	return func(d *Dispatcher) {
		d.clk = clk
	}
}

// NewDispatcher creates a dispatcher delivering into the given callback table
// and starts its worker goroutine.
func NewDispatcher(h Handler, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		pending: queue.New(),
		timers:  make(map[*TimerHandle]*clock.Timer),
		handler: h,
		clk:     clock.New(),
		done:    make(chan struct{}),
	}
	d.work = sync.NewCond(&d.mu)
	for _, opt := range opts {
		opt(d)
	}
	go d.run()
	return d
}

// Lock acquires the mutual-exclusion domain.
func (d *Dispatcher) Lock() {
	d.mu.Lock()
}

// Unlock releases the mutual-exclusion domain.
func (d *Dispatcher) Unlock() {
	d.mu.Unlock()
}

// Clock returns the clock the dispatcher schedules timers on.
func (d *Dispatcher) Clock() clock.Clock {
	return d.clk
}

// Post schedules delivery of hndl to the handler's OnPosted callback, tagged
// with event. Post is safe to call from any goroutine and must be called
// without holding the domain. Posts against a terminated dispatcher are
// silently dropped.
func (d *Dispatcher) Post(event int, hndl *Event) {
	d.mu.Lock()
	if !d.closed {
		d.pending.Add(postedEvent{event: event, hndl: hndl})
		d.work.Signal()
	}
	d.mu.Unlock()
}

// AddTimer arms hndl to expire after timeout. The caller must hold the
// domain; pattern code reaches this through the socket's timer facility,
// which runs inside dispatcher callbacks. Arming an already-armed handle is
// a programming error.
func (d *Dispatcher) AddTimer(timeout time.Duration, hndl *TimerHandle) {
	if _, ok := d.timers[hndl]; ok {
		panic("aio: timer handle armed twice")
	}
	d.timers[hndl] = d.clk.AfterFunc(timeout, func() {
		d.expire(hndl)
	})
}

// RemoveTimer disarms hndl. The caller must hold the domain. Removing a
// handle that is not armed, or that already expired, is a no-op.
func (d *Dispatcher) RemoveTimer(hndl *TimerHandle) {
	if t, ok := d.timers[hndl]; ok {
		t.Stop()
		delete(d.timers, hndl)
	}
}

func (d *Dispatcher) expire(hndl *TimerHandle) {
	d.mu.Lock()
	if _, ok := d.timers[hndl]; ok {
		delete(d.timers, hndl)
		if !d.closed {
			d.handler.OnTimeout(hndl)
		}
	}
	d.mu.Unlock()
}

func (d *Dispatcher) run() {
	d.mu.Lock()
	for {
		for d.pending.Length() == 0 && !d.closed {
			d.work.Wait()
		}
		if d.closed {
			break
		}
		pe := d.pending.Remove().(postedEvent)
		d.handler.OnPosted(pe.event, pe.hndl)
	}
	d.mu.Unlock()
	close(d.done)
}

// Term disarms all timers, stops the worker goroutine and waits for it to
// exit. Undelivered posted events are discarded. Term must be called exactly
// once, after the owning socket has released everything parked on the domain.
func (d *Dispatcher) Term() {
	d.mu.Lock()
	d.closed = true
	for hndl, t := range d.timers {
		t.Stop()
		delete(d.timers, hndl)
	}
	d.work.Broadcast()
	d.mu.Unlock()
	<-d.done
}
