// Package sock implements the socket abstraction layer of the messaging
// library: it turns a set of asynchronous transport pipes into a single
// logical socket with blocking and non-blocking send/receive, generic socket
// options and lifecycle management, while the bound pattern supplies the
// actual routing semantics.
//
// One socket owns one dispatcher (its mutual-exclusion domain), one wait
// monitor and one pattern instance. Application goroutines calling into the
// socket and dispatcher callbacks into the pattern all serialize on the
// domain; blocking callers park on the monitor with the domain released and
// retry after readiness wakes them, so the layer never busy-spins.
package sock

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/chayleaf/nanomsg/aio"
	"github.com/chayleaf/nanomsg/log"
	"github.com/chayleaf/nanomsg/metrics"
	"github.com/chayleaf/nanomsg/pattern"
	"github.com/chayleaf/nanomsg/transport"
)

// Posted-event tags distinguishing the two pipe readiness directions.
const (
	eventIn  = 1
	eventOut = 2
)

// DontWait requests immediate pattern.ErrWouldBlock instead of parking when
// a send or receive cannot complete now.
const DontWait = 1

// ErrUnknownOption reports that no layer (generic socket, bound pattern,
// transport resolver) recognizes a (level, option) pair.
var ErrUnknownOption = errors.New("sock: unknown option")

// Metric names reported through the configured metrics.Reporter.
const (
	metricSendTotal      = "sock_send_total"
	metricRecvTotal      = "sock_recv_total"
	metricWouldBlockName = "sock_would_block_total"
	metricWakeupTotal    = "sock_wakeup_total"
	metricPipes          = "sock_pipes"
)

// Socket composes a pattern, a dispatcher and a wait monitor into the public
// messaging socket. Create with New or Open, destroy with Term exactly once.
type Socket struct {
	fd       int32
	ptn      pattern.Pattern
	d        *aio.Dispatcher
	mon      *aio.Monitor
	resolver transport.OptionResolver
	reporter metrics.Reporter
	dispOpts []aio.DispatcherOption

	// Rate limiting state. The limiters swap atomically for hot reload;
	// the plain ints answering GetOption are guarded by the domain.
	sendLim  *TokenLimiter
	recvLim  *TokenLimiter
	pacer    *FunnelLimiter
	sendRate int
	recvRate int
	burst    int

	npipes int

	dims     metrics.Dimension
	sendDims metrics.Dimension
	recvDims metrics.Dimension
}

// Option customizes socket construction.
type Option func(*Socket)

// WithReporter overrides the process-default metrics reporter for this
// socket.
func WithReporter(r metrics.Reporter) Option {
	return func(s *Socket) {
		s.reporter = r
	}
}

// WithOptionResolver installs the transport-level option resolver consulted
// when neither the generic layer nor the pattern recognizes an option.
func WithOptionResolver(r transport.OptionResolver) Option {
	return func(s *Socket) {
		s.resolver = r
	}
}

// WithClock substitutes the dispatcher clock, letting tests drive pattern
// timers and timed waits with a mock.
func WithClock(clk clock.Clock) Option {
	return func(s *Socket) {
		s.dispOpts = append(s.dispOpts, aio.WithClock(clk))
	}
}

// New creates a socket bound to the given pattern instance and descriptor.
// The socket takes exclusive ownership of ptn. The descriptor is an opaque
// stable identity; use Open to have one allocated and registered in the
// library table.
func New(ptn pattern.Pattern, fd int32, opts ...Option) *Socket {
	fdStr := strconv.FormatInt(int64(fd), 10)
	s := &Socket{
		fd:       fd,
		ptn:      ptn,
		reporter: metrics.Default(),
		sendLim:  NewTokenLimiter(0, 1),
		recvLim:  NewTokenLimiter(0, 1),
		pacer:    NewFunnelLimiter(0),
		burst:    1,
		dims:     metrics.Dimension{"fd": fdStr},
		sendDims: metrics.Dimension{"fd": fdStr, "op": "send"},
		recvDims: metrics.Dimension{"fd": fdStr, "op": "recv"},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.d = aio.NewDispatcher(s, s.dispOpts...)
	s.mon = aio.NewMonitor(s.d)
	return s
}

// Term destroys the socket: the pattern's termination hook runs first, then
// the monitor is released, then the dispatcher binding — the pattern may
// still depend on both while it terminates. Term must be called exactly
// once; calling it twice, or calling any other method afterwards, is a
// caller error with undefined behavior.
func (s *Socket) Term() {
	s.d.Lock()
	s.ptn.Term()
	s.mon.Term()
	s.d.Unlock()
	s.d.Term()
	log.Debug().Int32("fd", s.fd).Msg("socket terminated")
}

// FD returns the socket's stable identity for external polling integration.
// Immutable after construction, so no locking.
func (s *Socket) FD() int32 {
	return s.fd
}

// SetOption sets a socket option. Options addressed to LevelSocket are
// offered to the generic layer first and then to the bound pattern; any
// level may finally fall back to the transport resolver. Only
// pattern.ErrOptionNotRecognized moves resolution to the next layer — a
// recognized option with a rejected value fails immediately with
// pattern.ErrBadValue.
func (s *Socket) SetOption(level, option int, value any) error {
	s.d.Lock()
	defer s.d.Unlock()

	if level == LevelSocket {
		if err := s.setGenericOption(option, value); !errors.Is(err, pattern.ErrOptionNotRecognized) {
			return err
		}
		if err := s.ptn.SetOption(option, value); !errors.Is(err, pattern.ErrOptionNotRecognized) {
			return err
		}
	}
	if s.resolver != nil {
		if err := s.resolver.SetOption(level, option, value); !errors.Is(err, pattern.ErrOptionNotRecognized) {
			return err
		}
	}
	return ErrUnknownOption
}

// GetOption reads a socket option, resolving through the same layers as
// SetOption.
func (s *Socket) GetOption(level, option int) (any, error) {
	s.d.Lock()
	defer s.d.Unlock()

	if level == LevelSocket {
		if v, err := s.getGenericOption(option); !errors.Is(err, pattern.ErrOptionNotRecognized) {
			return v, err
		}
		if v, err := s.ptn.GetOption(option); !errors.Is(err, pattern.ErrOptionNotRecognized) {
			return v, err
		}
	}
	if s.resolver != nil {
		if v, err := s.resolver.GetOption(level, option); !errors.Is(err, pattern.ErrOptionNotRecognized) {
			return v, err
		}
	}
	return nil, ErrUnknownOption
}

// Send delivers buf through the bound pattern. Without DontWait the call
// blocks until the pattern accepts the message; every retry is gated by a
// readiness wake-up from the dispatcher. With DontWait a send that cannot
// complete now fails with pattern.ErrWouldBlock. Any pattern error other
// than would-block is returned unchanged and never retried.
func (s *Socket) Send(buf []byte, flags int) error {
	s.d.Lock()
	defer s.d.Unlock()

	if err := s.throttle(s.sendLim, flags); err != nil {
		s.reporter.IncCounter(metricWouldBlockName, 1, s.sendDims)
		return err
	}

	for {
		err := s.ptn.Send(buf)
		if err == nil {
			s.reporter.IncCounter(metricSendTotal, 1, s.dims)
			return nil
		}
		if !errors.Is(err, pattern.ErrWouldBlock) {
			return err
		}
		if flags&DontWait != 0 {
			s.reporter.IncCounter(metricWouldBlockName, 1, s.sendDims)
			return pattern.ErrWouldBlock
		}
		_ = s.mon.Wait(-1)
	}
}

// Recv returns the next message from the bound pattern, with blocking
// semantics symmetric to Send.
func (s *Socket) Recv(flags int) ([]byte, error) {
	s.d.Lock()
	defer s.d.Unlock()

	if err := s.throttle(s.recvLim, flags); err != nil {
		s.reporter.IncCounter(metricWouldBlockName, 1, s.recvDims)
		return nil, err
	}

	for {
		buf, err := s.ptn.Recv()
		if err == nil {
			s.reporter.IncCounter(metricRecvTotal, 1, s.dims)
			return buf, nil
		}
		if !errors.Is(err, pattern.ErrWouldBlock) {
			return nil, err
		}
		if flags&DontWait != 0 {
			s.reporter.IncCounter(metricWouldBlockName, 1, s.recvDims)
			return nil, pattern.ErrWouldBlock
		}
		_ = s.mon.Wait(-1)
	}
}

// throttle applies the socket-level rate limit before the pattern attempt.
// A throttled blocking caller parks on the monitor for the reservation
// delay, so a readiness wake-up arriving earlier still gets a prompt retry.
func (s *Socket) throttle(tl *TokenLimiter, flags int) error {
	lim := tl.Get()
	if lim == nil {
		return nil
	}
	res := lim.Reserve()
	if !res.OK() {
		return pattern.ErrWouldBlock
	}
	delay := res.Delay()
	if delay == 0 {
		return nil
	}
	if flags&DontWait != 0 {
		res.Cancel()
		return pattern.ErrWouldBlock
	}
	_ = s.mon.Wait(delay)
	return nil
}

// AddPipe offers a newly attached pipe to the bound pattern and returns the
// pattern's acceptance decision unchanged.
func (s *Socket) AddPipe(p pattern.Pipe) error {
	s.d.Lock()
	defer s.d.Unlock()

	if err := s.ptn.Add(p); err != nil {
		return err
	}
	s.npipes++
	s.reporter.SetGauge(metricPipes, metrics.Value(s.npipes), s.dims)
	return nil
}

// RemovePipe detaches a pipe from the bound pattern's membership.
func (s *Socket) RemovePipe(p pattern.Pipe) {
	s.d.Lock()
	defer s.d.Unlock()

	s.ptn.Remove(p)
	s.npipes--
	s.reporter.SetGauge(metricPipes, metrics.Value(s.npipes), s.dims)
}

// NotifyIn reports that p became readable. Delivery happens on the
// dispatcher's own scheduling; no pattern logic runs synchronously here.
// Safe to call from any transport goroutine.
func (s *Socket) NotifyIn(p pattern.Pipe) {
	s.pacer.Take()
	s.d.Post(eventIn, p.InEvent())
}

// NotifyOut reports that p became writable, symmetric to NotifyIn.
func (s *Socket) NotifyOut(p pattern.Pipe) {
	s.pacer.Take()
	s.d.Post(eventOut, p.OutEvent())
}

// AddTimer arms a pattern timer on the socket's dispatcher. For pattern
// code only: the caller must hold the domain, which pattern hooks always
// do.
func (s *Socket) AddTimer(timeout time.Duration, hndl *aio.TimerHandle) {
	s.d.AddTimer(timeout, hndl)
}

// RemoveTimer disarms a pattern timer. Same calling contract as AddTimer.
func (s *Socket) RemoveTimer(hndl *aio.TimerHandle) {
	s.d.RemoveTimer(hndl)
}

// OnPosted is the dispatcher's posted-event callback; not for application
// use. It forwards the pipe notification to the pattern and wakes parked
// senders/receivers when the pattern reports changed readiness. The hooks
// must not fail, so any impossible result aborts.
func (s *Socket) OnPosted(event int, hndl *aio.Event) {
	p, ok := hndl.Data.(pattern.Pipe)
	if !ok {
		panic("sock: posted event not bound to a pipe")
	}

	var r pattern.Readiness
	switch event {
	case eventIn:
		r = s.ptn.In(p)
	case eventOut:
		r = s.ptn.Out(p)
	default:
		panic(fmt.Sprintf("sock: unexpected posted event %d", event))
	}

	switch r {
	case pattern.None:
	case pattern.Changed:
		s.mon.Post()
		s.reporter.IncCounter(metricWakeupTotal, 1, s.dims)
	default:
		panic(fmt.Sprintf("sock: pattern returned impossible readiness %d", r))
	}
}

// OnTimeout is the dispatcher's timer callback; not for application use.
// Forwarded verbatim to the pattern that armed the timer.
func (s *Socket) OnTimeout(hndl *aio.TimerHandle) {
	s.ptn.Timeout(hndl)
}

// OnIO is the dispatcher's raw I/O callback. The socket layer registers no
// file-descriptor interest of its own, so this path is unreachable;
// reaching it means a transport or dispatcher bug and the monitor
// invariants can no longer be trusted.
func (s *Socket) OnIO(int, *aio.IOHandle) {
	panic("sock: raw i/o callback is unreachable")
}
