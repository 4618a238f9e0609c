// Package pattern defines the contract between a socket and the messaging
// pattern bound to it. A pattern supplies the non-blocking send/receive,
// option, pipe-membership and event-notification logic for one messaging
// style (publish/subscribe, request/reply, pipeline, ...); the socket core
// supplies blocking semantics, locking and dispatcher plumbing on top.
//
// Every hook executes while the owning socket's mutual-exclusion domain is
// held. Hooks must not block and must not re-enter the socket's public API;
// doing either is a programming error with undefined behavior.
package pattern

import (
	"github.com/chayleaf/nanomsg/aio"
)

// Readiness is the result of a pipe notification hook.
type Readiness int

const (
	// None means the notification changed nothing a blocked caller could
	// act on.
	None Readiness = iota

	// Changed means a previously failing send or receive may now succeed
	// and blocked callers should re-attempt.
	Changed
)

// Pattern is the capability set a messaging pattern implements. A pattern
// instance is exclusively owned by the socket it is bound to and keeps its
// pipe membership and queueing state private; the socket never inspects it.
type Pattern interface {
	// Term releases pattern-specific state. Called first during socket
	// termination, while the monitor and dispatcher binding still exist.
	Term()

	// SetOption sets a pattern-level option. Return
	// ErrOptionNotRecognized for options the pattern does not know; that
	// is the only result that lets the socket fall back to other layers.
	// Return ErrBadValue for a recognized option with a rejected value.
	SetOption(option int, value any) error

	// GetOption reads a pattern-level option, with the same recognition
	// contract as SetOption.
	GetOption(option int) (any, error)

	// Send attempts a non-blocking send. Return ErrWouldBlock when the
	// message cannot be accepted right now; any other error is forwarded
	// to the caller unchanged and never retried.
	Send(buf []byte) error

	// Recv attempts a non-blocking receive, symmetric to Send.
	Recv() ([]byte, error)

	// Add offers a newly attached pipe. Return ErrPipeRejected (or a
	// wrapping of it) to refuse a pipe incompatible with the pattern's
	// membership rules.
	Add(p Pipe) error

	// Remove detaches a pipe from the pattern's membership. Removal never
	// fails; transport errors are reported through removal, not through
	// the notification hooks.
	Remove(p Pipe)

	// In processes "pipe became readable". Must not fail.
	In(p Pipe) Readiness

	// Out processes "pipe became writable". Must not fail.
	Out(p Pipe) Readiness

	// Timeout processes the expiration of a timer the pattern registered
	// through the socket's timer facility.
	Timeout(hndl *aio.TimerHandle)
}
