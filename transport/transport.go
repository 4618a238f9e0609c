// Package transport specifies the boundary between the socket layer and
// concrete transports (TCP, in-process, ...). Transports live outside this
// module; the socket core consumes only the contracts defined here. A
// transport owns the I/O of its pipes, attaches and detaches them through the
// Attacher surface, and reports readiness through NotifyIn/NotifyOut rather
// than by calling into pattern logic directly.
package transport

import (
	"github.com/chayleaf/nanomsg/pattern"
)

// Attacher is the socket surface a transport drives. All methods are safe to
// call from transport goroutines.
type Attacher interface {
	// AddPipe attaches a freshly connected pipe. The bound pattern may
	// reject it; a rejected pipe must be closed by the transport.
	AddPipe(p pattern.Pipe) error

	// RemovePipe detaches a pipe after its connection is gone. Transport
	// errors on a pipe are reported this way, never through the
	// notification path.
	RemovePipe(p pattern.Pipe)

	// NotifyIn reports that p has data to read.
	NotifyIn(p pattern.Pipe)

	// NotifyOut reports that p can accept data to write.
	NotifyOut(p pattern.Pipe)
}

// Option carries what a transport needs to start serving a socket.
type Option struct {
	Sock Attacher
}

// Transport is the lifecycle contract of a concrete transport
// implementation.
type Transport interface {
	// Start begins listening or dialing and attaching pipes to the
	// socket in the option.
	Start(Option) error

	// StopRecv stops producing inbound notifications while leaving
	// established pipes writable, for drain-style shutdown.
	StopRecv() error

	// Stop detaches all pipes and releases transport resources.
	Stop() error
}

// OptionResolver resolves transport-level socket options. The socket core
// falls back to it when neither the generic layer nor the bound pattern
// recognizes an option. Return pattern.ErrOptionNotRecognized to decline.
type OptionResolver interface {
	SetOption(level, option int, value any) error
	GetOption(level, option int) (any, error)
}
