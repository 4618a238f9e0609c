package pattern

import (
	"github.com/chayleaf/nanomsg/aio"
)

// Pipe represents one connected transport endpoint attached to a socket.
// Ownership is shared: the transport layer drives its I/O, the bound pattern
// tracks it in membership structures. The socket core touches neither side;
// it only forwards readable/writable notifications by event identity.
type Pipe interface {
	// InEvent returns the dispatcher event identity tagging "this pipe
	// became readable". Stable for the pipe's lifetime.
	InEvent() *aio.Event

	// OutEvent returns the dispatcher event identity tagging "this pipe
	// became writable". Stable for the pipe's lifetime.
	OutEvent() *aio.Event
}

// PipeBase supplies the two event identities a Pipe needs. Transports embed
// it and call Init with the outer value before attaching the pipe to a
// socket, so dispatcher callbacks can recover the pipe from either event
// without any knowledge of the transport's layout.
type PipeBase struct {
	in  aio.Event
	out aio.Event
}

// Init binds both event identities back to self. Must be called once,
// before the pipe is attached.
func (p *PipeBase) Init(self Pipe) {
	p.in.Data = self
	p.out.Data = self
}

func (p *PipeBase) InEvent() *aio.Event {
	return &p.in
}

func (p *PipeBase) OutEvent() *aio.Event {
	return &p.out
}
