package sock

import (
	"errors"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/chayleaf/nanomsg/log"
	"github.com/chayleaf/nanomsg/pattern"
)

// ErrBadFD reports that no socket is registered under a descriptor.
var ErrBadFD = errors.New("sock: no socket for descriptor")

var (
	_sockets = xsync.NewMapOf[int32, *Socket]()
	_nextFD  atomic.Int32
)

// Open constructs a socket running the named registered pattern, allocates
// it a descriptor and registers it in the library table for fd-addressed
// use. Close releases it.
func Open(patternName string, opts ...Option) (*Socket, error) {
	ptn, err := pattern.New(patternName)
	if err != nil {
		return nil, err
	}

	fd := _nextFD.Add(1)
	s := New(ptn, fd, opts...)
	_sockets.Store(fd, s)

	log.Debug().Int32("fd", fd).Str("pattern", patternName).Msg("socket opened")
	return s, nil
}

// Lookup resolves a descriptor allocated by Open.
func Lookup(fd int32) (*Socket, bool) {
	return _sockets.Load(fd)
}

// Close unregisters and terminates the socket allocated under fd. The
// descriptor is not reused.
func Close(fd int32) error {
	s, ok := _sockets.LoadAndDelete(fd)
	if !ok {
		return ErrBadFD
	}
	s.Term()
	return nil
}
