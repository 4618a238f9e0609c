package sock

import (
	"github.com/chayleaf/nanomsg/pattern"
)

// LevelSocket addresses options handled by the generic socket layer or the
// bound pattern. Other levels belong to transports and resolve through the
// installed transport.OptionResolver.
const LevelSocket = 0

// Generic socket-level options.
const (
	// OptionSendRateLimit caps sends per second (int; 0 = unlimited).
	OptionSendRateLimit = iota + 1

	// OptionRecvRateLimit caps receives per second (int; 0 = unlimited).
	OptionRecvRateLimit

	// OptionRateBurst sets the token-bucket burst for both directions
	// (int; minimum 1).
	OptionRateBurst
)

func (s *Socket) setGenericOption(option int, value any) error {
	n, ok := value.(int)
	switch option {
	case OptionSendRateLimit:
		if !ok || n < 0 {
			return pattern.ErrBadValue
		}
		s.sendRate = n
		s.sendLim.Reload(n, s.burst)
	case OptionRecvRateLimit:
		if !ok || n < 0 {
			return pattern.ErrBadValue
		}
		s.recvRate = n
		s.recvLim.Reload(n, s.burst)
	case OptionRateBurst:
		if !ok || n < 1 {
			return pattern.ErrBadValue
		}
		s.burst = n
		s.sendLim.Reload(s.sendRate, n)
		s.recvLim.Reload(s.recvRate, n)
	default:
		return pattern.ErrOptionNotRecognized
	}
	return nil
}

func (s *Socket) getGenericOption(option int) (any, error) {
	switch option {
	case OptionSendRateLimit:
		return s.sendRate, nil
	case OptionRecvRateLimit:
		return s.recvRate, nil
	case OptionRateBurst:
		return s.burst, nil
	default:
		return nil, pattern.ErrOptionNotRecognized
	}
}
