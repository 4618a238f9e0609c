package sock

import (
	"sync/atomic"

	"go.uber.org/ratelimit"
	"golang.org/x/time/rate"
)

// TokenLimiter is a token-bucket rate limiter for the send and receive
// paths. The limiter pointer is swapped atomically so configuration can be
// reloaded at runtime without a restart; a zero limit disables limiting.
type TokenLimiter struct {
	limiter atomic.Pointer[rate.Limiter]
}

// NewTokenLimiter creates a token-bucket limiter allowing limit operations
// per second with the given burst. limit <= 0 means unlimited.
func NewTokenLimiter(limit, burst int) *TokenLimiter {
	l := &TokenLimiter{}
	l.Reload(limit, burst)
	return l
}

// Reload replaces the limiter configuration at runtime.
func (l *TokenLimiter) Reload(limit, burst int) {
	if limit <= 0 {
		l.limiter.Store(nil)
		return
	}
	if burst <= 0 {
		burst = 1
	}
	l.limiter.Store(rate.NewLimiter(rate.Limit(limit), burst))
}

// Get returns the current limiter, or nil when unlimited.
func (l *TokenLimiter) Get() *rate.Limiter {
	return l.limiter.Load()
}

// FunnelLimiter is a leaky-bucket pacer built on Uber's ratelimit package,
// used to smooth the rate of readiness notifications flowing in from
// transports. Unlike TokenLimiter it admits no bursts: Take blocks the
// calling transport goroutine until the next slot.
type FunnelLimiter struct {
	limiter atomic.Pointer[ratelimit.Limiter]
}

// NewFunnelLimiter creates a leaky-bucket pacer allowing limit operations
// per second. limit <= 0 means no pacing.
func NewFunnelLimiter(limit int) *FunnelLimiter {
	l := &FunnelLimiter{}
	l.Reload(limit)
	return l
}

// Reload replaces the pacer configuration at runtime.
func (l *FunnelLimiter) Reload(limit int) {
	if limit <= 0 {
		l.limiter.Store(nil)
		return
	}
	limiter := ratelimit.New(limit)
	l.limiter.Store(&limiter)
}

// Take blocks until the pacer admits the next operation. A nil pacer admits
// immediately.
func (l *FunnelLimiter) Take() {
	if p := l.limiter.Load(); p != nil {
		_ = (*p).Take()
	}
}
