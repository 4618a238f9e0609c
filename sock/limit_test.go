package sock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenLimiterUnlimitedByDefault(t *testing.T) {
	l := NewTokenLimiter(0, 1)
	assert.Nil(t, l.Get())
}

func TestTokenLimiterEnforcesBurst(t *testing.T) {
	l := NewTokenLimiter(1, 2)
	lim := l.Get()
	require.NotNil(t, lim)

	assert.True(t, lim.Allow())
	assert.True(t, lim.Allow())
	assert.False(t, lim.Allow())
}

func TestTokenLimiterReload(t *testing.T) {
	l := NewTokenLimiter(1, 1)
	require.NotNil(t, l.Get())

	l.Reload(0, 1)
	assert.Nil(t, l.Get())

	l.Reload(100, 0) // burst floors at 1
	lim := l.Get()
	require.NotNil(t, lim)
	assert.Equal(t, 1, lim.Burst())
}

func TestFunnelLimiterNoPacingByDefault(t *testing.T) {
	l := NewFunnelLimiter(0)

	start := time.Now()
	for i := 0; i < 1000; i++ {
		l.Take()
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestFunnelLimiterPacesTakes(t *testing.T) {
	l := NewFunnelLimiter(100)

	start := time.Now()
	for i := 0; i < 5; i++ {
		l.Take()
	}
	// 100/s leaky bucket spaces takes 10ms apart.
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)

	l.Reload(0)
	start = time.Now()
	for i := 0; i < 100; i++ {
		l.Take()
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}
