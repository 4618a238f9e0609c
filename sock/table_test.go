package sock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chayleaf/nanomsg/pattern"
)

func init() {
	pattern.Register("stub", func() pattern.Pattern { return newStubPattern() })
}

func TestOpenLookupClose(t *testing.T) {
	s, err := Open("stub")
	require.NoError(t, err)

	got, ok := Lookup(s.FD())
	require.True(t, ok)
	assert.Same(t, s, got)

	require.NoError(t, Close(s.FD()))

	_, ok = Lookup(s.FD())
	assert.False(t, ok)
	require.ErrorIs(t, Close(s.FD()), ErrBadFD)
}

func TestOpenUnknownPattern(t *testing.T) {
	_, err := Open("no-such-pattern")
	require.Error(t, err)
}

func TestOpenAllocatesDistinctDescriptors(t *testing.T) {
	s1, err := Open("stub")
	require.NoError(t, err)
	s2, err := Open("stub")
	require.NoError(t, err)

	assert.NotEqual(t, s1.FD(), s2.FD())

	require.NoError(t, Close(s1.FD()))
	require.NoError(t, Close(s2.FD()))
}
