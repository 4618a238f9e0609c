package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chayleaf/nanomsg/aio"
)

type fakePattern struct{}

func (fakePattern) Term()                      {}
func (fakePattern) SetOption(int, any) error   { return ErrOptionNotRecognized }
func (fakePattern) GetOption(int) (any, error) { return nil, ErrOptionNotRecognized }
func (fakePattern) Send([]byte) error          { return ErrWouldBlock }
func (fakePattern) Recv() ([]byte, error)      { return nil, ErrWouldBlock }
func (fakePattern) Add(Pipe) error             { return nil }
func (fakePattern) Remove(Pipe)                {}
func (fakePattern) In(Pipe) Readiness          { return None }
func (fakePattern) Out(Pipe) Readiness         { return None }
func (fakePattern) Timeout(*aio.TimerHandle)   {}

func TestRegisterAndNew(t *testing.T) {
	Register("fake-reg", func() Pattern { return fakePattern{} })

	p, err := New("fake-reg")
	require.NoError(t, err)
	assert.NotNil(t, p)
	assert.Contains(t, Names(), "fake-reg")
}

func TestNewUnknownPattern(t *testing.T) {
	_, err := New("no-such-pattern")
	require.Error(t, err)
}

func TestRegisterTwicePanics(t *testing.T) {
	Register("fake-dup", func() Pattern { return fakePattern{} })
	require.Panics(t, func() {
		Register("fake-dup", func() Pattern { return fakePattern{} })
	})
}

func TestRegisterNilFactoryPanics(t *testing.T) {
	require.Panics(t, func() {
		Register("fake-nil", nil)
	})
}
