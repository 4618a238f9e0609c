package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	addr string
}

func (t *fakeTransport) Start(Option) error { return nil }
func (t *fakeTransport) StopRecv() error    { return nil }
func (t *fakeTransport) Stop() error        { return nil }

func TestRegisterAndNew(t *testing.T) {
	Register("fake", func(addr string) (Transport, error) {
		return &fakeTransport{addr: addr}, nil
	})

	tr, err := New("fake://127.0.0.1:5555")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:5555", tr.(*fakeTransport).addr)
	assert.Contains(t, Schemes(), "fake")
}

func TestNewUnknownScheme(t *testing.T) {
	_, err := New("nope://addr")
	require.Error(t, err)
}

func TestNewMalformedAddress(t *testing.T) {
	for _, addr := range []string{"", "noscheme", "://addr", "fake:/addr", "fake"} {
		_, err := New(addr)
		assert.Error(t, err, "address %q", addr)
	}
}

func TestRegisterTwicePanics(t *testing.T) {
	f := func(string) (Transport, error) { return &fakeTransport{}, nil }
	Register("fake-dup", f)
	require.Panics(t, func() { Register("fake-dup", f) })
}

func TestRegisterNilFactoryPanics(t *testing.T) {
	require.Panics(t, func() { Register("fake-nil", nil) })
}
