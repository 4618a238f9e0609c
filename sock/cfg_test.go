package sock

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chayleaf/nanomsg/config"
	"github.com/chayleaf/nanomsg/pattern"
)

func TestSocketConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     SocketConfig
		wantErr bool
	}{
		{"zero value", SocketConfig{}, false},
		{"all set", SocketConfig{SendRateLimit: 100, RecvRateLimit: 200, RateBurst: 10, IngressPace: 50}, false},
		{"negative send", SocketConfig{SendRateLimit: -1}, true},
		{"negative recv", SocketConfig{RecvRateLimit: -1}, true},
		{"negative burst", SocketConfig{RateBurst: -1}, true},
		{"negative pace", SocketConfig{IngressPace: -1}, true},
		{"send over cap", SocketConfig{SendRateLimit: 1000001}, true},
		{"recv over cap", SocketConfig{RecvRateLimit: 1000001}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSocketConfigName(t *testing.T) {
	cfg := &SocketConfig{}
	assert.Equal(t, "socket", cfg.GetName())
}

func writeSocketConfig(t *testing.T, dir, body string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, "socket.yaml"), []byte(body), 0644)
	require.NoError(t, err)
}

func TestNewSocketWithConfigManager(t *testing.T) {
	dir := t.TempDir()
	writeSocketConfig(t, dir, "sendRateLimit: 100\nrecvRateLimit: 200\nrateBurst: 5\ningressPace: 0\n")

	cm := config.NewConfigManager()
	cm.SetBasePath(dir)
	defer cm.Close()

	s, err := NewSocketWithConfigManager(cm, "stub")
	require.NoError(t, err)
	defer Close(s.FD())

	v, err := s.GetOption(LevelSocket, OptionSendRateLimit)
	require.NoError(t, err)
	assert.Equal(t, 100, v)
	v, err = s.GetOption(LevelSocket, OptionRecvRateLimit)
	require.NoError(t, err)
	assert.Equal(t, 200, v)
	v, err = s.GetOption(LevelSocket, OptionRateBurst)
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestNewSocketWithConfigManagerNilManager(t *testing.T) {
	_, err := NewSocketWithConfigManager(nil, "stub")
	require.Error(t, err)
}

func TestNewSocketWithConfigManagerMissingFile(t *testing.T) {
	cm := config.NewConfigManager()
	cm.SetBasePath(t.TempDir())
	defer cm.Close()

	_, err := NewSocketWithConfigManager(cm, "stub")
	require.Error(t, err)
}

func TestNewSocketWithConfigManagerInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeSocketConfig(t, dir, "sendRateLimit: -5\n")

	cm := config.NewConfigManager()
	cm.SetBasePath(dir)
	defer cm.Close()

	_, err := NewSocketWithConfigManager(cm, "stub")
	require.Error(t, err)
}

func TestSocketOnConfigChanged(t *testing.T) {
	ptn := newStubPattern()
	s := newTestSocket(t, ptn)

	newCfg := &SocketConfig{SendRateLimit: 42, RecvRateLimit: 7, RateBurst: 3}
	require.NoError(t, s.OnConfigChanged("socket", newCfg, nil))

	v, err := s.GetOption(LevelSocket, OptionSendRateLimit)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	v, err = s.GetOption(LevelSocket, OptionRecvRateLimit)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	v, err = s.GetOption(LevelSocket, OptionRateBurst)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	// Foreign configuration names are ignored.
	before, err := s.GetOption(LevelSocket, OptionSendRateLimit)
	require.NoError(t, err)
	require.NoError(t, s.OnConfigChanged("other", newCfg, nil))
	after, err := s.GetOption(LevelSocket, OptionSendRateLimit)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// Wrong payload type and invalid values are rejected.
	assert.Error(t, s.OnConfigChanged("socket", badConfig{}, nil))
	assert.Error(t, s.OnConfigChanged("socket", &SocketConfig{SendRateLimit: -1}, nil))

	assert.Equal(t, "socket", s.GetConfigName())
}

type badConfig struct{}

func (badConfig) GetName() string { return "socket" }
func (badConfig) Validate() error { return nil }

var _ config.Config = badConfig{}
var _ pattern.Pattern = (*stubPattern)(nil)
