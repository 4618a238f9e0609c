package sock

import (
	"errors"
	"fmt"

	"github.com/chayleaf/nanomsg/config"
	"github.com/chayleaf/nanomsg/log"
)

// SocketConfig carries the file-configurable socket defaults: send/receive
// rate limits and notification ingress pacing. All fields support hot
// reloading through the configuration manager.
type SocketConfig struct {
	SendRateLimit int `mapstructure:"sendRateLimit"`
	RecvRateLimit int `mapstructure:"recvRateLimit"`
	RateBurst     int `mapstructure:"rateBurst"`
	IngressPace   int `mapstructure:"ingressPace"`
}

// GetName returns the configuration name for SocketConfig
func (c *SocketConfig) GetName() string {
	return "socket"
}

// Validate validates the SocketConfig parameters
func (c *SocketConfig) Validate() error {
	if c.SendRateLimit < 0 || c.RecvRateLimit < 0 || c.IngressPace < 0 {
		return fmt.Errorf("rate limits cannot be negative")
	}
	if c.RateBurst < 0 {
		return fmt.Errorf("RateBurst cannot be negative")
	}
	if c.SendRateLimit > 1000000 || c.RecvRateLimit > 1000000 {
		return fmt.Errorf("rate limits cannot exceed 1,000,000 per second")
	}
	return nil
}

// NewSocketWithConfigManager opens a socket for the named pattern with its
// rate limiting configured from the "socket" configuration, and registers
// the socket for configuration hot reload.
func NewSocketWithConfigManager(configManager config.ConfigManager, patternName string, opts ...Option) (*Socket, error) {
	if configManager == nil {
		return nil, errors.New("configManager cannot be nil")
	}

	cfg := &SocketConfig{}
	if err := configManager.LoadConfig("socket", cfg); err != nil {
		return nil, fmt.Errorf("failed to load socket config: %w", err)
	}

	s, err := Open(patternName, opts...)
	if err != nil {
		return nil, err
	}

	s.d.Lock()
	s.applyConfig(cfg)
	s.d.Unlock()

	configManager.AddChangeListener(s)
	return s, nil
}

// OnConfigChanged implements config.ConfigChangeListener: the socket adopts
// new rate limiting settings without disturbing in-flight operations.
func (s *Socket) OnConfigChanged(configName string, newConfig, _ config.Config) error {
	if configName != "socket" {
		return nil
	}

	newCfg, ok := newConfig.(*SocketConfig)
	if !ok {
		return fmt.Errorf("invalid configuration type for Socket")
	}
	if err := newCfg.Validate(); err != nil {
		return fmt.Errorf("invalid socket configuration: %w", err)
	}

	s.d.Lock()
	s.applyConfig(newCfg)
	s.d.Unlock()

	log.Info().Str("configName", configName).Int32("fd", s.fd).Msg("socket configuration updated")
	return nil
}

// GetConfigName implements config.ConfigChangeListener.
func (s *Socket) GetConfigName() string {
	return "socket"
}

// applyConfig installs cfg. Caller must hold the domain.
func (s *Socket) applyConfig(cfg *SocketConfig) {
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}
	s.sendRate = cfg.SendRateLimit
	s.recvRate = cfg.RecvRateLimit
	s.burst = burst
	s.sendLim.Reload(cfg.SendRateLimit, burst)
	s.recvLim.Reload(cfg.RecvRateLimit, burst)
	s.pacer.Reload(cfg.IngressPace)
}
