// Package config provides file-backed configuration with validation and hot
// reload for the messaging library. Components describe their settings as
// structs implementing Config, load them through a ConfigManager, and
// register as change listeners to pick up edits to the underlying files
// without a restart.
package config

// Config interface defines the basic configuration contract
type Config interface {
	GetName() string
	Validate() error
}

// ConfigChangeListener is implemented by components that want to be told
// when a named configuration is reloaded. OnConfigChanged runs on the
// watcher goroutine; implementations must be safe for that.
type ConfigChangeListener interface {
	// OnConfigChanged is invoked with the configuration name and the new
	// and old values after a successful reload and validation.
	OnConfigChanged(configName string, newConfig, oldConfig Config) error

	// GetConfigName returns the configuration name the listener is
	// interested in.
	GetConfigName() string
}
