package log

import "fmt"

// LogCfg configures the library logger: level filtering, output
// destinations and the asynchronous file-write path. All fields support hot
// reload through the configuration manager.
type LogCfg struct {
	// LogPath is the target file for the file appender. Relative and
	// absolute paths are accepted.
	LogPath string `mapstructure:"path"`

	// LogLevel is the minimum level that will be emitted.
	LogLevel Level `mapstructure:"level"`

	// FileSplitMB rotates the log file once it exceeds this many
	// megabytes. Zero disables size-based rotation.
	FileSplitMB int `mapstructure:"splitmb"`

	// IsAsync moves file writes off the logging call path. Recommended
	// for latency-sensitive processes.
	IsAsync bool `mapstructure:"isasync"`

	// AsyncCacheSize bounds the buffered lines in async mode.
	AsyncCacheSize int `mapstructure:"asynccachesize"`

	// CallerSkip adjusts stack-frame skipping for wrapper layers.
	CallerSkip int `mapstructure:"callerSkip"`

	// FileAppender enables file output.
	FileAppender bool `mapstructure:"fileAppender"`

	// ConsoleAppender enables stdout output.
	ConsoleAppender bool `mapstructure:"consoleAppender"`

	// EnabledCallerInfo adds file/function/line to every event.
	EnabledCallerInfo bool `mapstructure:"enabledCallerInfo"`
}

// GetName returns the configuration name for LogCfg
func (cfg *LogCfg) GetName() string {
	return "logger"
}

// Validate validates the LogCfg parameters
func (cfg *LogCfg) Validate() error {
	if cfg.LogLevel > FatalLevel {
		return fmt.Errorf("log level %d out of range", cfg.LogLevel)
	}
	if cfg.FileAppender && cfg.LogPath == "" {
		return fmt.Errorf("file appender enabled without a path")
	}
	if cfg.AsyncCacheSize < 0 {
		return fmt.Errorf("AsyncCacheSize cannot be negative")
	}
	return nil
}

var _defaultCfg = &LogCfg{
	LogPath:         "./sock.log",
	LogLevel:        DebugLevel,
	FileSplitMB:     50,
	IsAsync:         true,
	CallerSkip:      1,
	ConsoleAppender: true,
}

func getDefaultCfg() *LogCfg {
	return _defaultCfg
}
