package log

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/chayleaf/nanomsg/config"
)

// LogAppender outputs finalized log lines to one destination. Write receives
// the encoded line; the slice is only valid for the duration of the call, so
// appenders that defer the write must copy it.
type LogAppender interface {
	Write(line []byte)
	Refresh()
}

// ConsoleAppender writes log lines to standard output.
type ConsoleAppender struct {
	mu sync.Mutex
}

// NewConsoleAppender creates a console appender.
func NewConsoleAppender() *ConsoleAppender {
	return &ConsoleAppender{}
}

func (a *ConsoleAppender) Write(line []byte) {
	a.mu.Lock()
	_, _ = os.Stdout.Write(line)
	a.mu.Unlock()
}

func (a *ConsoleAppender) Refresh() {}

// FileAppender writes log lines to a file with size-based rotation and an
// optional asynchronous write path for latency-sensitive callers.
type FileAppender struct {
	mu      sync.Mutex
	logger  Logger
	path    string
	splitMB int
	file    *os.File
	written int64
	ch      chan []byte
}

// NewFileAppender creates a file appender from the given configuration. The
// file is opened lazily on first write so a logger can be constructed before
// its log directory exists.
func NewFileAppender(cfg *LogCfg, logger Logger) *FileAppender {
	a := &FileAppender{
		logger:  logger,
		path:    cfg.LogPath,
		splitMB: cfg.FileSplitMB,
	}
	if cfg.IsAsync {
		size := cfg.AsyncCacheSize
		if size <= 0 {
			size = 1024
		}
		a.ch = make(chan []byte, size)
		go a.drain()
	}
	return a
}

// NewFileAppenderWithConfigManager creates a file appender whose path and
// rotation settings follow the "logger" configuration, and registers it for
// hot reload.
func NewFileAppenderWithConfigManager(cm config.ConfigManager, logger Logger) *FileAppender {
	cfg := &LogCfg{}
	if loaded, err := cm.GetConfig("logger"); err == nil {
		if logCfg, ok := loaded.(*LogCfg); ok {
			cfg = logCfg
		}
	}
	a := NewFileAppender(cfg, logger)
	cm.AddChangeListener(a)
	return a
}

// OnConfigChanged implements config.ConfigChangeListener: it adopts the new
// path and rotation threshold and reopens the file on next write.
func (a *FileAppender) OnConfigChanged(configName string, newConfig, _ config.Config) error {
	if configName != "logger" {
		return nil
	}
	cfg, ok := newConfig.(*LogCfg)
	if !ok {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.path = cfg.LogPath
	a.splitMB = cfg.FileSplitMB
	a.closeLocked()
	return nil
}

// GetConfigName implements config.ConfigChangeListener.
func (a *FileAppender) GetConfigName() string {
	return "logger"
}

func (a *FileAppender) Write(line []byte) {
	if a.ch != nil {
		// The event buffer is pooled; the async path keeps the line
		// past this call and needs its own copy.
		buf := make([]byte, len(line))
		copy(buf, line)
		select {
		case a.ch <- buf:
		default:
			// Cache full: fall back to a synchronous write rather
			// than lose the line.
			a.write(buf)
		}
		return
	}
	a.write(line)
}

func (a *FileAppender) drain() {
	for line := range a.ch {
		a.write(line)
	}
}

func (a *FileAppender) write(line []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.file == nil {
		if err := a.openLocked(); err != nil {
			fmt.Fprintf(os.Stderr, "log: open %s: %v\n", a.path, err)
			return
		}
	}
	n, err := a.file.Write(line)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log: write %s: %v\n", a.path, err)
		return
	}
	a.written += int64(n)
	if a.splitMB > 0 && a.written >= int64(a.splitMB)<<20 {
		a.rotateLocked()
	}
}

// Refresh closes the current file so the next write reopens it. Used after
// external rotation or configuration changes.
func (a *FileAppender) Refresh() {
	a.mu.Lock()
	a.closeLocked()
	a.mu.Unlock()
}

func (a *FileAppender) openLocked() error {
	f, err := os.OpenFile(a.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	a.file = f
	if st, err := f.Stat(); err == nil {
		a.written = st.Size()
	} else {
		a.written = 0
	}
	return nil
}

func (a *FileAppender) closeLocked() {
	if a.file != nil {
		_ = a.file.Close()
		a.file = nil
		a.written = 0
	}
}

func (a *FileAppender) rotateLocked() {
	a.closeLocked()
	rotated := fmt.Sprintf("%s.%s", a.path, time.Now().Format("20060102-150405"))
	if err := os.Rename(a.path, rotated); err != nil {
		fmt.Fprintf(os.Stderr, "log: rotate %s: %v\n", a.path, err)
	}
}
