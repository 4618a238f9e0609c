package log

import (
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chayleaf/nanomsg/config"
)

// CoreLogger is the library logger: level-filtered, appender-based, with
// pooled events to keep the logging path allocation-free and optional caller
// information with a per-PC cache. Configuration can be hot-reloaded through
// the configuration manager without touching in-flight events.
type CoreLogger struct {
	appenders         []LogAppender
	minLevel          atomic.Uint32
	callerSkip        int
	eventPool         *sync.Pool
	callerCache       sync.Map
	enabledCallerInfo bool
	configMutex       sync.RWMutex
	currentConfig     *LogCfg
}

// NewLogger creates a CoreLogger from cfg; a nil cfg uses the defaults
// (console output, debug level).
func NewLogger(cfg *LogCfg) *CoreLogger {
	if cfg == nil {
		cfg = getDefaultCfg()
	}

	logger := &CoreLogger{
		callerSkip:        cfg.CallerSkip,
		enabledCallerInfo: cfg.EnabledCallerInfo,
		currentConfig:     cfg,
	}
	logger.minLevel.Store(uint32(cfg.LogLevel))

	logger.eventPool = &sync.Pool{
		New: func() any {
			return newEvent(logger)
		},
	}

	if cfg.FileAppender {
		logger.AddAppender(NewFileAppender(cfg, logger))
	}
	if cfg.ConsoleAppender {
		logger.AddAppender(NewConsoleAppender())
	}

	return logger
}

// NewLoggerWithConfigManager creates a CoreLogger that follows the "logger"
// configuration for hot reload.
func NewLoggerWithConfigManager(cfg *LogCfg, configManager config.ConfigManager) *CoreLogger {
	logger := NewLogger(cfg)
	if configManager != nil {
		configManager.AddChangeListener(logger)
	}
	return logger
}

// OnConfigChanged implements config.ConfigChangeListener for hot reload.
func (x *CoreLogger) OnConfigChanged(configName string, newConfig, _ config.Config) error {
	if configName != "logger" {
		return nil
	}
	newCfg, ok := newConfig.(*LogCfg)
	if !ok {
		return nil
	}
	x.updateConfig(newCfg)
	return nil
}

// GetConfigName implements config.ConfigChangeListener.
func (x *CoreLogger) GetConfigName() string {
	return "logger"
}

func (x *CoreLogger) updateConfig(newCfg *LogCfg) {
	x.configMutex.Lock()
	defer x.configMutex.Unlock()

	x.minLevel.Store(uint32(newCfg.LogLevel))
	x.callerSkip = newCfg.CallerSkip
	x.enabledCallerInfo = newCfg.EnabledCallerInfo
	x.currentConfig = newCfg

	x.Refresh()
}

// GetCurrentConfig returns the configuration currently in effect.
func (x *CoreLogger) GetCurrentConfig() *LogCfg {
	x.configMutex.RLock()
	defer x.configMutex.RUnlock()
	return x.currentConfig
}

func (x *CoreLogger) checkLevel(level Level) bool {
	return Level(x.minLevel.Load()) <= level
}

// AddAppender adds an output destination. Appenders are not removable;
// construct a new logger to change the set.
func (x *CoreLogger) AddAppender(appender LogAppender) {
	x.appenders = append(x.appenders, appender)
}

// GetAppender returns the registered appenders.
func (x *CoreLogger) GetAppender() []LogAppender {
	return x.appenders
}

// Refresh triggers a refresh on all appenders, e.g. after log rotation.
func (x *CoreLogger) Refresh() {
	for _, appender := range x.appenders {
		appender.Refresh()
	}
}

// IgnoreCheckLevel reports whether level filtering is bypassed. Always
// false for CoreLogger.
func (x *CoreLogger) IgnoreCheckLevel() bool {
	return false
}

func (x *CoreLogger) newEvent() *LogEvent {
	e := x.eventPool.Get().(*LogEvent)
	e.Reset()
	return e
}

// OnEventEnd writes the finalized event to every appender and returns it to
// the pool. Fatal events panic after the write.
func (x *CoreLogger) OnEventEnd(e *LogEvent) {
	for _, appender := range x.appenders {
		appender.Write(e.buf.Bytes())
	}

	if e.level == FatalLevel {
		panic("fatal log event")
	}

	x.eventPool.Put(e)
}

// Debug creates a debug-level event, or nil if filtered.
func (x *CoreLogger) Debug() *LogEvent {
	return x.log(DebugLevel)
}

// Info creates an info-level event, or nil if filtered.
func (x *CoreLogger) Info() *LogEvent {
	return x.log(InfoLevel)
}

// Warn creates a warn-level event, or nil if filtered.
func (x *CoreLogger) Warn() *LogEvent {
	return x.log(WarnLevel)
}

// Error creates an error-level event, or nil if filtered.
func (x *CoreLogger) Error() *LogEvent {
	return x.log(ErrorLevel)
}

// Fatal creates a fatal-level event; finalizing it panics.
func (x *CoreLogger) Fatal() *LogEvent {
	return x.log(FatalLevel)
}

type callerInfo struct {
	text string
}

func (c *callerInfo) String() string {
	return c.text
}

var _unknownCallerInfo = &callerInfo{text: "unknown"}

func (x *CoreLogger) getCallerInfo() *callerInfo {
	pc, file, line, ok := runtime.Caller(3 + x.callerSkip)
	if !ok {
		return _unknownCallerInfo
	}

	if cached, found := x.callerCache.Load(pc); found {
		return cached.(*callerInfo)
	}

	// Trim the file path to its final two segments.
	if lastSlash := strings.LastIndexByte(file, '/'); lastSlash > 0 {
		if secondLastSlash := strings.LastIndexByte(file[:lastSlash], '/'); secondLastSlash >= 0 {
			file = file[secondLastSlash+1:]
		}
	}

	c := &callerInfo{text: file + ":" + strconv.Itoa(line)}
	x.callerCache.Store(pc, c)
	return c
}

func (x *CoreLogger) log(level Level) *LogEvent {
	if !x.IgnoreCheckLevel() && !x.checkLevel(level) {
		return nil
	}

	e := x.newEvent()
	e.level = level

	t := time.Now()
	e.Time("time", &t)
	e.Str("level", level.String())

	if x.enabledCallerInfo {
		e.Str("caller", x.getCallerInfo().String())
	}

	return e
}
