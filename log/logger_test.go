package log

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureAppender keeps every written line in memory for assertions.
type captureAppender struct {
	mu    sync.Mutex
	lines []string
}

func (a *captureAppender) Write(line []byte) {
	a.mu.Lock()
	a.lines = append(a.lines, string(line))
	a.mu.Unlock()
}

func (a *captureAppender) Refresh() {}

func (a *captureAppender) all() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.lines...)
}

func newCaptureLogger(level Level) (*CoreLogger, *captureAppender) {
	logger := NewLogger(&LogCfg{LogLevel: level})
	app := &captureAppender{}
	logger.AddAppender(app)
	return logger, app
}

func TestLoggerEmitsStructuredLine(t *testing.T) {
	logger, app := newCaptureLogger(DebugLevel)

	logger.Info().
		Str("component", "sock").
		Int("fd", 3).
		Bool("ok", true).
		Msg("socket opened")

	lines := app.all()
	require.Len(t, lines, 1)
	line := lines[0]
	assert.True(t, strings.HasPrefix(line, "{"), "line should open a JSON object: %s", line)
	assert.True(t, strings.HasSuffix(line, "}\n"), "line should close the object: %s", line)
	assert.Contains(t, line, `"level":"info"`)
	assert.Contains(t, line, `"component":"sock"`)
	assert.Contains(t, line, `"fd":3`)
	assert.Contains(t, line, `"ok":true`)
	assert.Contains(t, line, `"msg":"socket opened"`)
	assert.Contains(t, line, `"time":"`)
}

func TestLoggerLevelFiltering(t *testing.T) {
	logger, app := newCaptureLogger(WarnLevel)

	assert.Nil(t, logger.Debug())
	assert.Nil(t, logger.Info())

	// Filtered events accept the fluent chain as no-ops.
	logger.Debug().Str("k", "v").Int("n", 1).Msg("dropped")
	logger.Warn().Msg("kept")
	logger.Error().Err(errors.New("boom")).Msg("kept too")

	lines := app.all()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"level":"warn"`)
	assert.Contains(t, lines[1], `"level":"error"`)
	assert.Contains(t, lines[1], `"error":"boom"`)
}

func TestLoggerErrNilIsNoop(t *testing.T) {
	logger, app := newCaptureLogger(DebugLevel)

	logger.Info().Err(nil).Msg("no error field")

	lines := app.all()
	require.Len(t, lines, 1)
	assert.NotContains(t, lines[0], `"error"`)
}

func TestLoggerFatalPanics(t *testing.T) {
	logger, app := newCaptureLogger(DebugLevel)

	require.Panics(t, func() {
		logger.Fatal().Msg("unrecoverable")
	})
	// The line is written before the panic.
	lines := app.all()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"level":"fatal"`)
}

func TestLoggerCallerInfo(t *testing.T) {
	logger := NewLogger(&LogCfg{LogLevel: DebugLevel, EnabledCallerInfo: true})
	app := &captureAppender{}
	logger.AddAppender(app)

	logger.Info().Msg("with caller")

	lines := app.all()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"caller":"`)
	assert.Contains(t, lines[0], "logger_test.go")
}

func TestLoggerConfigHotReload(t *testing.T) {
	logger, app := newCaptureLogger(DebugLevel)

	logger.Debug().Msg("before")
	require.Len(t, app.all(), 1)

	err := logger.OnConfigChanged("logger", &LogCfg{LogLevel: ErrorLevel}, nil)
	require.NoError(t, err)

	logger.Debug().Msg("filtered now")
	logger.Error().Msg("still emitted")

	lines := app.all()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], `"level":"error"`)

	assert.Equal(t, "logger", logger.GetConfigName())
	assert.Equal(t, ErrorLevel, logger.GetCurrentConfig().LogLevel)

	// Foreign configuration names are ignored.
	require.NoError(t, logger.OnConfigChanged("other", &LogCfg{LogLevel: DebugLevel}, nil))
	assert.Nil(t, logger.Debug())
}

func TestFileAppenderWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sock.log")
	cfg := &LogCfg{
		LogPath:      path,
		LogLevel:     DebugLevel,
		FileAppender: true,
	}
	require.NoError(t, cfg.Validate())

	logger := NewLogger(cfg)
	logger.Info().Str("k", "v").Msg("to file")
	logger.Refresh()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"to file"`)
}

func TestLogCfgValidate(t *testing.T) {
	assert.NoError(t, (&LogCfg{LogLevel: InfoLevel}).Validate())
	assert.Error(t, (&LogCfg{LogLevel: FatalLevel + 1}).Validate())
	assert.Error(t, (&LogCfg{FileAppender: true}).Validate())
	assert.Error(t, (&LogCfg{AsyncCacheSize: -1}).Validate())
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "debug", DebugLevel.String())
	assert.Equal(t, "info", InfoLevel.String())
	assert.Equal(t, "warn", WarnLevel.String())
	assert.Equal(t, "error", ErrorLevel.String())
	assert.Equal(t, "fatal", FatalLevel.String())
	assert.Equal(t, "unknown", Level(99).String())
}
