package log

import (
	"bytes"
	"strconv"
	"time"
)

// LogEvent accumulates one structured log line. Events are pooled by their
// logger; a nil *LogEvent (returned when the level is filtered out) accepts
// all field calls as no-ops, so call sites never need a level guard.
//
// An event is finalized by Msg; after that the event must not be touched by
// the caller.
type LogEvent struct {
	buf    bytes.Buffer
	logger Logger
	level  Level
}

func newEvent(l Logger) *LogEvent {
	return &LogEvent{logger: l}
}

// Reset clears the event for reuse from the pool.
func (e *LogEvent) Reset() {
	e.buf.Reset()
	e.level = DebugLevel
}

func (e *LogEvent) appendKey(key string) {
	if e.buf.Len() == 0 {
		e.buf.WriteByte('{')
	} else {
		e.buf.WriteByte(',')
	}
	e.buf.WriteByte('"')
	e.buf.WriteString(key)
	e.buf.WriteString(`":`)
}

// Str adds a string field.
func (e *LogEvent) Str(key, val string) *LogEvent {
	if e == nil {
		return e
	}
	e.appendKey(key)
	e.buf.WriteString(strconv.Quote(val))
	return e
}

// Int adds an int field.
func (e *LogEvent) Int(key string, val int) *LogEvent {
	if e == nil {
		return e
	}
	e.appendKey(key)
	e.buf.WriteString(strconv.FormatInt(int64(val), 10))
	return e
}

// Int32 adds an int32 field.
func (e *LogEvent) Int32(key string, val int32) *LogEvent {
	if e == nil {
		return e
	}
	e.appendKey(key)
	e.buf.WriteString(strconv.FormatInt(int64(val), 10))
	return e
}

// Int64 adds an int64 field.
func (e *LogEvent) Int64(key string, val int64) *LogEvent {
	if e == nil {
		return e
	}
	e.appendKey(key)
	e.buf.WriteString(strconv.FormatInt(val, 10))
	return e
}

// Uint64 adds a uint64 field.
func (e *LogEvent) Uint64(key string, val uint64) *LogEvent {
	if e == nil {
		return e
	}
	e.appendKey(key)
	e.buf.WriteString(strconv.FormatUint(val, 10))
	return e
}

// Float64 adds a float64 field.
func (e *LogEvent) Float64(key string, val float64) *LogEvent {
	if e == nil {
		return e
	}
	e.appendKey(key)
	e.buf.WriteString(strconv.FormatFloat(val, 'f', -1, 64))
	return e
}

// Bool adds a bool field.
func (e *LogEvent) Bool(key string, val bool) *LogEvent {
	if e == nil {
		return e
	}
	e.appendKey(key)
	e.buf.WriteString(strconv.FormatBool(val))
	return e
}

// Err adds an "error" field. A nil error adds nothing.
func (e *LogEvent) Err(err error) *LogEvent {
	if e == nil || err == nil {
		return e
	}
	return e.Str("error", err.Error())
}

// Time adds a timestamp field in RFC3339 format with millisecond precision.
func (e *LogEvent) Time(key string, t *time.Time) *LogEvent {
	if e == nil {
		return e
	}
	e.appendKey(key)
	e.buf.WriteByte('"')
	e.buf.WriteString(t.Format("2006-01-02T15:04:05.000Z07:00"))
	e.buf.WriteByte('"')
	return e
}

// Msg finalizes the event with a message and hands it to the logger's
// appenders. Msg must be the last call on the event.
func (e *LogEvent) Msg(msg string) {
	if e == nil {
		return
	}
	e.appendKey("msg")
	e.buf.WriteString(strconv.Quote(msg))
	e.buf.WriteString("}\n")
	e.logger.OnEventEnd(e)
}
