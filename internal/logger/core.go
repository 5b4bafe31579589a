package logger

import (
	"go.uber.org/zap/zapcore"
)

// persistedKeys are the structured fields copied into the stored log record
var persistedKeys = map[string]bool{
	"report_type": true,
	"session_id":  true,
	"format":      true,
	"actor":       true,
	"error":       true,
}

// DBCore is a custom Zap Core that intercepts logs
type DBCore struct {
	zapcore.Core
	writer *DBLogWriter
}

// NewDBCore wraps an existing core (like console logger) and adds DB logging
func NewDBCore(baseCore zapcore.Core, writer *DBLogWriter) zapcore.Core {
	return &DBCore{
		Core:   baseCore,
		writer: writer,
	}
}

// With keeps the DB tee when child loggers add fields
func (c *DBCore) With(fields []zapcore.Field) zapcore.Core {
	return &DBCore{
		Core:   c.Core.With(fields),
		writer: c.writer,
	}
}

// Write is called for every log entry
func (c *DBCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		if persistedKeys[f.Key] {
			f.AddTo(enc)
		}
	}

	var extracted map[string]string
	if len(enc.Fields) > 0 {
		extracted = make(map[string]string, len(enc.Fields))
		for k, v := range enc.Fields {
			if s, ok := v.(string); ok {
				extracted[k] = s
			}
		}
	}

	// Function name requires zap.AddCaller()
	c.writer.AddLog(LogEntry{
		Level:   entry.Level,
		Message: entry.Message,
		Caller:  entry.Caller.Function,
		Fields:  extracted,
	})

	return c.Core.Write(entry, fields)
}

// Check decides if we should log this level
func (c *DBCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}
