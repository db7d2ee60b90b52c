// Package gateyzap forwards zap log entries to Gatey as events. Attach
// the core with zapcore.NewTee so entries at or above the configured
// level are captured in addition to the normal log output.
package gateyzap

import (
	"fmt"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/florgon/gatey-sdk-go/pkg/gatey"
)

// Config controls which entries are forwarded and how.
type Config struct {
	// Level is the minimum entry level that gets captured
	// (default zapcore.ErrorLevel).
	Level zapcore.Level

	// Tags are attached to every captured event.
	Tags map[string]string

	// FlushTimeout bounds the client flush performed by Sync
	// (default 2s).
	FlushTimeout time.Duration
}

// NewCore creates a zapcore.Core that captures matching entries
// through the client. Combine with an existing core:
//
//	logger := zap.New(zapcore.NewTee(existingCore, gateyzap.NewCore(cfg, client)))
func NewCore(cfg Config, client *gatey.Client) zapcore.Core {
	flushTimeout := cfg.FlushTimeout
	if flushTimeout <= 0 {
		flushTimeout = 2 * time.Second
	}
	return &core{
		LevelEnabler: cfg.Level,
		client:       client,
		tags:         cfg.Tags,
		flushTimeout: flushTimeout,
	}
}

type core struct {
	zapcore.LevelEnabler
	client       *gatey.Client
	tags         map[string]string
	fields       []zapcore.Field
	flushTimeout time.Duration
}

// With carries structured context into captured events.
func (c *core) With(fields []zapcore.Field) zapcore.Core {
	combined := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	combined = append(combined, c.fields...)
	combined = append(combined, fields...)
	return &core{
		LevelEnabler: c.LevelEnabler,
		client:       c.client,
		tags:         c.tags,
		fields:       combined,
		flushTimeout: c.flushTimeout,
	}
}

func (c *core) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

// Write captures the entry as a Gatey event. Fields become tags; an
// error field promotes the event to an exception capture.
func (c *core) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	tags := make(map[string]string, len(c.tags)+len(c.fields)+len(fields)+1)
	for k, v := range c.tags {
		tags[k] = v
	}
	if entry.LoggerName != "" {
		tags["logger"] = entry.LoggerName
	}

	var firstErr error
	for _, field := range append(c.fields, fields...) {
		if field.Type == zapcore.ErrorType {
			if err, ok := field.Interface.(error); ok && firstErr == nil {
				firstErr = err
				continue
			}
		}
		tags[field.Key] = fieldValue(field)
	}

	level := eventLevel(entry.Level)
	if firstErr != nil {
		c.client.CaptureException(firstErr, gatey.WithLevel(level), gatey.WithTags(tags))
		return nil
	}
	c.client.CaptureMessage(entry.Message, gatey.WithLevel(level), gatey.WithTags(tags))
	return nil
}

// Sync flushes the client queue.
func (c *core) Sync() error {
	c.client.Flush(c.flushTimeout)
	return nil
}

// eventLevel maps zap levels onto Gatey levels.
func eventLevel(level zapcore.Level) gatey.Level {
	switch {
	case level <= zapcore.DebugLevel:
		return gatey.LevelDebug
	case level == zapcore.InfoLevel:
		return gatey.LevelInfo
	case level == zapcore.WarnLevel:
		return gatey.LevelWarning
	case level == zapcore.ErrorLevel:
		return gatey.LevelError
	default:
		return gatey.LevelCritical
	}
}

// fieldValue renders a zap field as a tag value.
func fieldValue(field zapcore.Field) string {
	enc := zapcore.NewMapObjectEncoder()
	field.AddTo(enc)
	if v, ok := enc.Fields[field.Key]; ok {
		return fmt.Sprintf("%v", v)
	}
	return ""
}
