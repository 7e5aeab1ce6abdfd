package log

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/arraylab/pkg/errors"
)

// ZerologLogger adapts a zerolog.Logger to the Logger interface.
type ZerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger returns a JSON logger writing to w at the given minimum level.
func NewZerologLogger(w io.Writer, level Level) *ZerologLogger {
	return FromZerolog(zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger())
}

// FromZerolog wraps an existing zerolog.Logger.
func FromZerolog(zl zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{zl: zl}
}

// Debug implements Logger.Debug.
func (l *ZerologLogger) Debug(msg string, fields ...any) {
	l.zl.Debug().Fields(fields).Msg(msg)
}

// Info implements Logger.Info.
func (l *ZerologLogger) Info(msg string, fields ...any) {
	l.zl.Info().Fields(fields).Msg(msg)
}

// Warn implements Logger.Warn.
func (l *ZerologLogger) Warn(msg string, fields ...any) {
	l.zl.Warn().Fields(fields).Msg(msg)
}

// Error implements Logger.Error.
func (l *ZerologLogger) Error(msg string, fields ...any) {
	ev := l.zl.Error()
	if len(fields)%2 == 1 {
		if err, ok := fields[0].(error); ok {
			ev = ev.Err(err)
			var m zerolog.LogObjectMarshaler
			if errors.As(err, &m) {
				ev = ev.Object("detail", m)
			}
			fields = fields[1:]
		}
	}
	ev.Fields(fields).Msg(msg)
}

// With implements Logger.With.
func (l *ZerologLogger) With(fields ...any) Logger {
	return &ZerologLogger{zl: l.zl.With().Fields(fields).Logger()}
}

// Enabled implements Logger.Enabled.
func (l *ZerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= l.zl.GetLevel()
}

// Zerolog returns the underlying zerolog.Logger.
func (l *ZerologLogger) Zerolog() zerolog.Logger {
	return l.zl
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// ZerologProvider implements LoggerProvider on top of zerolog.
type ZerologProvider struct {
	mu   sync.Mutex
	w    io.Writer
	base *ZerologLogger
}

// NewZerologProvider creates a provider writing JSON lines to w.
func NewZerologProvider(w io.Writer, level Level) *ZerologProvider {
	return &ZerologProvider{w: w, base: NewZerologLogger(w, level)}
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *ZerologProvider) GetLogger() Logger {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.base
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	return p.GetLogger().With(ComponentKey, name)
}

// SetLevel implements LoggerProvider.SetLevel.
func (p *ZerologProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.base = FromZerolog(p.base.zl.Level(toZerologLevel(level)))
}

var (
	defaultMu       sync.RWMutex
	defaultProvider LoggerProvider = NewZerologProvider(os.Stderr, LevelWarn)
)

// SetProvider replaces the package-level provider.
func SetProvider(p LoggerProvider) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultProvider = p
}

// GetLogger returns the package-level default logger.
func GetLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultProvider.GetLogger()
}

// GetLoggerWithName returns the package-level logger tagged with a component name.
func GetLoggerWithName(name string) Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultProvider.GetLoggerWithName(name)
}

// RouteWarnings sends errors.Warn output (ConvergenceWarning and friends)
// to l as structured warn-level records.
func RouteWarnings(l *ZerologLogger) {
	errors.SetZerologWarnFunc(func(w error) {
		ev := l.zl.Warn()
		var m zerolog.LogObjectMarshaler
		if errors.As(w, &m) {
			ev = ev.EmbedObject(m)
		}
		ev.Msg(w.Error())
	})
}
