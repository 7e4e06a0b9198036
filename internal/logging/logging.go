package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a sugared zap logger so callers can use Infow/Warnw/Debugw
// with key/value pairs.
type Logger struct {
	*zap.SugaredLogger
}

// verbose switches to debug level with caller info
func NewLogger(verbose bool) *Logger {
	if verbose {
		return build(zapcore.DebugLevel, true)
	}
	return build(zapcore.InfoLevel, false)
}

// NewLevel builds a logger from a textual level such as "debug" or "warn".
// Unknown levels fall back to info.
func NewLevel(level string) *Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	return build(lvl, lvl == zapcore.DebugLevel)
}

func NewNop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func build(level zapcore.Level, withCaller bool) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.DisableStacktrace = true
	cfg.DisableCaller = !withCaller
	cfg.Level = zap.NewAtomicLevelAt(level)

	base, err := cfg.Build()
	if err != nil {
		base = zap.NewNop()
	}

	return &Logger{SugaredLogger: base.Sugar()}
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}
