// Package logger owns the process-wide zap logger. Level and encoding come from the
// environment so every entry point is configured the same way.
package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu            sync.Mutex
	defaultLogger *zap.Logger
)

// Options mirrors LOG_LEVEL, LOG_FORMAT and LOG_FILE.
type Options struct {
	Level  string
	Format string
	// Output is a zap sink path: "stderr", "stdout", a file path, or "discard".
	Output string
}

func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zap.DebugLevel
	case "warn", "warning":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	}
	return zap.InfoLevel
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "ts",
		NameKey:        "logger",
		CallerKey:      "",
		StacktraceKey:  "stacktrace",
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// New builds a logger without touching the process default.
func New(o Options) (*zap.Logger, error) {
	if strings.EqualFold(o.Output, "discard") {
		return zap.NewNop(), nil
	}
	out := o.Output
	if out == "" {
		out = "stderr"
	}
	encoding := "console"
	if strings.EqualFold(o.Format, "json") {
		encoding = "json"
	}
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(o.Level)),
		Encoding:         encoding,
		OutputPaths:      []string{out},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    encoderConfig(),
	}
	return cfg.Build()
}

// Setup builds a logger from o and makes it the process default.
func Setup(o Options) (*zap.Logger, error) {
	l, err := New(o)
	if err != nil {
		return nil, err
	}
	Set(l)
	return l, nil
}

// Set replaces the process default.
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = l
}

// L returns the process default, falling back to an info-level stderr logger.
func L() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if defaultLogger == nil {
		l, err := New(Options{})
		if err != nil {
			l = zap.NewNop()
		}
		defaultLogger = l
	}
	return defaultLogger
}
