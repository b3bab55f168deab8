// Package logging builds the zap loggers used across the renderer.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLoggerConfig returns the console configuration shared by all loggers:
// colored capital levels, ISO8601 timestamps and no stacktraces.
func NewLoggerConfig() zap.Config {
	return zap.Config{
		Level:    zap.NewAtomicLevelAt(zap.InfoLevel),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalColorLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}
}

// NewLogger returns a named logger writing info and above to stderr
func NewLogger(name string) *zap.SugaredLogger {
	return newLogger(name, zap.InfoLevel)
}

// NewDebugLogger returns a named logger writing debug and above to stderr
func NewDebugLogger(name string) *zap.SugaredLogger {
	return newLogger(name, zap.DebugLevel)
}

func newLogger(name string, level zapcore.Level) *zap.SugaredLogger {
	config := NewLoggerConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	logger, err := config.Build()
	if err != nil {
		// The configuration is static; a build failure leaves logging off
		return zap.NewNop().Sugar()
	}
	return logger.Sugar().Named(name)
}

// Nop returns a logger that discards everything, for library defaults and tests
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
