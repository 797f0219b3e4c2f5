// Package logger provides the shared zap logger used by every pipeline stage.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu       sync.Mutex
	instance *zap.Logger
)

// Init initializes the global logger for production use: JSON output,
// info level, ISO8601 timestamps.
func Init() error {
	return InitWithLevel(zapcore.InfoLevel)
}

// InitWithLevel initializes the global logger at the given level. Stage
// CLIs that want verbose output (e.g. --debug) call this instead of Init.
func InitWithLevel(level zapcore.Level) error {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return err
	}

	mu.Lock()
	instance = l
	mu.Unlock()
	return nil
}

// Get returns the global logger, lazily initializing it with defaults if
// no stage entry point has called Init yet.
func Get() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		l, err := zap.NewProduction()
		if err != nil {
			l = zap.NewNop()
		}
		instance = l
	}
	return instance
}

// Named returns a child logger scoped to a pipeline stage, e.g. "crawl" or
// "dedup". Every stage CLI command calls this once at startup.
func Named(stage string) *zap.Logger {
	return Get().Named(stage).With(zap.String("stage", stage))
}

// Sync flushes any buffered log entries. Safe to call even if Init was
// never called. Errors from Sync are expected and ignored when the
// underlying sink is a terminal (a known zap/os quirk on some platforms).
func Sync() {
	mu.Lock()
	l := instance
	mu.Unlock()
	if l != nil {
		_ = l.Sync()
	}
}
