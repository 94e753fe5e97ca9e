// Package logging provides config-driven categorized file logging for
// Woofinder. Logs are written to <home>/logs with one file per category.
// When debug mode is off nothing is written and every logger is a no-op.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names a log file/system.
type Category string

const (
	CategoryAuth   Category = "auth"   // Sign-in/sign-out, session expiry
	CategoryAPI    Category = "api"    // Catalog service calls
	CategorySearch Category = "search" // Search coordinator, cache, pagination
	CategoryMatch  Category = "match"  // Match coordinator, invalidation
	CategoryStore  Category = "store"  // Session/favorites store persistence
	CategoryUI     Category = "ui"     // TUI page transitions, toasts
)

// Settings mirrors the relevant part of config.LoggingConfig to avoid a
// dependency cycle with the config package.
type Settings struct {
	DebugMode  bool
	Level      string
	Categories map[string]bool
}

var (
	mu       sync.RWMutex
	loggers  = make(map[Category]*zap.Logger)
	settings Settings
	logsDir  string
	ready    bool
)

// Initialize sets up the logs directory. Call once at startup with the
// Woofinder home directory. A no-op when debug mode is disabled.
func Initialize(home string, s Settings) error {
	if home == "" {
		return fmt.Errorf("home directory required")
	}

	mu.Lock()
	defer mu.Unlock()

	settings = s
	logsDir = filepath.Join(home, "logs")
	ready = true

	if !s.DebugMode {
		return nil
	}
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}
	return nil
}

// Get returns the logger for a category, creating it on first use.
// Before Initialize, or when the category is disabled, it returns zap.NewNop.
func Get(cat Category) *zap.Logger {
	mu.RLock()
	if lg, ok := loggers[cat]; ok {
		mu.RUnlock()
		return lg
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()

	if lg, ok := loggers[cat]; ok {
		return lg
	}

	lg := build(cat)
	loggers[cat] = lg
	return lg
}

// Close flushes and releases all category loggers.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	for cat, lg := range loggers {
		_ = lg.Sync()
		delete(loggers, cat)
	}
	ready = false
}

func build(cat Category) *zap.Logger {
	if !ready || !settings.DebugMode || !categoryEnabled(cat) {
		return zap.NewNop()
	}

	path := filepath.Join(logsDir, string(cat)+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] could not open %s: %v\n", path, err)
		return zap.NewNop()
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(f),
		parseLevel(settings.Level),
	)
	return zap.New(core).Named(string(cat))
}

// categoryEnabled defaults to on; the config map only turns categories off.
func categoryEnabled(cat Category) bool {
	if settings.Categories == nil {
		return true
	}
	enabled, listed := settings.Categories[string(cat)]
	if !listed {
		return true
	}
	return enabled
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
