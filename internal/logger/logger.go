// Package logger holds the process wide slog logger used by sqltables.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// HideSQLEnv disables statement logging when set to a non-empty value.
const HideSQLEnv = "SQLTABLES_HIDE_SQL"

var (
	globalLogger *slog.Logger
	debugEnabled bool
	mu           sync.RWMutex
)

// New returns a text logger writing to w at info level, or debug level when
// debug is set.
func New(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetGlobal sets the global logger and debug state
func SetGlobal(logger *slog.Logger, debug bool) {
	mu.Lock()
	defer mu.Unlock()
	globalLogger = logger
	debugEnabled = debug
}

// Get returns the global logger instance
func Get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	if globalLogger != nil {
		return globalLogger
	}
	return New(os.Stderr, debugEnabled)
}

// IsDebug returns whether debug mode is enabled
func IsDebug() bool {
	mu.RLock()
	defer mu.RUnlock()
	return debugEnabled
}

func sqlVisible(ctx context.Context) bool {
	if os.Getenv(HideSQLEnv) != "" {
		return false
	}
	return Get().Enabled(ctx, slog.LevelDebug)
}

// Statement logs a statement about to be executed.
func Statement(ctx context.Context, sql string, args []any) {
	if !sqlVisible(ctx) {
		return
	}
	Get().DebugContext(ctx, "Executing SQL", "sql", sql, "args", args)
}

// StatementFailed logs a statement that returned an error.
func StatementFailed(ctx context.Context, sql string, err error) {
	if !sqlVisible(ctx) {
		return
	}
	Get().DebugContext(ctx, "SQL execution failed", "sql", sql, "error", err)
}
