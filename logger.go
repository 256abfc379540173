package pagecursor

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with pagecursor-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithSource adds a source name field to the logger.
func (l *Logger) WithSource(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("source", name),
	}
}

// WithRow adds a row field to the logger.
func (l *Logger) WithRow(row int) *Logger {
	return &Logger{
		Logger: l.Logger.With("row", row),
	}
}

// WithPageSize adds a page_size field to the logger.
func (l *Logger) WithPageSize(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("page_size", n),
	}
}

// LogSchema logs the outcome of schema inspection.
func (l *Logger) LogSchema(rows, columns int, err error) {
	if err != nil {
		l.Error("schema inspection failed",
			"error", err,
		)
		return
	}
	l.Info("schema inspected",
		"rows", rows,
		"columns", columns,
	)
}

// LogPageLoad logs one page sweep.
func (l *Logger) LogPageLoad(start, end, fetched, skipped int, err error) {
	if err != nil {
		l.Error("page load failed",
			"start", start,
			"end", end,
			"fetched", fetched,
			"error", err,
		)
		return
	}
	l.Debug("page loaded",
		"start", start,
		"end", end,
		"fetched", fetched,
		"skipped", skipped,
	)
}

// LogReload logs a reload decision.
func (l *Logger) LogReload(oldPos, newPos, highWater int, reason string) {
	l.Debug("reload",
		"old", oldPos,
		"new", newPos,
		"high_water", highWater,
		"reason", reason,
	)
}

// LogClose logs cursor shutdown.
func (l *Logger) LogClose(stats Stats) {
	l.Debug("cursor closed",
		"page_loads", stats.PageLoads,
		"rows_fetched", stats.RowsFetched,
		"moves", stats.Moves,
		"reloads", stats.Reloads,
	)
}
