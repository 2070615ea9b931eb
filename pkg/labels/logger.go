package labels

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with helpers for pipeline diagnostics.
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
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, nil))
}

// WithRun tags every record with a pipeline run ID.
func (l *Logger) WithRun(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run", id),
	}
}

// LogGeometry logs the outcome of loading the geometry source.
func (l *Logger) LogGeometry(ctx context.Context, source string, positions int, err error) {
	if err != nil {
		l.WarnContext(ctx, "geometry not loaded, no labels produced",
			"source", source,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "geometry loaded",
		"source", source,
		"positions", positions,
	)
}

// LogTable logs the outcome of loading the attribute table.
func (l *Logger) LogTable(ctx context.Context, table *AttributeTable, err error) {
	if err != nil {
		l.WarnContext(ctx, "attribute table not loaded, labels skipped",
			"path", table.Path,
			"error", err,
		)
		return
	}
	if table.Truncated {
		l.DebugContext(ctx, "attribute table truncated",
			"path", table.Path,
			"declared", table.DeclaredCount,
			"records", len(table.Records),
		)
		return
	}
	l.DebugContext(ctx, "attribute table loaded",
		"path", table.Path,
		"records", len(table.Records),
	)
}

// LogTextureMiss logs a texture that could not be resolved.
func (l *Logger) LogTextureMiss(ctx context.Context, key string, err error) {
	l.WarnContext(ctx, "texture not found",
		"key", key,
		"error", err,
	)
}

// LogFontMiss logs a font path that could not be loaded.
func (l *Logger) LogFontMiss(ctx context.Context, path string, err error) {
	l.WarnContext(ctx, "font not loaded",
		"path", path,
		"error", err,
	)
}

// LogRun logs the summary of a pipeline run.
func (l *Logger) LogRun(ctx context.Context, stats RunStats) {
	l.InfoContext(ctx, "labels created",
		"labels", stats.Labels,
		"textures", stats.Textures,
		"candidates", stats.Candidates,
		"rejected", stats.Candidates-stats.Labels,
	)
}
