// Package logging builds the service's slog loggers and carries them through
// context.Context.
//
//	logger := logging.New(logging.ResolveLevel(cfg.Log.Level, cfg.Log.Debug), cfg.Log.Format, os.Stderr)
//	ctx = logging.WithLogger(ctx, logger.With("request_id", id))
//	logging.FromContextOr(ctx, logger).InfoContext(ctx, "account created")
//
// Error logs carry the operation, the entity identifiers, and the error
// itself:
//
//	logger.ErrorContext(ctx, "batch account lookup failed",
//	    slog.String("operation", "GetAccounts"),
//	    slog.String("account_id", id.String()),
//	    slog.Any("error", err),
//	)
//
// Every handler built by New redacts credentials (see redact.go) before a
// record is written.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// Output formats accepted by New.
const (
	FormatJSON = "json"
	FormatText = "text"
)

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

type contextKey struct{}

// New returns a logger writing to w at level in format. Unknown levels log
// at info; any format other than FormatText writes JSON. Debug loggers also
// record the source location.
func New(level, format string, w io.Writer) *slog.Logger {
	lvl, ok := levels[strings.ToLower(level)]
	if !ok {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   lvl == slog.LevelDebug,
		ReplaceAttr: redactAttr(),
	}

	if format == FormatText {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// ResolveLevel picks the effective level name: an explicit level wins,
// otherwise debug selects "debug" and the default is "info".
func ResolveLevel(level string, debug bool) string {
	switch {
	case strings.TrimSpace(level) != "":
		return strings.ToLower(strings.TrimSpace(level))
	case debug:
		return "debug"
	default:
		return "info"
	}
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	return FromContextOr(ctx, nil)
}

// FromContextOr returns the logger stored in ctx, or fallback when there is
// none. A nil fallback yields slog.Default().
func FromContextOr(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}
