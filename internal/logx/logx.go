// Package logx sets up structured logging for the command line tools.
package logx

import (
	"io"
	"log/slog"
	"strings"
)

// UserLevel is the verbosity selected by the user. Messages below it are
// dropped. The default is [slog.LevelWarn].
var UserLevel = slog.LevelWarn

// LevelFromFlags returns the [slog.Level] for the given verbosity flags:
//   - vv: [slog.LevelDebug]
//   - v: [slog.LevelInfo]
//   - q: [slog.LevelError]
//   - (default: [slog.LevelWarn])
//
// The flags are evaluated in that order.
func LevelFromFlags(vv, v, q bool) slog.Level {
	switch {
	case vv:
		return slog.LevelDebug
	case v:
		return slog.LevelInfo
	case q:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// ParseLevel maps a config string ("debug", "info", "warn", "error") to a
// level. Unknown values yield the default.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// New returns a text logger writing to w at level and records level as the
// UserLevel.
func New(w io.Writer, level slog.Level) *slog.Logger {
	UserLevel = level
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
