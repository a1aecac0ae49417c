package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup builds the process logger, tags it with the service name, and
// installs it as the slog default. Level accepts "debug", "info", "warn"
// or "error" (case-insensitive, info by default). Format "json" switches
// to JSON output for log shippers; anything else stays on the
// human-readable text handler.
func Setup(level, format string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler).With("service", "eclat")
	slog.SetDefault(logger)
	return logger
}
