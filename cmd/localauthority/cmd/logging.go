package cmd

import (
	"log/slog"
	"os"
	"strings"
)

// cliLogger builds the structured logger every subcommand shares, writing
// to stderr so stdout stays reserved for the decided outcome / identity
// list the test suite scrapes.
func cliLogger() *slog.Logger {
	level := parseLogLevel(os.Getenv("LOCALAUTHORITY_LOG_LEVEL"))
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
