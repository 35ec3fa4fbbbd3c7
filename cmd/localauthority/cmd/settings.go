package cmd

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/polkit-go/localauthority/internal/config"
)

// resolvePaths returns flagValue split on ";" if non-empty, otherwise falls
// back to the ambient Settings' configured AuthorizationPaths — letting a
// host deploy localauthority.yaml once instead of repeating --paths on
// every invocation.
func resolvePaths(flagValue string, logger *slog.Logger) []string {
	if flagValue != "" {
		return splitPaths(flagValue)
	}
	settings, err := config.LoadSettings()
	if err != nil {
		logger.Warn("cmd: failed to load ambient settings, no --paths given", "error", err)
		return nil
	}
	return settings.AuthorizationPaths
}

// resolveConfigDir returns flagValue if non-empty, otherwise the ambient
// Settings' configured ConfigDir.
func resolveConfigDir(flagValue string, logger *slog.Logger) string {
	if flagValue != "" {
		return flagValue
	}
	settings, err := config.LoadSettings()
	if err != nil {
		logger.Warn("cmd: failed to load ambient settings, no --config-dir given", "error", err)
		return config.DefaultConfigDir
	}
	return settings.ConfigDir
}

// correlationID generates a fresh request-scoped identifier for an
// audit-style log line, matching the teacher's use of google/uuid for
// request/session IDs.
func correlationID() string {
	return uuid.NewString()
}
