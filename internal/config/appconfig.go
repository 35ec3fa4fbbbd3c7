package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Settings is the engine's own bootstrap configuration: where to find rule
// directories and admin config, and how verbosely to log. This is ambient
// plumbing (spec.md's non-goals exclude a policy language, not a way for
// the binary to find its own inputs) — it never appears inside a ".pkla"
// rule file or the AdminIdentities config; it only tells the CLI/host
// where those files live.
//
// Loaded from "localauthority.yaml" (current directory, $HOME/.localauthority/,
// or /etc/localauthority/) via spf13/viper, the same discovery and env-var
// override pattern the teacher's internal/config package uses for its own
// OSS settings.
type Settings struct {
	// AuthorizationPaths are the ordered top-level authorization
	// directories (spec.md §6's default: /etc/polkit-1/localauthority,
	// /var/lib/polkit-1/localauthority).
	AuthorizationPaths []string `yaml:"authorization_paths" mapstructure:"authorization_paths" validate:"required,min=1"`

	// ConfigDir is the "localauthority.conf.d"-style directory the admin
	// identity resolver reads AdminIdentities from.
	ConfigDir string `yaml:"config_dir" mapstructure:"config_dir" validate:"required"`

	// LogLevel names a minimum log level ("debug", "info", "warn", "error").
	// It is defaulted and validated here; the CLI's logger takes its level
	// from the LOCALAUTHORITY_LOG_LEVEL environment variable and does not
	// read this field.
	LogLevel string `yaml:"log_level" mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`

	// DevMode is a dev-mode toggle loaded with the other settings. No code
	// in this repository reads it: it changes neither logging nor tracing
	// (authority.InstallDevTracing is a separate, explicit call).
	DevMode bool `yaml:"dev_mode" mapstructure:"dev_mode"`
}

// DefaultAuthorizationPaths are the canonical polkit-compatible top-level
// paths, /etc before /var, matching spec.md §6.
var DefaultAuthorizationPaths = []string{
	"/etc/polkit-1/localauthority",
	"/var/lib/polkit-1/localauthority",
}

// DefaultConfigDir is the canonical admin-identities config directory
// (spec.md §6).
const DefaultConfigDir = "/etc/polkit-1/localauthority.conf.d"

// SetDefaults fills in zero-valued fields with the canonical defaults.
func (s *Settings) SetDefaults() {
	if len(s.AuthorizationPaths) == 0 {
		s.AuthorizationPaths = append([]string(nil), DefaultAuthorizationPaths...)
	}
	if s.ConfigDir == "" {
		s.ConfigDir = DefaultConfigDir
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
}

// InitViper wires up file discovery and SENTINEL_GATE-style environment
// variable overrides (here: LOCALAUTHORITY_*) for Settings, following the
// teacher's InitViper pattern.
func InitViper(configFile string) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("localauthority")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.localauthority")
		viper.AddConfigPath("/etc/localauthority")
	}

	viper.SetEnvPrefix("LOCALAUTHORITY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	_ = viper.BindEnv("authorization_paths")
	_ = viper.BindEnv("config_dir")
	_ = viper.BindEnv("log_level")
	_ = viper.BindEnv("dev_mode")
}

// LoadSettings reads the configuration file (if any), applies environment
// overrides and defaults, and validates the result. A missing config file
// is not an error: the binary can run entirely off defaults/env vars/CLI
// flags, exactly as spec.md §6 describes ("all paths are arguments or
// compiled defaults").
func LoadSettings() (*Settings, error) {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: failed to read settings file: %w", err)
		}
	}

	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal settings: %w", err)
	}
	s.SetDefaults()

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("config: invalid settings: %w", err)
	}
	return &s, nil
}

// DumpYAML renders the effective settings back to YAML, so a caller can
// show exactly what viper loaded/defaulted. No CLI command calls it.
func (s *Settings) DumpYAML() (string, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("config: failed to render settings as yaml: %w", err)
	}
	return string(out), nil
}
