package config

import (
	"strings"
	"testing"
)

func TestSettingsSetDefaults(t *testing.T) {
	var s Settings
	s.SetDefaults()

	if len(s.AuthorizationPaths) != len(DefaultAuthorizationPaths) {
		t.Fatalf("got %v, want %v", s.AuthorizationPaths, DefaultAuthorizationPaths)
	}
	if s.ConfigDir != DefaultConfigDir {
		t.Errorf("ConfigDir = %q, want %q", s.ConfigDir, DefaultConfigDir)
	}
	if s.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", s.LogLevel)
	}
}

func TestSettingsSetDefaultsPreservesExplicitValues(t *testing.T) {
	s := Settings{
		AuthorizationPaths: []string{"/custom/path"},
		ConfigDir:          "/custom/conf.d",
		LogLevel:           "debug",
	}
	s.SetDefaults()

	if len(s.AuthorizationPaths) != 1 || s.AuthorizationPaths[0] != "/custom/path" {
		t.Errorf("AuthorizationPaths overwritten: %v", s.AuthorizationPaths)
	}
	if s.ConfigDir != "/custom/conf.d" {
		t.Errorf("ConfigDir overwritten: %v", s.ConfigDir)
	}
	if s.LogLevel != "debug" {
		t.Errorf("LogLevel overwritten: %v", s.LogLevel)
	}
}

func TestSettingsValidateRejectsEmptyAuthorizationPaths(t *testing.T) {
	s := Settings{ConfigDir: "/etc/x", LogLevel: "info"}
	if err := s.Validate(); err == nil {
		t.Error("expected validation error for empty AuthorizationPaths")
	}
}

func TestSettingsValidateRejectsBadLogLevel(t *testing.T) {
	s := Settings{
		AuthorizationPaths: []string{"/etc/x"},
		ConfigDir:          "/etc/x.d",
		LogLevel:           "verbose",
	}
	if err := s.Validate(); err == nil {
		t.Error("expected validation error for bad LogLevel")
	}
}

func TestSettingsValidateAcceptsDefaults(t *testing.T) {
	var s Settings
	s.SetDefaults()
	if err := s.Validate(); err != nil {
		t.Errorf("defaults should validate cleanly, got %v", err)
	}
}

func TestSettingsDumpYAMLRoundTrips(t *testing.T) {
	var s Settings
	s.SetDefaults()

	out, err := s.DumpYAML()
	if err != nil {
		t.Fatalf("DumpYAML error: %v", err)
	}
	if !strings.Contains(out, DefaultConfigDir) {
		t.Errorf("expected rendered YAML to contain %q, got:\n%s", DefaultConfigDir, out)
	}
}
