package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/ini.v1"
)

// INISource implements Source by reading every "*.conf" file in a
// "localauthority.conf.d"-style directory with gopkg.in/ini.v1 (the library
// the retrieved adsys reference code uses for this exact file family),
// configured with IgnoreInlineComment to match that reference's behavior.
//
// Files are read in lexicographic order and, for a given section/key, the
// last file that defines a non-empty value wins — mirroring the adsys
// reference's "take the highest file in ascii order" rule for
// AdminIdentities.
type INISource struct {
	dir    string
	logger *slog.Logger
}

// NewINISource builds an INISource rooted at dir (typically
// ".../localauthority.conf.d").
func NewINISource(logger *slog.Logger, dir string) *INISource {
	return &INISource{dir: dir, logger: logger}
}

// GetStringList implements Source.
func (s *INISource) GetStringList(section, key string) ([]string, error) {
	files, err := s.confFiles()
	if err != nil {
		s.logger.Warn("config: failed to enumerate conf.d directory", "dir", s.dir, "error", err)
		return nil, fmt.Errorf("%w: %s/%s", ErrKeyAbsent, section, key)
	}

	var value string
	var found bool
	for _, path := range files {
		cfg, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, path)
		if err != nil {
			s.logger.Warn("config: failed to parse conf file", "file", path, "error", err)
			continue
		}
		if !cfg.Section(section).HasKey(key) {
			continue
		}
		v := cfg.Section(section).Key(key).String()
		if v == "" {
			continue
		}
		value = v
		found = true
	}

	if !found {
		return nil, fmt.Errorf("%w: %s/%s", ErrKeyAbsent, section, key)
	}
	return splitConfigList(value), nil
}

// confFiles lists the directory's "*.conf" files in lexicographic order.
func (s *INISource) confFiles() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".conf" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(s.dir, n)
	}
	return paths, nil
}

// splitConfigList splits a ";"- or ","-separated config value into trimmed,
// non-empty elements (spec.md §6: "AdminIdentities holding a
// semicolon-separated list").
func splitConfigList(s string) []string {
	replaced := strings.ReplaceAll(s, ";", ",")
	parts := strings.Split(replaced, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
