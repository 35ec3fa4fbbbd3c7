// Package config provides the Config source contract the admin-identity
// resolver consumes (spec.md §4.7), an INI-backed implementation of it over
// "localauthority.conf.d" directories, and an ambient, non-spec Settings
// type describing how the engine itself is bootstrapped (store paths, log
// level, dev mode) — the configuration layer a complete repository around
// this engine would carry, loaded the way the teacher's OSS configuration
// package loads its own settings (spec.md's ambient stack, see SPEC_FULL.md §4.7).
package config

import "errors"

// ErrKeyAbsent is returned by Source.GetStringList when the requested
// section/key simply was not present in any source file. Callers log this
// case at debug (spec.md §7: "Configuration absent ... Log at debug");
// any other error is a genuine parse/read failure and is logged at warn.
var ErrKeyAbsent = errors.New("config: key absent")

// Source is the narrow contract the admin-identity resolver (C6) depends
// on. The engine itself never parses a file format directly; it consumes
// this interface (spec.md §4.7).
type Source interface {
	// GetStringList returns the semicolon-or-comma-split values for
	// section/key. Returns ErrKeyAbsent (wrapped) when the section or key
	// is missing, or another error for a genuine read/parse failure.
	GetStringList(section, key string) ([]string, error)
}
