// Package store implements the authorization store (spec.md §4.2): a
// directory of ".pkla" rule files loaded once into an ordered rule list,
// answering (identity, action, details) lookups.
package store

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/polkit-go/localauthority/internal/rule"
)

// Extension is the rule-file suffix every authorization store loads
// (spec.md §4.2: "always .pkla").
const Extension = ".pkla"

// Store is one authorization store: the parsed, ordered rule list for a
// single directory. A Store does not re-read files after construction;
// invalidation is external (the storeset package purges and rebuilds on
// filesystem change).
type Store struct {
	dir   string
	rules []rule.Rule
}

// Load enumerates dir's direct children with the given extension in
// lexicographic order and parses each into rules, preserving both file
// order and in-file order (spec.md §4.2). Load never fails: an empty or
// unreadable directory yields an empty store, with the enumeration error
// logged at warn.
func Load(ctx context.Context, logger *slog.Logger, dir, extension string) *Store {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("store: failed to enumerate directory", "dir", dir, "error", err)
		return &Store{dir: dir}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if filepath.Ext(e.Name()) != extension {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var rules []rule.Rule
	for _, name := range names {
		parsed, err := rule.ParseFile(ctx, logger, filepath.Join(dir, name))
		if err != nil {
			logger.Warn("store: failed to parse rule file", "file", name, "dir", dir, "error", err)
			continue
		}
		rules = append(rules, parsed...)
	}

	return &Store{dir: dir, rules: rules}
}

// Dir returns the directory this store was loaded from.
func (s *Store) Dir() string { return s.dir }

// Len reports how many rules this store holds, for diagnostics/tests.
func (s *Store) Len() int { return len(s.rules) }

// Lookup iterates the store's rules in file order / in-file order and
// returns the last match's Result (last-match-wins within a store,
// spec.md §4.2). probe is a canonical identity string, or rule.DefaultIdentity
// for the decision engine's defaults pass. ok is false when no rule
// matched, which callers treat as "no opinion" (all-Unknown).
func (s *Store) Lookup(probe, actionID string, details map[string]string) (res rule.Result, ok bool) {
	for _, r := range s.rules {
		if r.Matches(probe, actionID, details) {
			res = r.Result
			ok = true
		}
	}
	return res, ok
}
