// Package storeset aggregates authorization stores across multiple
// top-level paths into one deterministically ordered sequence (spec.md
// §4.3), and watches those paths for changes to trigger a rebuild
// (spec.md §4.4).
package storeset

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/polkit-go/localauthority/internal/rule"
	"github.com/polkit-go/localauthority/internal/store"
)

// entry is one (sort key, directory, store) tuple in the ordered set.
type entry struct {
	sortKey string
	dir     string
	store   *store.Store
}

// StoreSet is the ordered aggregation of authorization stores across every
// configured top-level path (spec.md §3). It is immutable once built;
// rebuilding produces a new StoreSet rather than mutating one in place, so
// an in-flight query always sees either the entirely old or the entirely
// new set (spec.md §5).
type StoreSet struct {
	entries []entry
}

// Build enumerates direct subdirectories of each top-level path, orders
// them by the "<subdir>-<toplevel_index>" sort key (spec.md §4.3), and
// loads one Store per subdirectory in that order. Enumeration errors on
// one top-level are logged and that top-level is skipped; others proceed.
func Build(ctx context.Context, logger *slog.Logger, topLevels []string) *StoreSet {
	type candidate struct {
		sortKey string
		dir     string
	}
	var candidates []candidate

	for n, topLevel := range topLevels {
		children, err := os.ReadDir(topLevel)
		if err != nil {
			logger.Warn("storeset: failed to enumerate top-level path", "path", topLevel, "error", err)
			continue
		}
		for _, child := range children {
			if !child.IsDir() {
				continue
			}
			sortKey := fmt.Sprintf("%s-%d", child.Name(), n)
			candidates = append(candidates, candidate{
				sortKey: sortKey,
				dir:     filepath.Join(topLevel, child.Name()),
			})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].sortKey < candidates[j].sortKey
	})

	entries := make([]entry, 0, len(candidates))
	for _, c := range candidates {
		entries = append(entries, entry{
			sortKey: c.sortKey,
			dir:     c.dir,
			store:   store.Load(ctx, logger, c.dir, store.Extension),
		})
	}

	return &StoreSet{entries: entries}
}

// Len reports how many stores this set holds, for diagnostics/tests.
func (s *StoreSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Resolve iterates the stores in order for one identity probe and applies
// spec.md §4.5's per-store fold directly: for each store that matches, the
// store's own Result is picked for the given locality/activity slot right
// away, and only a non-Unknown pick overrides the running outcome. Later
// stores win over earlier ones (spec.md §4.5's "later stores win"), but a
// later store whose own pick is Unknown for this slot must NOT erase an
// earlier store's decisive pick — so the per-store Pick has to happen
// before any cross-store merging, not after pre-merging raw Result tuples
// from different stores into one (that would let one store's untouched
// Result fields clobber another store's decided ones).
//
// pick is the final outcome to apply (Unknown if no store contributed a
// decisive pick); matched reports whether at least one store's rule set
// matched the probe/action/details at all, for diagnostics.
func (s *StoreSet) Resolve(probe, actionID string, details map[string]string, isLocal, isActive bool) (pick rule.ImplicitAuthorization, matched bool) {
	pick = rule.Unknown
	if s == nil {
		return pick, false
	}
	for _, e := range s.entries {
		res, ok := e.store.Lookup(probe, actionID, details)
		if !ok {
			continue
		}
		matched = true
		if p := res.Pick(isLocal, isActive); p != rule.Unknown {
			pick = p
		}
	}
	return pick, matched
}

// Dirs returns the ordered list of store directories, for diagnostics.
func (s *StoreSet) Dirs() []string {
	if s == nil {
		return nil
	}
	dirs := make([]string, len(s.entries))
	for i, e := range s.entries {
		dirs[i] = e.dir
	}
	return dirs
}

// RuleCount sums the rule count across every store in the set, for
// diagnostics.
func (s *StoreSet) RuleCount() int {
	if s == nil {
		return 0
	}
	total := 0
	for _, e := range s.entries {
		total += e.store.Len()
	}
	return total
}

// readDirNames lists the direct subdirectory names of dir, used by the
// monitor to watch each top-level path's current children individually.
func readDirNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
