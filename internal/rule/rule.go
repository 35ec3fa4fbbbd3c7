package rule

import "path/filepath"

// DefaultIdentity is the literal identity-set entry a rule uses to express
// a default outcome, and the probe value the decision engine's first pass
// queries with (spec.md §4.2: "identity_or_default = none matches rules
// whose identity set contains the literal 'default'").
const DefaultIdentity = "default"

// Rule is one parsed ".pkla" section: a set of identity strings, a set of
// action-id glob patterns, optional detail constraints, and the three
// outcomes they contribute (spec.md §3, §4.2).
type Rule struct {
	// Source identifies the file and section this rule was parsed from,
	// for diagnostics only (not part of matching).
	Source string

	Identities []string
	Actions    []string
	Details    map[string]string
	Result     Result
}

// MatchesIdentity reports whether probe (a canonical identity string, or
// DefaultIdentity for the defaults pass) is present in the rule's identity
// set.
func (r Rule) MatchesIdentity(probe string) bool {
	for _, id := range r.Identities {
		if id == probe {
			return true
		}
	}
	return false
}

// MatchesAction reports whether actionID matches at least one of the
// rule's action globs. Matching is anchored; "*" matches any substring
// (spec.md §4.2). filepath.Match implements this directly for patterns
// with no path separator, which action ids never contain.
func (r Rule) MatchesAction(actionID string) bool {
	for _, pattern := range r.Actions {
		if pattern == actionID {
			return true
		}
		matched, err := filepath.Match(pattern, actionID)
		if err == nil && matched {
			return true
		}
	}
	return false
}

// MatchesDetails reports whether every constraint in r.Details is satisfied
// by the supplied details map. A rule with no constraints always matches
// (spec.md §4.2: "Every detail constraint (if any) is satisfied").
func (r Rule) MatchesDetails(details map[string]string) bool {
	for k, want := range r.Details {
		got, ok := details[k]
		if !ok || got != want {
			return false
		}
	}
	return true
}

// Matches reports whether this rule applies to the given identity probe,
// action id, and detail map — the full per-rule predicate from spec.md
// §4.2.
func (r Rule) Matches(probe, actionID string, details map[string]string) bool {
	return r.MatchesIdentity(probe) && r.MatchesAction(actionID) && r.MatchesDetails(details)
}
