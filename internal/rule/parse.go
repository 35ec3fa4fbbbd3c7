package rule

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/ini.v1"
)

// detailKeyPrefix marks an INI key in a ".pkla" section as a detail
// constraint rather than one of the well-known Identity/Action/Result*
// fields, e.g. "Detail.path=/etc/shadow" constrains the rule to calls whose
// details map carries path=/etc/shadow (spec.md §3's "optional constraints
// on detail key/value pairs").
const detailKeyPrefix = "Detail."

// wellKnownKeys are section keys that are never details, used to keep
// Detail.* extraction from double-counting the standard fields.
var wellKnownKeys = map[string]bool{
	"Identity":       true,
	"Action":         true,
	"ResultAny":      true,
	"ResultInactive": true,
	"ResultActive":   true,
}

// ParseFile loads and parses one ".pkla" file. Malformed sections are
// logged at warn and skipped; ParseFile itself never fails on a malformed
// section — only on an unreadable/unparsable file, which the caller (the
// store) also treats as "skip and continue" (spec.md §4.2: "A store never
// fails its constructor").
func ParseFile(ctx context.Context, logger *slog.Logger, path string) ([]Rule, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, path)
	if err != nil {
		return nil, fmt.Errorf("rule: load %s: %w", path, err)
	}

	var rules []Rule
	for _, section := range cfg.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		r, err := parseSection(path, section)
		if err != nil {
			logger.Warn("rule: skipping malformed section", "file", path, "section", section.Name(), "error", err)
			continue
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func parseSection(path string, section *ini.Section) (Rule, error) {
	identityRaw := section.Key("Identity").String()
	actionRaw := section.Key("Action").String()
	if identityRaw == "" {
		return Rule{}, fmt.Errorf("missing Identity")
	}
	if actionRaw == "" {
		return Rule{}, fmt.Errorf("missing Action")
	}

	any, err := ParseResult(section.Key("ResultAny").String())
	if err != nil {
		return Rule{}, err
	}
	inactive, err := ParseResult(section.Key("ResultInactive").String())
	if err != nil {
		return Rule{}, err
	}
	active, err := ParseResult(section.Key("ResultActive").String())
	if err != nil {
		return Rule{}, err
	}

	var details map[string]string
	for _, key := range section.Keys() {
		name := key.Name()
		if wellKnownKeys[name] || !strings.HasPrefix(name, detailKeyPrefix) {
			continue
		}
		if details == nil {
			details = make(map[string]string)
		}
		details[strings.TrimPrefix(name, detailKeyPrefix)] = key.String()
	}

	return Rule{
		Source:     fmt.Sprintf("%s:%s", path, section.Name()),
		Identities: splitList(identityRaw),
		Actions:    splitList(actionRaw),
		Details:    details,
		Result: Result{
			Any:      any,
			Inactive: inactive,
			Active:   active,
		},
	}, nil
}

// splitList splits a ";"- or ","-separated field into its trimmed,
// non-empty elements (spec.md §6: "Multiple values ... separated by ; or
// ,").
func splitList(s string) []string {
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
