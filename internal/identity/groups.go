package identity

import (
	"context"
	"log/slog"
	"os/exec"
	"os/user"
	"strings"
)

// GroupsOfUser resolves u's primary and supplementary groups via the OS.
// It fails soft: on any OS lookup error it logs a warning and returns an
// empty slice, which callers must treat as "no group memberships
// considered" (spec.md §4.1, §4.5 — the groups pass becomes a no-op).
func GroupsOfUser(ctx context.Context, logger *slog.Logger, u Identity) []Identity {
	if u.Kind() != KindUser {
		return nil
	}

	osUser, err := lookupUser(u.Value())
	if err != nil {
		logger.Warn("identity: failed to look up user", "user", u.Value(), "error", err)
		return nil
	}

	gids, err := osUser.GroupIds()
	if err != nil {
		logger.Warn("identity: failed to list group ids", "user", u.Value(), "error", err)
		return nil
	}

	groups := make([]Identity, 0, len(gids))
	for _, gid := range gids {
		g, err := user.LookupGroupId(gid)
		if err != nil {
			logger.Warn("identity: failed to resolve gid", "gid", gid, "error", err)
			continue
		}
		groups = append(groups, New(KindGroup, g.Name))
	}
	return groups
}

// lookupUser resolves a name-or-uid string to an *user.User, trying a
// numeric uid lookup first since user.Lookup on a pure digit string can
// still hit name-based NSS sources that happen to use numeric names.
func lookupUser(nameOrUID string) (*user.User, error) {
	if isAllDigits(nameOrUID) {
		if u, err := user.LookupId(nameOrUID); err == nil {
			return u, nil
		}
	}
	return user.Lookup(nameOrUID)
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// UsersInGroup expands a group to its member users. The standard library
// has no API for "who belongs to group G" against arbitrary NSS sources
// (files, LDAP, sssd) — only the reverse (a user's own groups) — so this
// shells out to `getent group`, the portable way to ask NSS the same
// question glibc's setgrent/getgrent would answer in the original C
// implementation. When include_root is false, the literal user "root" is
// excluded from the result (spec.md §4.1).
func UsersInGroup(ctx context.Context, logger *slog.Logger, g Identity, includeRoot bool) []Identity {
	if g.Kind() != KindGroup {
		return nil
	}

	out, err := exec.CommandContext(ctx, "getent", "group", g.Value()).Output()
	if err != nil {
		logger.Warn("identity: getent group failed", "group", g.Value(), "error", err)
		return nil
	}

	// getent group output: "name:passwd:gid:user1,user2,user3"
	line := strings.TrimSpace(string(out))
	fields := strings.SplitN(line, ":", 4)
	if len(fields) < 4 || fields[3] == "" {
		return nil
	}

	var users []Identity
	for _, name := range strings.Split(fields[3], ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !includeRoot && name == "root" {
			continue
		}
		users = append(users, New(KindUser, name))
	}
	return users
}
