// Package admin resolves the set of identities entitled to answer an
// "administrator_authentication_required" prompt (spec.md §4.6).
package admin

import (
	"context"
	"errors"
	"log/slog"

	"github.com/polkit-go/localauthority/internal/config"
	"github.com/polkit-go/localauthority/internal/identity"
)

// rootFallback is returned whenever AdminIdentities is absent, unreadable,
// or expands to nothing — the same "root is always an administrator"
// guarantee polkit's local authority falls back to (spec.md §4.6, §7).
var rootFallback = []identity.Identity{identity.New(identity.KindUser, "0")}

// Resolve reads the Configuration/AdminIdentities list from src and expands
// it to a flat list of unix-user identities, preserving the configured
// order of entries and, within a group or netgroup, the OS-reported member
// order.
//
// unix-user entries pass through unchanged; unix-group and unix-netgroup
// entries are expanded to their member users via the identity package
// (never including "root" implicitly — an explicit "unix-user:root" entry
// is what adds it). Malformed entries are logged and skipped rather than
// aborting the whole resolution, consistent with the store's general
// fail-soft posture (spec.md §7).
func Resolve(ctx context.Context, logger *slog.Logger, src config.Source) []identity.Identity {
	raw, err := src.GetStringList("Configuration", "AdminIdentities")
	if err != nil {
		if errors.Is(err, config.ErrKeyAbsent) {
			logger.Debug("admin: AdminIdentities not configured, falling back to root")
		} else {
			logger.Warn("admin: failed to read AdminIdentities, falling back to root", "error", err)
		}
		return rootFallback
	}

	var out []identity.Identity
	for _, entry := range raw {
		id, err := identity.Parse(entry)
		if err != nil {
			logger.Warn("admin: skipping malformed AdminIdentities entry", "entry", entry, "error", err)
			continue
		}

		switch id.Kind() {
		case identity.KindUser:
			out = append(out, id)
		case identity.KindGroup:
			out = append(out, identity.UsersInGroup(ctx, logger, id, false)...)
		case identity.KindNetgroup:
			out = append(out, identity.UsersInNetgroup(ctx, logger, id, false)...)
		default:
			logger.Warn("admin: unsupported identity kind in AdminIdentities", "entry", entry)
		}
	}

	if len(out) == 0 {
		return rootFallback
	}
	return out
}
