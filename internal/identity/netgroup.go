package identity

import (
	"bufio"
	"context"
	"log/slog"
	"os/exec"
	"strings"
)

// UsersInNetgroup expands a netgroup to its member users by scanning the
// (host, user, domain) triples NSS reports for it. host and domain are
// ignored — this mirrors an open question the original implementation
// leaves unresolved (spec.md §9): a netgroup triple is host-and-domain
// scoped, but nothing downstream of this store currently needs that scope,
// so every user mentioned anywhere in the netgroup is considered a member
// regardless of which host/domain triple named them.
//
// Entries with an empty or "-" user field are skipped (a netgroup triple
// with "-" for a position means "any" in NIS semantics, which this store
// does not attempt to expand). When includeRoot is false, "root" is
// excluded from the result.
func UsersInNetgroup(ctx context.Context, logger *slog.Logger, n Identity, includeRoot bool) []Identity {
	if n.Kind() != KindNetgroup {
		return nil
	}

	out, err := exec.CommandContext(ctx, "getent", "netgroup", n.Value()).Output()
	if err != nil {
		logger.Warn("identity: getent netgroup failed", "netgroup", n.Value(), "error", err)
		return nil
	}

	seen := make(map[string]bool)
	var users []Identity

	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		for _, triple := range extractTriples(scanner.Text()) {
			host, user, domain := triple.host, triple.user, triple.domain
			_, _ = host, domain // host/domain intentionally ignored, see doc comment above

			if user == "" || user == "-" {
				continue
			}
			if !includeRoot && user == "root" {
				continue
			}
			if seen[user] {
				continue
			}
			seen[user] = true
			users = append(users, New(KindUser, user))
		}
	}
	return users
}

type netgroupTriple struct {
	host, user, domain string
}

// extractTriples parses the "(host,user,domain)" triples from one line of
// `getent netgroup` output. The line begins with the netgroup name followed
// by whitespace-separated triples; malformed triples are skipped.
func extractTriples(line string) []netgroupTriple {
	var triples []netgroupTriple
	for {
		start := strings.IndexByte(line, '(')
		if start < 0 {
			break
		}
		end := strings.IndexByte(line[start:], ')')
		if end < 0 {
			break
		}
		end += start
		body := line[start+1 : end]
		parts := strings.SplitN(body, ",", 3)
		if len(parts) == 3 {
			triples = append(triples, netgroupTriple{
				host:   strings.TrimSpace(parts[0]),
				user:   strings.TrimSpace(parts[1]),
				domain: strings.TrimSpace(parts[2]),
			})
		}
		line = line[end+1:]
	}
	return triples
}
