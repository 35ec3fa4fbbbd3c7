// Package identity provides the tagged unix-principal type shared across the
// authorization store, the decision engine, and the admin-identity resolver.
package identity

import (
	"errors"
	"fmt"
	"strings"
)

// Kind tags the three principal variants an Identity can hold.
type Kind int

const (
	// KindUser identifies a specific POSIX user by name or uid.
	KindUser Kind = iota
	// KindGroup identifies a POSIX group by name or gid.
	KindGroup
	// KindNetgroup identifies a netgroup by name.
	KindNetgroup
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "unix-user"
	case KindGroup:
		return "unix-group"
	case KindNetgroup:
		return "unix-netgroup"
	default:
		return "unknown"
	}
}

// ErrInvalidIdentity is returned by Parse when the input does not match one
// of the three canonical "<kind>:<value>" forms.
var ErrInvalidIdentity = errors.New("identity: invalid identity string")

// Identity is an immutable value identifying a unix-user, unix-group, or
// unix-netgroup principal. Construct via Parse; the zero value is not a
// valid Identity.
type Identity struct {
	kind  Kind
	value string
}

// New builds an Identity directly from a kind and value, bypassing string
// parsing. Useful when a caller already has a validated (kind, value) pair,
// e.g. the admin-identity resolver expanding a group to its member users.
func New(kind Kind, value string) Identity {
	return Identity{kind: kind, value: value}
}

// Kind reports which of the three variants this Identity holds.
func (i Identity) Kind() Kind { return i.kind }

// Value reports the uid/gid/name payload, without the "<kind>:" prefix.
func (i Identity) Value() string { return i.value }

// String renders the canonical "<kind>:<value>" form. Two identities compare
// equal (via ==) exactly when their String forms are equal.
func (i Identity) String() string {
	return fmt.Sprintf("%s:%s", i.kind, i.value)
}

// Parse accepts the three canonical forms "unix-user:X", "unix-group:X", and
// "unix-netgroup:X". X may be numeric (uid/gid) or a name for user/group;
// names are not validated against the OS at parse time — that happens only
// when the identity is later resolved (groups_of_user, users_in_group, ...).
func Parse(s string) (Identity, error) {
	kindStr, value, ok := strings.Cut(s, ":")
	if !ok || value == "" {
		return Identity{}, fmt.Errorf("%w: %q", ErrInvalidIdentity, s)
	}
	var kind Kind
	switch kindStr {
	case "unix-user":
		kind = KindUser
	case "unix-group":
		kind = KindGroup
	case "unix-netgroup":
		kind = KindNetgroup
	default:
		return Identity{}, fmt.Errorf("%w: %q", ErrInvalidIdentity, s)
	}
	return Identity{kind: kind, value: value}, nil
}

// MustParse is Parse but panics on error. Intended for tests and
// compile-time-known literals, never for untrusted input.
func MustParse(s string) Identity {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}
