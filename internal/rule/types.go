// Package rule defines the declarative authorization-rule model: the
// ImplicitAuthorization outcome enumeration and the AuthorizationRule shape
// parsed out of ".pkla" files (spec.md §3, §6).
package rule

import "fmt"

// ImplicitAuthorization is the decision engine's outcome type. Unknown is
// the sentinel meaning "no opinion"; any other value overrides a previously
// accumulated Unknown (last-match-wins, spec.md §3).
type ImplicitAuthorization int

const (
	// Unknown means no rule expressed an opinion for this slot.
	Unknown ImplicitAuthorization = iota
	// NotAuthorized denies the action outright.
	NotAuthorized
	// AuthenticationRequired requires the subject to authenticate.
	AuthenticationRequired
	// AdministratorAuthenticationRequired requires an administrator to authenticate.
	AdministratorAuthenticationRequired
	// Authorized permits the action.
	Authorized
	// AuthenticationRequiredRetained is AuthenticationRequired whose grant
	// should persist for the remainder of the session once satisfied.
	AuthenticationRequiredRetained
	// AdministratorAuthenticationRequiredRetained is the admin-auth variant
	// of AuthenticationRequiredRetained.
	AdministratorAuthenticationRequiredRetained
)

// String renders the canonical ".pkla" Result token for this outcome, the
// same vocabulary spec.md §6 documents ("yes", "no", "auth_self",
// "auth_admin", and their "_keep" retained variants). Unknown renders as
// the empty string, matching the CLI's "empty line if unknown" contract
// (spec.md §6).
func (a ImplicitAuthorization) String() string {
	switch a {
	case Unknown:
		return ""
	case NotAuthorized:
		return "no"
	case AuthenticationRequired:
		return "auth_self"
	case AdministratorAuthenticationRequired:
		return "auth_admin"
	case Authorized:
		return "yes"
	case AuthenticationRequiredRetained:
		return "auth_self_keep"
	case AdministratorAuthenticationRequiredRetained:
		return "auth_admin_keep"
	default:
		return "unknown"
	}
}

// ParseResult parses a ".pkla" Result token into an ImplicitAuthorization.
// An empty string parses to Unknown (a missing Result* field is Unknown per
// spec.md §3).
func ParseResult(s string) (ImplicitAuthorization, error) {
	switch s {
	case "":
		return Unknown, nil
	case "yes":
		return Authorized, nil
	case "no":
		return NotAuthorized, nil
	case "auth_self":
		return AuthenticationRequired, nil
	case "auth_admin":
		return AdministratorAuthenticationRequired, nil
	case "auth_self_keep":
		return AuthenticationRequiredRetained, nil
	case "auth_admin_keep":
		return AdministratorAuthenticationRequiredRetained, nil
	default:
		return Unknown, fmt.Errorf("rule: unrecognized result token %q", s)
	}
}

// Result bundles the three outcomes a matching rule contributes, keyed by
// the subject's locality/activity slot (spec.md §3).
type Result struct {
	Any      ImplicitAuthorization
	Inactive ImplicitAuthorization
	Active   ImplicitAuthorization
}

// Pick selects the outcome for a subject that is local and/or active,
// implementing the per-rule locality/activity selection spec.md §4.5
// describes: Active is used only when the subject is both local and
// active; Inactive when local but not active; Any otherwise (including
// every non-local case).
func (r Result) Pick(isLocal, isActive bool) ImplicitAuthorization {
	switch {
	case isLocal && isActive:
		return r.Active
	case isLocal && !isActive:
		return r.Inactive
	default:
		return r.Any
	}
}
