package rule

import "testing"

func TestRuleMatchesIdentity(t *testing.T) {
	r := Rule{Identities: []string{"unix-user:john", DefaultIdentity}}
	if !r.MatchesIdentity("unix-user:john") {
		t.Error("expected match on unix-user:john")
	}
	if !r.MatchesIdentity(DefaultIdentity) {
		t.Error("expected match on default")
	}
	if r.MatchesIdentity("unix-user:jane") {
		t.Error("expected no match on unix-user:jane")
	}
}

func TestRuleMatchesAction(t *testing.T) {
	r := Rule{Actions: []string{"com.example.awesomeproduct.*"}}
	if !r.MatchesAction("com.example.awesomeproduct.foo") {
		t.Error("expected glob match")
	}
	if r.MatchesAction("com.example.restrictedproduct.foo") {
		t.Error("expected no match for a different action namespace")
	}

	exact := Rule{Actions: []string{"com.example.bar"}}
	if !exact.MatchesAction("com.example.bar") {
		t.Error("expected exact match")
	}
	if exact.MatchesAction("com.example.barbaz") {
		t.Error("exact pattern must be anchored, not a prefix match")
	}
}

func TestRuleMatchesDetails(t *testing.T) {
	r := Rule{Details: map[string]string{"path": "/etc/shadow"}}
	if !r.MatchesDetails(map[string]string{"path": "/etc/shadow", "extra": "x"}) {
		t.Error("expected details to satisfy constraint")
	}
	if r.MatchesDetails(map[string]string{"path": "/etc/passwd"}) {
		t.Error("expected mismatched detail to fail")
	}
	if r.MatchesDetails(nil) {
		t.Error("expected missing detail key to fail")
	}

	noConstraints := Rule{}
	if !noConstraints.MatchesDetails(nil) {
		t.Error("a rule with no constraints should always match details")
	}
}

func TestRuleMatchesCombinesAllThree(t *testing.T) {
	r := Rule{
		Identities: []string{"unix-user:john"},
		Actions:    []string{"com.example.*"},
		Details:    map[string]string{"k": "v"},
	}
	if !r.Matches("unix-user:john", "com.example.foo", map[string]string{"k": "v"}) {
		t.Error("expected full match")
	}
	if r.Matches("unix-user:jane", "com.example.foo", map[string]string{"k": "v"}) {
		t.Error("identity mismatch should fail overall match")
	}
	if r.Matches("unix-user:john", "com.other.foo", map[string]string{"k": "v"}) {
		t.Error("action mismatch should fail overall match")
	}
	if r.Matches("unix-user:john", "com.example.foo", map[string]string{"k": "other"}) {
		t.Error("detail mismatch should fail overall match")
	}
}
