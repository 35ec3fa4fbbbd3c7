package identity

import "testing"

func TestParseRoundTrip(t *testing.T) {
	cases := []string{
		"unix-user:john",
		"unix-user:0",
		"unix-group:wheel",
		"unix-group:100",
		"unix-netgroup:bar",
	}
	for _, s := range cases {
		id, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", s, err)
		}
		if got := id.String(); got != s {
			t.Errorf("round trip: Parse(%q).String() = %q, want %q", s, got, s)
		}
		id2, err := Parse(id.String())
		if err != nil {
			t.Fatalf("Parse(%q) (second pass) error: %v", id.String(), err)
		}
		if id2 != id {
			t.Errorf("Parse(to_string(i)) != i for %q", s)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	cases := []string{
		"",
		"john",
		"unix-user:",
		"unix-role:admin",
		":value",
	}
	for _, s := range cases {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q) expected error, got nil", s)
		}
	}
}

func TestEqualityIsStructural(t *testing.T) {
	a := MustParse("unix-user:john")
	b := MustParse("unix-user:john")
	c := MustParse("unix-user:jane")
	if a != b {
		t.Error("identical identities should compare equal")
	}
	if a == c {
		t.Error("distinct identities should not compare equal")
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindUser:     "unix-user",
		KindGroup:    "unix-group",
		KindNetgroup: "unix-netgroup",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestNewConstructsWithoutParsing(t *testing.T) {
	id := New(KindGroup, "admin")
	if id.Kind() != KindGroup || id.Value() != "admin" {
		t.Errorf("New() = %+v, want Kind=Group Value=admin", id)
	}
	if id.String() != "unix-group:admin" {
		t.Errorf("String() = %q", id.String())
	}
}
