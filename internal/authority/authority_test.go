package authority

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"testing"

	"github.com/polkit-go/localauthority/internal/config"
	"github.com/polkit-go/localauthority/internal/identity"
	"github.com/polkit-go/localauthority/internal/rule"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mkPkla(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// layout builds a single top-level path containing one subdirectory with
// the given rule file content, and returns the top-level path.
func layout(t *testing.T, pklaContent string) string {
	t.Helper()
	top := t.TempDir()
	sub := filepath.Join(top, "50-local.d")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	mkPkla(t, sub, "local.pkla", pklaContent)
	return top
}

func newTestAuthority(t *testing.T, topLevels []string) *Authority {
	t.Helper()
	a := New(testLogger(), topLevels)
	if err := a.Construct(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(a.Finalize)
	return a
}

func TestCheckAuthorizationActiveLocalScenario(t *testing.T) {
	top := layout(t, `[root-foo]
Identity=unix-user:root
Action=com.example.awesomeproduct.foo
ResultAny=no
ResultInactive=auth_self
ResultActive=yes
`)
	a := newTestAuthority(t, []string{top})

	root := identity.New(identity.KindUser, "root")
	got := a.CheckAuthorization(context.Background(), root, true, true, "com.example.awesomeproduct.foo", nil, rule.Unknown)
	if got != rule.Authorized {
		t.Errorf("local+active: got %v, want authorized", got)
	}
}

func TestCheckAuthorizationInactiveLocalScenario(t *testing.T) {
	top := layout(t, `[root-foo]
Identity=unix-user:root
Action=com.example.awesomeproduct.foo
ResultAny=no
ResultInactive=auth_self
ResultActive=yes
`)
	a := newTestAuthority(t, []string{top})

	root := identity.New(identity.KindUser, "root")
	got := a.CheckAuthorization(context.Background(), root, true, false, "com.example.awesomeproduct.foo", nil, rule.Unknown)
	if got != rule.AuthenticationRequired {
		t.Errorf("local+inactive: got %v, want authentication_required", got)
	}
}

func TestCheckAuthorizationNotLocalScenario(t *testing.T) {
	top := layout(t, `[root-foo]
Identity=unix-user:root
Action=com.example.awesomeproduct.foo
ResultAny=no
ResultInactive=auth_self
ResultActive=yes
`)
	a := newTestAuthority(t, []string{top})

	root := identity.New(identity.KindUser, "root")
	got := a.CheckAuthorization(context.Background(), root, false, false, "com.example.awesomeproduct.foo", nil, rule.Unknown)
	if got != rule.NotAuthorized {
		t.Errorf("not local: got %v, want not_authorized", got)
	}
}

func TestCheckAuthorizationNoMatchReturnsImplicit(t *testing.T) {
	top := layout(t, `[root-foo]
Identity=unix-user:root
Action=com.example.awesomeproduct.foo
ResultActive=yes
`)
	a := newTestAuthority(t, []string{top})

	john := identity.New(identity.KindUser, "john")
	got := a.CheckAuthorization(context.Background(), john, true, true, "com.example.restrictedproduct.foo", nil, rule.Unknown)
	if got != rule.Unknown {
		t.Errorf("unmatched action: got %v, want unknown", got)
	}
}

func TestCheckAuthorizationDefaultOnlyMatch(t *testing.T) {
	top := layout(t, `[defaults]
Identity=default
Action=com.example.awesomeproduct.defaults-test
ResultActive=auth_self
`)
	a := newTestAuthority(t, []string{top})

	sally := identity.New(identity.KindUser, "sally")
	got := a.CheckAuthorization(context.Background(), sally, true, true, "com.example.awesomeproduct.defaults-test", nil, rule.Unknown)
	if got != rule.AuthenticationRequired {
		t.Errorf("default-only match: got %v, want authentication_required", got)
	}
}

// TestCheckAuthorizationGroupOverridesDefault exercises the full
// default → groups → user pass ordering (spec.md §4.5) against the real
// test-running user's actual primary group, since group membership is
// resolved against the OS and cannot be faked without bypassing the
// component under test.
func TestCheckAuthorizationGroupOverridesDefault(t *testing.T) {
	me, err := user.Current()
	if err != nil {
		t.Skipf("cannot resolve current user: %v", err)
	}
	group, err := user.LookupGroupId(me.Gid)
	if err != nil {
		t.Skipf("cannot resolve current user's primary group: %v", err)
	}

	top := layout(t, `[defaults]
Identity=default
Action=com.example.awesomeproduct.defaults-test
ResultActive=auth_self

[group-override]
Identity=unix-group:`+group.Name+`
Action=com.example.awesomeproduct.defaults-test
ResultActive=auth_admin
`)
	a := newTestAuthority(t, []string{top})

	subject := identity.New(identity.KindUser, me.Username)
	got := a.CheckAuthorization(context.Background(), subject, true, true, "com.example.awesomeproduct.defaults-test", nil, rule.Unknown)
	if got != rule.AdministratorAuthenticationRequired {
		t.Errorf("group match over default: got %v, want administrator_authentication_required", got)
	}
}

func TestCheckAuthorizationLastStoreWinsAcrossTopLevels(t *testing.T) {
	etcTop := t.TempDir()
	varTop := t.TempDir()
	etcSub := filepath.Join(etcTop, "50-local.d")
	varSub := filepath.Join(varTop, "50-local.d")
	if err := os.MkdirAll(etcSub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(varSub, 0o755); err != nil {
		t.Fatal(err)
	}
	mkPkla(t, etcSub, "a.pkla", `[r]
Identity=unix-user:root
Action=com.example.foo
ResultActive=yes
`)
	mkPkla(t, varSub, "a.pkla", `[r]
Identity=unix-user:root
Action=com.example.foo
ResultActive=no
`)

	a := newTestAuthority(t, []string{etcTop, varTop})
	root := identity.New(identity.KindUser, "root")
	got := a.CheckAuthorization(context.Background(), root, true, true, "com.example.foo", nil, rule.Unknown)
	if got != rule.NotAuthorized {
		t.Errorf("later top-level (var) should win: got %v, want not_authorized", got)
	}
}

// TestCheckAuthorizationEarlierStoreDecisiveSlotSurvivesLaterPartialMatch
// guards against merging raw Result tuples across stores before picking:
// the earlier store decides ResultActive=yes for this slot, and a later
// store matches the same rule but only sets ResultAny (leaving Active
// unknown). Per spec.md §4.5, the later store's own pick for the
// local+active slot is Unknown and must not overwrite the earlier store's
// decisive "authorized".
func TestCheckAuthorizationEarlierStoreDecisiveSlotSurvivesLaterPartialMatch(t *testing.T) {
	etcTop := t.TempDir()
	varTop := t.TempDir()
	etcSub := filepath.Join(etcTop, "50-local.d")
	varSub := filepath.Join(varTop, "50-local.d")
	if err := os.MkdirAll(etcSub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(varSub, 0o755); err != nil {
		t.Fatal(err)
	}
	mkPkla(t, etcSub, "a.pkla", `[r]
Identity=default
Action=com.example.awesomeproduct.defaults-test
ResultActive=yes
`)
	mkPkla(t, varSub, "a.pkla", `[r]
Identity=default
Action=com.example.awesomeproduct.defaults-test
ResultAny=no
`)

	a := newTestAuthority(t, []string{etcTop, varTop})
	sally := identity.New(identity.KindUser, "sally")
	got := a.CheckAuthorization(context.Background(), sally, true, true, "com.example.awesomeproduct.defaults-test", nil, rule.Unknown)
	if got != rule.Authorized {
		t.Errorf("later store's unknown Active slot must not clobber earlier store's decisive pick: got %v, want authorized", got)
	}
}

func TestCheckAuthorizationEmptyStoreSetReturnsImplicit(t *testing.T) {
	a := newTestAuthority(t, []string{filepath.Join(t.TempDir(), "missing")})
	root := identity.New(identity.KindUser, "root")
	got := a.CheckAuthorization(context.Background(), root, true, true, "com.example.foo", nil, rule.AuthenticationRequired)
	if got != rule.AuthenticationRequired {
		t.Errorf("empty store set: got %v, want the input implicit value", got)
	}
}

func TestCheckAuthorizationRepeatedQueryIsStable(t *testing.T) {
	top := layout(t, `[r]
Identity=unix-user:root
Action=com.example.foo
ResultActive=yes
`)
	a := newTestAuthority(t, []string{top})
	root := identity.New(identity.KindUser, "root")

	first := a.CheckAuthorization(context.Background(), root, true, true, "com.example.foo", nil, rule.Unknown)
	second := a.CheckAuthorization(context.Background(), root, true, true, "com.example.foo", nil, rule.Unknown)
	if first != second {
		t.Errorf("repeated query diverged: %v != %v", first, second)
	}
	if first != rule.Authorized {
		t.Fatalf("got %v, want authorized", first)
	}
}

type fakeAdminSource struct {
	values []string
	err    error
}

func (f fakeAdminSource) GetStringList(section, key string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.values, nil
}

func TestGetAdminIdentitiesDelegatesToResolver(t *testing.T) {
	a := New(testLogger(), nil)
	src := fakeAdminSource{err: config.ErrKeyAbsent}
	got := a.GetAdminIdentities(context.Background(), src)
	if len(got) != 1 || got[0] != identity.New(identity.KindUser, "0") {
		t.Errorf("got %v, want [unix-user:0]", got)
	}
}

func TestConstructFinalizeLifecycle(t *testing.T) {
	top := layout(t, `[r]
Identity=unix-user:root
Action=com.example.foo
ResultActive=yes
`)
	a := New(testLogger(), []string{top})
	if err := a.Construct(context.Background()); err != nil {
		t.Fatal(err)
	}
	if a.loadSnapshot() == nil {
		t.Fatal("expected a non-nil snapshot after Construct")
	}
	a.Finalize()
	if a.monitor != nil {
		t.Error("expected monitor to be nil after Finalize")
	}
}

func TestCheckAuthorizationUnknownNeverOverwritesDecided(t *testing.T) {
	top := layout(t, `[partial]
Identity=unix-user:root
Action=com.example.foo
`)
	a := newTestAuthority(t, []string{top})
	root := identity.New(identity.KindUser, "root")
	got := a.CheckAuthorization(context.Background(), root, false, false, "com.example.foo", nil, rule.Authorized)
	if got != rule.Authorized {
		t.Errorf("unknown result slot should not overwrite implicit: got %v, want authorized", got)
	}
}
