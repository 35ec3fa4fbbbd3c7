package identity

import (
	"context"
	"log/slog"
	"testing"
)

func TestIsAllDigits(t *testing.T) {
	cases := map[string]bool{
		"0":     true,
		"1234":  true,
		"":      false,
		"12a":   false,
		"-1":    false,
		"john":  false,
	}
	for in, want := range cases {
		if got := isAllDigits(in); got != want {
			t.Errorf("isAllDigits(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestGroupsOfUserWrongKindReturnsNil(t *testing.T) {
	logger := slog.Default()
	got := GroupsOfUser(context.Background(), logger, MustParse("unix-group:wheel"))
	if got != nil {
		t.Errorf("GroupsOfUser with a non-user identity = %v, want nil", got)
	}
}

func TestUsersInGroupWrongKindReturnsNil(t *testing.T) {
	logger := slog.Default()
	got := UsersInGroup(context.Background(), logger, MustParse("unix-user:john"), true)
	if got != nil {
		t.Errorf("UsersInGroup with a non-group identity = %v, want nil", got)
	}
}

func TestUsersInGroupUnknownGroupFailsSoft(t *testing.T) {
	logger := slog.Default()
	// A group name vanishingly unlikely to exist on any test host: getent
	// should fail and UsersInGroup must fail soft (empty, no panic).
	got := UsersInGroup(context.Background(), logger, MustParse("unix-group:__localauthority_test_no_such_group__"), true)
	if len(got) != 0 {
		t.Errorf("UsersInGroup(nonexistent group) = %v, want empty", got)
	}
}
