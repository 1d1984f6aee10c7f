package domain

import "testing"

func TestList_ClassifyAccess(t *testing.T) {
	list := &List{
		ID:        "l1",
		OwnerID:   "u1",
		MemberIDs: []string{"u2", "u3"},
	}

	cases := []struct {
		userID string
		want   AccessLevel
	}{
		{"u1", AccessOwner},
		{"u2", AccessMember},
		{"u3", AccessMember},
		{"u4", AccessDenied},
		{"", AccessDenied},
	}
	for _, tc := range cases {
		if got := list.ClassifyAccess(tc.userID); got != tc.want {
			t.Errorf("ClassifyAccess(%q) = %s, want %s", tc.userID, got, tc.want)
		}
	}
}

func TestAccessLevel_Permissions(t *testing.T) {
	for _, level := range []AccessLevel{AccessOwner, AccessMember} {
		if !level.CanRead() || !level.CanEditTasks() {
			t.Errorf("%s should read and edit tasks", level)
		}
	}
	if AccessDenied.CanRead() || AccessDenied.CanEditTasks() {
		t.Errorf("denied level should grant nothing")
	}
}

func TestList_HasMember_OwnerIsNotMember(t *testing.T) {
	list := &List{OwnerID: "u1", MemberIDs: []string{"u2"}}
	if list.HasMember("u1") {
		t.Errorf("owner must not appear in the member set")
	}
	if !list.HasMember("u2") {
		t.Errorf("expected u2 to be a member")
	}
}
