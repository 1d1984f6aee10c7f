package domain

import "time"

// AccessLevel is the outcome of classifying a user against a list.
type AccessLevel string

const (
	AccessOwner  AccessLevel = "owner"
	AccessMember AccessLevel = "member"
	AccessDenied AccessLevel = "denied"
)

// CanRead reports whether the level grants read access (view list, members,
// tasks).
func (a AccessLevel) CanRead() bool {
	return a == AccessOwner || a == AccessMember
}

// CanEditTasks reports whether the level grants collaborative task editing.
// Membership grants editing rights over tasks but not governance rights over
// the list itself.
func (a AccessLevel) CanEditTasks() bool {
	return a == AccessOwner || a == AccessMember
}

// List is a collaborative to-do list. It has exactly one owner; the member
// set may be empty and never contains the owner.
type List struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	MemberIDs []string  `json:"member_ids"`
	CreatedAt time.Time `json:"created_at"`
}

// ClassifyAccess is the single authorization primitive: every list, member,
// and task operation is gated on its result.
func (l *List) ClassifyAccess(userID string) AccessLevel {
	if l.OwnerID == userID {
		return AccessOwner
	}
	if l.HasMember(userID) {
		return AccessMember
	}
	return AccessDenied
}

// HasMember reports whether userID is in the member set. The owner is never
// a member.
func (l *List) HasMember(userID string) bool {
	for _, id := range l.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
