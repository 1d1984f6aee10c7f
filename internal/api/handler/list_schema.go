package handler

import "time"

type createListRequest struct {
	Name string `json:"name" validate:"required"`
}

type renameListRequest struct {
	Name string `json:"name" validate:"required"`
}

type addMemberRequest struct {
	Username string `json:"username" validate:"required"`
}

type memberResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type listResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	MemberIDs []string  `json:"member_ids"`
	CreatedAt time.Time `json:"created_at"`
	// Access is the requester's own classification, so the UI can hide
	// owner-only controls. Present only on single-list responses.
	Access string `json:"access,omitempty"`
}
