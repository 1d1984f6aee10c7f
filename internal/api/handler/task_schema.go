package handler

import "time"

type createTaskRequest struct {
	Text     string `json:"text"     validate:"required"`
	Date     string `json:"date"     validate:"omitempty"`
	Checked  bool   `json:"checked"`
	Priority string `json:"priority" validate:"omitempty,oneof=High Mid Low"`
}

// updateTaskRequest is a partial update: only keys present in the JSON are
// applied, a nil pointer means "leave this field alone".
type updateTaskRequest struct {
	Text     *string `json:"text"`
	Date     *string `json:"date"`
	Checked  *bool   `json:"checked"`
	Priority *string `json:"priority" validate:"omitempty,oneof=High Mid Low"`
}

type taskResponse struct {
	ID        string    `json:"id"`
	ListID    string    `json:"list_id"`
	Text      string    `json:"text"`
	Date      string    `json:"date"`
	Checked   bool      `json:"checked"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}
