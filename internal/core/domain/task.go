package domain

import "time"

// Priority is the urgency bucket of a task.
type Priority string

const (
	PriorityHigh Priority = "High"
	PriorityMid  Priority = "Mid"
	PriorityLow  Priority = "Low"
)

// NormalizePriority maps an empty or unknown value to the default Mid.
func NormalizePriority(p string) Priority {
	switch Priority(p) {
	case PriorityHigh, PriorityMid, PriorityLow:
		return Priority(p)
	default:
		return PriorityMid
	}
}

// Task belongs to exactly one list and has no lifecycle of its own: deleting
// the list deletes its tasks.
type Task struct {
	ID        string    `json:"id"`
	ListID    string    `json:"list_id"`
	Text      string    `json:"text"`
	Date      string    `json:"date"` // e.g. "2025-09-22" or "2025-09-22T14:00"
	Checked   bool      `json:"checked"`
	Priority  Priority  `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}
