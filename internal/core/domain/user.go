package domain

import "time"

// User models a registered account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// SecurityQuestion is one entry of the static recovery-question catalog,
// seeded once at startup and immutable thereafter.
type SecurityQuestion struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// SecurityAnswer stores the hashed answer a user gave to one catalog
// question. Unique per (user, question).
type SecurityAnswer struct {
	UserID     string `json:"user_id"`
	QuestionID int    `json:"question_id"`
	AnswerHash string `json:"-"`
}

// DefaultSecurityQuestions is the catalog inserted on first startup when the
// questions collection is empty.
var DefaultSecurityQuestions = []SecurityQuestion{
	{ID: 1, Text: "What was the name of your first pet?"},
	{ID: 2, Text: "What is your mother's maiden name?"},
	{ID: 3, Text: "What city were you born in?"},
	{ID: 4, Text: "What was the name of your elementary school?"},
	{ID: 5, Text: "What was the make of your first car?"},
}
