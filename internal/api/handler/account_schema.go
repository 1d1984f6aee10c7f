package handler

import "github.com/taskhive/todo-system/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Request types ---

type securityAnswerRequest struct {
	QuestionID int    `json:"question_id" validate:"required"`
	Answer     string `json:"answer"      validate:"required"`
}

type registerRequest struct {
	Name     string                  `json:"name"     validate:"required"`
	Username string                  `json:"username" validate:"required"`
	Email    string                  `json:"email"    validate:"omitempty,email"`
	Password string                  `json:"password" validate:"required,min=6"`
	Answers  []securityAnswerRequest `json:"security_answers" validate:"required,min=1,dive"`
}

type loginRequest struct {
	Credentials string `json:"credentials" validate:"required"`
	Password    string `json:"password"    validate:"required"`
}

type updateProfileRequest struct {
	Name     string `json:"name"     validate:"required"`
	Username string `json:"username" validate:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type securityAnswersRequest struct {
	Answers []securityAnswerRequest `json:"security_answers" validate:"required,min=1,dive"`
}

type recoverRequest struct {
	Credentials string `json:"credentials" validate:"required"`
}

type verifyAnswerRequest struct {
	Username   string `json:"username"    validate:"required"`
	QuestionID int    `json:"question_id" validate:"required"`
	Answer     string `json:"answer"      validate:"required"`
}

type resetPasswordRequest struct {
	Username    string `json:"username"     validate:"required"`
	ResetTicket string `json:"reset_ticket" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// --- Response types ---

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

type recoverResponse struct {
	Username   string `json:"username"`
	QuestionID int    `json:"question_id"`
	Question   string `json:"question"`
}

type verifyAnswerResponse struct {
	ResetTicket string `json:"reset_ticket"`
}
