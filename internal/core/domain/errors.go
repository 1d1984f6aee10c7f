package domain

import "errors"

// Authentication / authorization.
var ErrUnauthenticated = errors.New("not logged in")
var ErrForbidden = errors.New("access forbidden")

// Users and credentials.
var ErrUserNotFound = errors.New("user not found")
var ErrUsernameTaken = errors.New("username already exists")
var ErrEmailTaken = errors.New("email already exists")
var ErrIncorrectPassword = errors.New("incorrect password")
var ErrValidation = errors.New("invalid input")

// Identity recovery.
var ErrQuestionNotFound = errors.New("security question not found")
var ErrNoQuestionSet = errors.New("no security question set")
var ErrIncorrectAnswer = errors.New("incorrect answer")
var ErrResetTicketInvalid = errors.New("reset ticket invalid or expired")

// Lists and membership.
var ErrListNotFound = errors.New("list not found")
var ErrAlreadyMember = errors.New("user is already a member")
var ErrMemberIsOwner = errors.New("owner cannot be added as a member")
var ErrMemberNotFound = errors.New("member not found")

// Tasks.
var ErrTaskNotFound = errors.New("task not found")
