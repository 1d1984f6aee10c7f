package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/todo-system/internal/api/metrics"
	"github.com/taskhive/todo-system/internal/core/domain"
	"github.com/taskhive/todo-system/internal/core/ports"
)

// AccountHandler handles registration, sessions, profile, and recovery.
type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Register handles POST /api/auth/register. The fresh account is logged in
// immediately: the response carries a session token.
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	answers := make([]ports.SecurityAnswerInput, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, ports.SecurityAnswerInput{QuestionID: a.QuestionID, Answer: a.Answer})
	}

	result, err := h.accounts.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Answers:  answers,
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.Inc()
	return c.JSON(http.StatusCreated, authResponse{Token: result.Token, User: result.User})
}

// Login handles POST /api/auth/login. Credentials may be a username or an
// email.
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.accounts.Login(c.Request().Context(), req.Credentials, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			metrics.LoginsTotal.WithLabelValues("not_found").Inc()
		case errors.Is(err, domain.ErrIncorrectPassword):
			metrics.LoginsTotal.WithLabelValues("bad_password").Inc()
		default:
			metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{Token: result.Token, User: result.User})
}

// Logout handles POST /api/auth/logout.
func (h *AccountHandler) Logout(c echo.Context) error {
	if err := h.accounts.Logout(c.Request().Context(), ctxSessionToken(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

// Me handles GET /api/auth/me.
func (h *AccountHandler) Me(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.accounts.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /api/auth/profile.
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.accounts.UpdateProfile(c.Request().Context(), userID, req.Name, req.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword handles PUT /api/auth/password.
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.accounts.ChangePassword(c.Request().Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "password updated"})
}

// DeleteAccount handles DELETE /api/auth/account.
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.accounts.DeleteAccount(c.Request().Context(), userID, ctxSessionToken(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "account deleted"})
}

// Questions handles GET /api/auth/questions — the public catalog shown on the
// registration and recovery pages.
func (h *AccountHandler) Questions(c echo.Context) error {
	questions, err := h.accounts.Questions(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, questions)
}

// SetSecurityAnswers handles PUT /api/auth/security-answers.
func (h *AccountHandler) SetSecurityAnswers(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req securityAnswersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	answers := make([]ports.SecurityAnswerInput, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, ports.SecurityAnswerInput{QuestionID: a.QuestionID, Answer: a.Answer})
	}

	if err := h.accounts.SetSecurityAnswers(c.Request().Context(), userID, answers); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "security answers updated"})
}

// Recover handles POST /api/auth/recover — step one of recovery, surfacing
// one previously-set question for the identity.
func (h *AccountHandler) Recover(c echo.Context) error {
	var req recoverRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.accounts.RecoverQuestion(c.Request().Context(), req.Credentials)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, recoverResponse{
		Username:   result.Username,
		QuestionID: result.Question.ID,
		Question:   result.Question.Text,
	})
}

// VerifyAnswer handles POST /api/auth/recover/verify — step two. A correct
// answer yields the reset ticket step three must present.
func (h *AccountHandler) VerifyAnswer(c echo.Context) error {
	var req verifyAnswerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.accounts.VerifyAnswer(c.Request().Context(), req.Username, req.QuestionID, req.Answer)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, verifyAnswerResponse{ResetTicket: result.ResetTicket})
}

// ResetPassword handles POST /api/auth/recover/reset — step three.
func (h *AccountHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.accounts.ResetPassword(c.Request().Context(), req.Username, req.ResetTicket, req.NewPassword); err != nil {
		return err
	}

	metrics.PasswordResetsTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "password reset"})
}
