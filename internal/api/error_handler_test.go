package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskhive/todo-system/internal/core/domain"
)

func render(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	return rec.Code, body.Error
}

func TestHTTPErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrUnauthenticated, http.StatusUnauthorized},
		{domain.ErrIncorrectPassword, http.StatusUnauthorized},
		{domain.ErrIncorrectAnswer, http.StatusUnauthorized},
		{domain.ErrResetTicketInvalid, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrValidation, http.StatusBadRequest},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrListNotFound, http.StatusNotFound},
		{domain.ErrTaskNotFound, http.StatusNotFound},
		{domain.ErrMemberNotFound, http.StatusNotFound},
		{domain.ErrQuestionNotFound, http.StatusNotFound},
		{domain.ErrNoQuestionSet, http.StatusUnprocessableEntity},
		{domain.ErrMemberIsOwner, http.StatusUnprocessableEntity},
		{domain.ErrUsernameTaken, http.StatusConflict},
		{domain.ErrEmailTaken, http.StatusConflict},
		{domain.ErrAlreadyMember, http.StatusConflict},
	}
	for _, tc := range cases {
		if code, _ := render(t, tc.err); code != tc.code {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.code, code)
		}
	}
}

// A nonexistent list and an existing but inaccessible one must remain
// distinguishable to the caller.
func TestHTTPErrorHandler_NotFoundVersusForbidden(t *testing.T) {
	if code, _ := render(t, domain.ErrListNotFound); code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
	if code, _ := render(t, domain.ErrForbidden); code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", code)
	}
}

func TestHTTPErrorHandler_WrappedErrorsStillMap(t *testing.T) {
	wrapped := fmt.Errorf("%w: name is required", domain.ErrValidation)
	code, msg := render(t, wrapped)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if msg == "" {
		t.Fatalf("expected the validation detail to survive")
	}
}

func TestHTTPErrorHandler_EchoErrorsPassThrough(t *testing.T) {
	code, msg := render(t, echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header"))
	if code != http.StatusUnauthorized || msg != "missing authorization header" {
		t.Fatalf("unexpected mapping: %d %q", code, msg)
	}
}

func TestHTTPErrorHandler_UnexpectedErrorIsOpaque(t *testing.T) {
	code, msg := render(t, fmt.Errorf("connection refused to mongodb"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if msg != "internal server error" {
		t.Fatalf("internal detail leaked: %q", msg)
	}
}
