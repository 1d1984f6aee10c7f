package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxUserID extracts the authenticated user id injected by the Auth
// middleware. Its presence proves the middleware ran; a handler reached
// without it is a routing mistake, rejected with 401.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return userID, nil
}

// ctxSessionToken extracts the raw session token, needed by logout and
// account deletion to invalidate the session they arrived on.
func ctxSessionToken(c echo.Context) string {
	token, _ := c.Get("session_token").(string)
	return token
}
