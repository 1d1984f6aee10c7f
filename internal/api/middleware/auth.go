package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// SessionResolver resolves an opaque session token to a user id.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// Auth extracts the bearer session token, resolves it against the session
// store, and injects the user id into the request context. Requests without
// a resolvable session never reach a handler.
func Auth(sessions SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := BearerToken(c)
			if err != nil {
				return err
			}

			userID, err := sessions.Resolve(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired session")
			}

			c.Set("user_id", userID)
			c.Set("session_token", token)

			return next(c)
		}
	}
}

// BearerToken pulls the token out of the Authorization header.
func BearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return parts[1], nil
}
