package auth

import (
	"net/http"
	"strings"

	"github.com/Skotchmaster/diary/internal/logging"
	"github.com/labstack/echo/v4"
)

const userIDKey = "user_id"

type Verifier interface {
	Verify(token string) (string, error)
}

// RequireAuth admits requests carrying a valid bearer token and stores the
// bound user id on the context.
func RequireAuth(v Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := logging.FromContext(c.Request().Context())

			token, ok := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				l.Warn("auth_failed", "status", 401, "reason", "missing bearer token")
				return echo.NewHTTPError(http.StatusUnauthorized, "Access token required")
			}

			userID, err := v.Verify(token)
			if err != nil {
				l.Warn("auth_failed", "status", 403, "reason", "invalid token", "error", err)
				return echo.NewHTTPError(http.StatusForbidden, "Invalid token")
			}

			c.Set(userIDKey, userID)
			req := c.Request()
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l.With("user_id", userID))))
			return next(c)
		}
	}
}

// BearerToken extracts the credential from an Authorization header value.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// UserID returns the id RequireAuth stored, or "" outside protected routes.
func UserID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}
