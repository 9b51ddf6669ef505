package http

import (
	"net/http"

	"go-stock-portfolio/internal/portfolio/service"
	"go-stock-portfolio/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	sessionCookieName = "session_id"
	userIDContextKey  = "user_id"
)

// SessionMiddleware resolves the session cookie to a user ID and stores it
// on the request context. Requests without a valid session are rejected.
func SessionMiddleware(sessions service.SessionService, log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Login required"})
			}

			userID, err := sessions.Resolve(c.Request().Context(), cookie.Value)
			if err != nil {
				if err != service.ErrSessionNotFound {
					log.Error("Failed to resolve session", logger.ErrorField(err))
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Login required"})
			}

			c.Set(userIDContextKey, userID)
			return next(c)
		}
	}
}

// currentUserID returns the user ID placed on the context by SessionMiddleware.
func currentUserID(c echo.Context) uint {
	id, _ := c.Get(userIDContextKey).(uint)
	return id
}
