package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	echo "github.com/labstack/echo/v4"
)

// BotTokenMiddleware authenticates the external WhatsApp bot using a
// pre-shared bearer token. It guards the polling and reply-ingestion routes;
// a bad or missing token is rejected before any store access.
func BotTokenMiddleware(token string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "bot token not configured"})
			}

			h := strings.TrimSpace(c.Request().Header.Get("Authorization"))
			presented, ok := strings.CutPrefix(h, "Bearer ")
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid bearer token"})
			}
			return next(c)
		}
	}
}
