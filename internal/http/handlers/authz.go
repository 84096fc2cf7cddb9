package handlers

import (
	"strings"

	applog "givetzy/internal/log"
	"givetzy/internal/services"

	"github.com/gofiber/fiber/v2"
)

func bearerToken(c *fiber.Ctx) string {
	h := c.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	// Websocket clients cannot set headers; allow the query fallback there.
	return c.Query("token")
}

// RequireUser gates a route behind a valid access token. Missing or expired
// tokens are 401, malformed or mis-signed ones 403.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := bearerToken(c)
		if tok == "" {
			return jsonErr(c, fiber.StatusUnauthorized, "missing access token")
		}
		u, err := auth.Verify(tok)
		if err != nil {
			if err == services.ErrTokenExpired {
				applog.Security(c, "access.denied.expired", nil)
				return jsonErr(c, fiber.StatusUnauthorized, "token expired")
			}
			applog.Security(c, "access.denied.invalid", nil)
			return jsonErr(c, fiber.StatusForbidden, "invalid token")
		}
		c.Locals("user", u)
		c.Locals("user_id", u.ID)
		return c.Next()
	}
}

// OptionalUser attaches the user when a valid token is present but lets
// anonymous requests through.
func OptionalUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tok := bearerToken(c); tok != "" {
			if u, err := auth.Verify(tok); err == nil {
				c.Locals("user", u)
				c.Locals("user_id", u.ID)
			}
		}
		return c.Next()
	}
}

func currentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
