package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"equipstore/internal/apperr"
	"equipstore/internal/domain"
	"equipstore/internal/services"
)

func bearer(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func guard(auth *services.AuthService, allow func(*domain.User) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := bearer(c)
		if tok == "" {
			return apperr.Unauthorized("authentication required")
		}
		u, err := auth.CurrentUser(c.UserContext(), tok)
		if err != nil {
			return err
		}
		c.Locals("user", u)
		if !allow(u) {
			return apperr.Forbidden("access denied")
		}
		return c.Next()
	}
}

// RequireUser enforces a valid bearer token.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return guard(auth, func(*domain.User) bool { return true })
}

// RequireStaff admits STAFF and ADMIN accounts.
func RequireStaff(auth *services.AuthService) fiber.Handler {
	return guard(auth, (*domain.User).IsStaff)
}

func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return guard(auth, (*domain.User).IsAdmin)
}
