package handlers

import (
	"github.com/gofiber/fiber/v2"

	"equipstore/internal/apperr"
	"equipstore/internal/log"
	"equipstore/internal/services"
	"equipstore/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req credentials
	if err := parse(c, &req); err != nil {
		return err
	}
	email, ok := validate.Email(req.Email)
	if !ok || req.Password == "" {
		log.Security(c, "auth.login.fail", map[string]any{"reason": "bad_format"})
		return services.ErrBadCreds
	}
	u, tok, err := h.Auth.Login(c.UserContext(), email, req.Password)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_credentials"})
		return err
	}
	c.Locals("user", u)
	log.Audit(c, "auth.login.success", map[string]any{"role": u.Role})
	return respond(c, fiber.StatusOK, fiber.Map{"token": tok, "user": u})
}

// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req credentials
	if err := parse(c, &req); err != nil {
		return err
	}
	fields := map[string]string{}
	name, okName := validate.Name(req.Name)
	if !okName {
		fields["name"] = "name is required"
	}
	email, okEmail := validate.Email(req.Email)
	if !okEmail {
		fields["email"] = "a valid email is required"
	}
	if !validate.Password(req.Password) {
		fields["password"] = "password must be 8-72 characters with upper, lower, digit and symbol"
	}
	if len(fields) > 0 {
		return apperr.Invalid(fields)
	}
	u, tok, err := h.Auth.Register(c.UserContext(), name, email, req.Password)
	if err != nil {
		return err
	}
	c.Locals("user", u)
	log.Audit(c, "auth.register", nil)
	return respond(c, fiber.StatusCreated, fiber.Map{"token": tok, "user": u})
}

// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return respond(c, fiber.StatusOK, currentUser(c))
}
