package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"equipstore/internal/apperr"
	"equipstore/internal/domain"
	applog "equipstore/internal/log"
)

func respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "data": data})
}

func parse(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.WithKind(apperr.KindBadRequest, err, "invalid request body")
	}
	return nil
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

func statusOf(k apperr.Kind) int {
	switch k {
	case apperr.KindBadRequest:
		return fiber.StatusBadRequest
	case apperr.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperr.KindForbidden:
		return fiber.StatusForbidden
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindConflict:
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler renders every failure as {success:false, message, errors?}.
// Outside production, 500 responses also carry the raw error.
func ErrorHandler(production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		msg := "Something went wrong. Please try again."
		var fields map[string]string

		var ae *apperr.Error
		var fe *fiber.Error
		switch {
		case errors.As(err, &ae):
			status = statusOf(ae.Kind)
			if status < fiber.StatusInternalServerError {
				msg = ae.Message
				fields = ae.Fields
			}
		case errors.As(err, &fe):
			status = fe.Code
			msg = fe.Message
		}

		body := fiber.Map{"success": false, "message": msg}
		if len(fields) > 0 {
			body["errors"] = fields
		}
		c.Status(status)
		switch {
		case status >= fiber.StatusInternalServerError:
			applog.Error(c, "server.error", err, nil)
			if !production {
				body["error"] = err.Error()
			}
		case status == fiber.StatusUnauthorized || status == fiber.StatusForbidden:
			applog.Security(c, "access.denied", map[string]any{"reason": msg})
		case len(fields) > 0:
			applog.Security(c, "validation.fail", map[string]any{"fields": fields})
		}
		return c.JSON(body)
	}
}
