package handlers

import (
	"github.com/gofiber/fiber/v2"

	"equipstore/internal/services"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

// GET /api/v1/categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, cats)
}
