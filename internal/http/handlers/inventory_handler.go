package handlers

import (
	"github.com/gofiber/fiber/v2"

	"equipstore/internal/apperr"
	"equipstore/internal/services"
	"equipstore/internal/validate"
)

type InventoryHandler struct {
	Inv *services.InventoryService
}

// GET /api/v1/products/:id/availability
func (h *InventoryHandler) Check(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.NotFound("product not found")
	}
	avail, err := h.Inv.CheckAvailability(c.UserContext(), productID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, avail)
}
