package handlers

import (
	"github.com/gofiber/fiber/v2"

	"equipstore/internal/apperr"
	"equipstore/internal/services"
	"equipstore/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

// GET /api/v1/cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.View(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, cv)
}

// POST /api/v1/cart/items
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req services.PlaceItem
	if err := parse(c, &req); err != nil {
		return err
	}
	pid, ok := validate.ID(req.ProductID)
	if !ok {
		return apperr.Invalid(map[string]string{"productId": "productId is required"})
	}
	if !validate.Qty(req.Quantity) {
		return apperr.Invalid(map[string]string{"quantity": "quantity must be between 1 and 1000"})
	}
	u := currentUser(c)
	if err := h.Cart.Add(c.UserContext(), u.ID, pid, req.Quantity); err != nil {
		return err
	}
	cv, err := h.Cart.View(c.UserContext(), u.ID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, cv)
}

// DELETE /api/v1/cart/items/:productId
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("productId"))
	if !ok {
		return apperr.NotFound("product not found")
	}
	u := currentUser(c)
	if err := h.Cart.Remove(c.UserContext(), u.ID, pid); err != nil {
		return err
	}
	cv, err := h.Cart.View(c.UserContext(), u.ID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, cv)
}
