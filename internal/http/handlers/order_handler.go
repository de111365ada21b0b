package handlers

import (
	"github.com/gofiber/fiber/v2"

	"equipstore/internal/apperr"
	applog "equipstore/internal/log"
	"equipstore/internal/services"
	"equipstore/internal/validate"
)

type OrderHandler struct {
	Orders *services.OrderService
}

// POST /api/v1/orders
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var in services.PlaceOrderInput
	if err := parse(c, &in); err != nil {
		return err
	}
	o, err := h.Orders.Place(c.UserContext(), currentUser(c).ID, in)
	if err != nil {
		applog.Warn(c, "order.place.fail", map[string]any{"reason": err.Error()})
		return err
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id":     o.ID,
		"order_number": o.OrderNumber,
		"total":        o.Total,
		"discount":     o.DiscountCode,
	})
	return respond(c, fiber.StatusCreated, o)
}

// GET /api/v1/orders
func (h *OrderHandler) List(c *fiber.Ctx) error {
	list, err := h.Orders.ListForUser(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, list)
}

// GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.NotFound("order not found")
	}
	o, err := h.Orders.Get(c.UserContext(), id, currentUser(c))
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, o)
}

// POST /api/v1/orders/:id/cancel
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.NotFound("order not found")
	}
	o, err := h.Orders.Cancel(c.UserContext(), id, currentUser(c))
	if err != nil {
		return err
	}
	applog.Audit(c, "order.cancel", map[string]any{"order_id": o.ID})
	return respond(c, fiber.StatusOK, o)
}

// PUT /api/v1/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.NotFound("order not found")
	}
	var upd services.StatusUpdate
	if err := parse(c, &upd); err != nil {
		return err
	}
	o, err := h.Orders.UpdateStatus(c.UserContext(), id, upd, currentUser(c))
	if err != nil {
		return err
	}
	applog.Audit(c, "order.status", map[string]any{"order_id": o.ID, "status": o.Status})
	return respond(c, fiber.StatusOK, o)
}
