package handlers

import (
	"github.com/gofiber/fiber/v2"

	"equipstore/internal/apperr"
	applog "equipstore/internal/log"
	"equipstore/internal/services"
	"equipstore/internal/validate"
)

type AdminHandler struct {
	Orders *services.OrderService
	Inv    *services.InventoryService
}

// GET /api/v1/admin/orders
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	ords, err := h.Orders.ListLatest(c.UserContext(), validate.Int(c.Query("limit"), 100))
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return err
	}
	return respond(c, fiber.StatusOK, ords)
}

// GET /api/v1/admin/inventory
func (h *AdminHandler) Inventory(c *fiber.Ctx) error {
	rows, err := h.Inv.List(c.UserContext())
	if err != nil {
		applog.Error(c, "admin.inventory.list.fail", err, nil)
		return err
	}
	return respond(c, fiber.StatusOK, rows)
}

// GET /api/v1/admin/inventory/:productId/history
func (h *AdminHandler) InventoryHistory(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("productId"))
	if !ok {
		return apperr.NotFound("product not found")
	}
	logs, err := h.Inv.History(c.UserContext(), pid)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, logs)
}

type stockReq struct {
	StockQuantity *int `json:"stockQuantity"`
}

// PUT /api/v1/admin/inventory/:productId
func (h *AdminHandler) UpdateInventory(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("productId"))
	if !ok {
		return apperr.NotFound("product not found")
	}
	var req stockReq
	if err := parse(c, &req); err != nil {
		return err
	}
	if req.StockQuantity == nil || *req.StockQuantity < 0 {
		return apperr.Invalid(map[string]string{"stockQuantity": "stockQuantity must be >= 0"})
	}
	prev, err := h.Inv.SetStock(c.UserContext(), pid, *req.StockQuantity, currentUser(c).ID)
	if err != nil {
		applog.Error(c, "admin.inventory.save.fail", err, map[string]any{"product": pid, "qty": *req.StockQuantity})
		return err
	}
	applog.Audit(c, "admin.inventory.save", map[string]any{"product": pid, "from": prev, "qty": *req.StockQuantity})
	avail, err := h.Inv.CheckAvailability(c.UserContext(), pid)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, avail)
}
