package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"equipstore/internal/apperr"
	"equipstore/internal/domain"
	applog "equipstore/internal/log"
	"equipstore/internal/services"
)

type DiscountHandler struct {
	Discounts *services.DiscountService
}

type validateDiscountReq struct {
	Code         string  `json:"code"`
	OrderAmount  float64 `json:"orderAmount"`
	ShippingCost float64 `json:"shippingCost"`
}

// POST /api/v1/discounts/validate
func (h *DiscountHandler) Validate(c *fiber.Ctx) error {
	var req validateDiscountReq
	if err := parse(c, &req); err != nil {
		return err
	}
	if req.OrderAmount < 0 || req.ShippingCost < 0 {
		return apperr.Invalid(map[string]string{"orderAmount": "amounts must be >= 0"})
	}
	a, err := h.Discounts.Validate(c.UserContext(), req.Code, req.OrderAmount, req.ShippingCost)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, a)
}

type createDiscountReq struct {
	Code           string     `json:"code"`
	Description    string     `json:"description"`
	Type           string     `json:"type"`
	Value          float64    `json:"value"`
	MaxDiscount    *float64   `json:"maxDiscount"`
	MinOrderAmount *float64   `json:"minOrderAmount"`
	UsageLimit     *int       `json:"usageLimit"`
	StartDate      *time.Time `json:"startDate"`
	EndDate        *time.Time `json:"endDate"`
	IsActive       *bool      `json:"isActive"`
}

// POST /api/v1/discounts
func (h *DiscountHandler) Create(c *fiber.Ctx) error {
	var req createDiscountReq
	if err := parse(c, &req); err != nil {
		return err
	}
	d := &domain.Discount{
		Code: req.Code, Description: req.Description, Type: domain.DiscountType(req.Type), Value: req.Value,
		MaxDiscount: req.MaxDiscount, MinOrderAmount: req.MinOrderAmount, UsageLimit: req.UsageLimit,
		StartDate: req.StartDate, EndDate: req.EndDate, IsActive: req.IsActive == nil || *req.IsActive,
	}
	if err := h.Discounts.Create(c.UserContext(), d); err != nil {
		return err
	}
	applog.Audit(c, "discount.create", map[string]any{"code": d.Code, "type": d.Type})
	return respond(c, fiber.StatusCreated, d)
}

// GET /api/v1/discounts
func (h *DiscountHandler) List(c *fiber.Ctx) error {
	ds, err := h.Discounts.List(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, ds)
}
