package handlers

import (
	"github.com/gofiber/fiber/v2"

	"equipstore/internal/apperr"
	"equipstore/internal/domain"
	applog "equipstore/internal/log"
	"equipstore/internal/services"
	"equipstore/internal/validate"
)

type ShippingHandler struct {
	Shipping *services.ShippingService
	Catalog  *services.CatalogService
}

type calculateReq struct {
	State  string               `json:"state"`
	Weight *float64             `json:"weight"`
	Items  []services.PlaceItem `json:"items"`
}

// POST /api/v1/shipping/calculate
// Either weight or items must be given; items are weighed from the catalog.
func (h *ShippingHandler) Calculate(c *fiber.Ctx) error {
	var req calculateReq
	if err := parse(c, &req); err != nil {
		return err
	}
	var weight float64
	switch {
	case req.Weight != nil:
		weight = *req.Weight
	case len(req.Items) > 0:
		for _, it := range req.Items {
			if !validate.Qty(it.Quantity) {
				return apperr.Invalid(map[string]string{"items": "quantity must be between 1 and 1000"})
			}
			p, err := h.Catalog.GetProduct(c.UserContext(), it.ProductID)
			if err != nil {
				return err
			}
			weight += p.Weight * float64(it.Quantity)
		}
	default:
		return apperr.Invalid(map[string]string{"weight": "weight or items is required"})
	}
	quotes, err := h.Shipping.Calculate(c.UserContext(), req.State, weight)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, fiber.Map{"weight": weight, "methods": quotes})
}

// GET /api/v1/shipping/zones
func (h *ShippingHandler) Zones(c *fiber.Ctx) error {
	zones, err := h.Shipping.Zones(c.UserContext())
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, zones)
}

// POST /api/v1/shipping/zones
func (h *ShippingHandler) CreateZone(c *fiber.Ctx) error {
	var z domain.ShippingZone
	if err := parse(c, &z); err != nil {
		return err
	}
	z.ID = ""
	z.IsActive = true
	if err := h.Shipping.CreateZone(c.UserContext(), &z); err != nil {
		return err
	}
	applog.Audit(c, "shipping.zone.create", map[string]any{"zone_id": z.ID, "name": z.Name})
	return respond(c, fiber.StatusCreated, z)
}

// POST /api/v1/shipping/zones/:id/methods
func (h *ShippingHandler) CreateMethod(c *fiber.Ctx) error {
	zoneID, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.NotFound("shipping zone not found")
	}
	var m domain.ShippingMethod
	if err := parse(c, &m); err != nil {
		return err
	}
	m.ID = ""
	m.ZoneID = zoneID
	m.IsActive = true
	m.Rates = nil
	if err := h.Shipping.CreateMethod(c.UserContext(), &m); err != nil {
		return err
	}
	applog.Audit(c, "shipping.method.create", map[string]any{"method_id": m.ID, "zone_id": zoneID, "type": m.Type})
	return respond(c, fiber.StatusCreated, m)
}

// POST /api/v1/shipping/methods/:id/rates
func (h *ShippingHandler) AddRate(c *fiber.Ctx) error {
	methodID, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.NotFound("shipping method not found")
	}
	var wr domain.WeightRate
	if err := parse(c, &wr); err != nil {
		return err
	}
	wr.ID = ""
	wr.MethodID = methodID
	if err := h.Shipping.AddRate(c.UserContext(), &wr); err != nil {
		return err
	}
	applog.Audit(c, "shipping.rate.add", map[string]any{"method_id": methodID, "min": wr.MinWeight, "cost": wr.Cost})
	return respond(c, fiber.StatusCreated, wr)
}
