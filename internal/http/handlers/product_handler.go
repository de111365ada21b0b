package handlers

import (
	"github.com/gofiber/fiber/v2"

	"equipstore/internal/apperr"
	"equipstore/internal/services"
	"equipstore/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// GET /api/v1/products?category=&q=&page=
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var fields = map[string]string{}
	cat := c.Query("category")
	if cat != "" {
		if _, ok := validate.ID(cat); !ok {
			fields["category"] = "invalid category"
		}
	}
	q := c.Query("q")
	if q != "" {
		var ok bool
		if q, ok = validate.Q(q); !ok {
			fields["q"] = "search may only contain letters, digits, spaces, - and '"
		}
	}
	if len(fields) > 0 {
		return apperr.Invalid(fields)
	}
	page := validate.Int(c.Query("page"), 1)
	size := validate.Int(c.Query("pageSize"), 24)

	items, err := h.Catalog.ListProducts(c.UserContext(), cat, q, page, size)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, items)
}

// GET /api/v1/products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.NotFound("product not found")
	}
	p, err := h.Catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	if !p.IsActive {
		return apperr.NotFound("product not found")
	}
	return respond(c, fiber.StatusOK, p)
}
