package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"equipstore/internal/apperr"
	"equipstore/internal/config"
	applog "equipstore/internal/log"
)

func limitReached(action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		applog.Security(c, action, nil)
		return fiber.NewError(fiber.StatusTooManyRequests, "rate limit exceeded, retry soon")
	}
}

// NewApp builds the fiber app with middleware and every API route.
func NewApp(cfg config.Config, d *Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "equipstore",
		BodyLimit:    1 << 20, // 1 MiB
		ErrorHandler: ErrorHandler(cfg.Production()),
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:          120,
		Expiration:   time.Minute,
		LimitReached: limitReached("rate.global.hit"),
	}))

	user := RequireUser(d.Auth)
	staff := RequireStaff(d.Auth)
	admin := RequireAdmin(d.Auth)

	api := app.Group("/api/v1")

	// Auth (login throttled)
	api.Post("/auth/login", limiter.New(limiter.Config{
		Max:          5,
		Expiration:   10 * time.Minute,
		LimitReached: limitReached("rate.login.hit"),
	}), d.AuthHandler.Login)
	api.Post("/auth/register", d.AuthHandler.Register)
	api.Get("/auth/me", user, d.AuthHandler.Me)

	// Catalog
	api.Get("/categories", d.CategoryHandler.List)
	api.Get("/products", d.ProductHandler.List)
	api.Get("/products/:id", d.ProductHandler.Detail)
	api.Get("/products/:id/availability", limiter.New(limiter.Config{
		Max:        15,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|avail"
		},
		LimitReached: limitReached("rate.availability.hit"),
	}), d.InventoryHandler.Check)

	// Cart
	api.Get("/cart", user, d.CartHandler.View)
	api.Post("/cart/items", user, d.CartHandler.Add)
	api.Delete("/cart/items/:productId", user, d.CartHandler.Remove)

	// Orders
	api.Post("/orders", user, d.OrderHandler.Place)
	api.Get("/orders", user, d.OrderHandler.List)
	api.Get("/orders/:id", user, d.OrderHandler.Get)
	api.Post("/orders/:id/cancel", user, d.OrderHandler.Cancel)
	api.Put("/orders/:id/status", staff, d.OrderHandler.UpdateStatus)

	// Discounts
	api.Post("/discounts/validate", limiter.New(limiter.Config{
		Max:          20,
		Expiration:   time.Minute,
		LimitReached: limitReached("rate.discount.hit"),
	}), d.DiscountHandler.Validate)
	api.Get("/discounts", admin, d.DiscountHandler.List)
	api.Post("/discounts", admin, d.DiscountHandler.Create)

	// Shipping
	api.Post("/shipping/calculate", d.ShippingHandler.Calculate)
	api.Get("/shipping/zones", d.ShippingHandler.Zones)
	api.Post("/shipping/zones", admin, d.ShippingHandler.CreateZone)
	api.Post("/shipping/zones/:id/methods", admin, d.ShippingHandler.CreateMethod)
	api.Post("/shipping/methods/:id/rates", admin, d.ShippingHandler.AddRate)

	// Admin
	adm := api.Group("/admin", staff)
	adm.Get("/orders", d.AdminHandler.ListOrders)
	adm.Get("/inventory", d.AdminHandler.Inventory)
	adm.Get("/inventory/:productId/history", d.AdminHandler.InventoryHistory)
	adm.Put("/inventory/:productId", admin, d.AdminHandler.UpdateInventory)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return apperr.NotFound("route not found")
	})
	return app
}
