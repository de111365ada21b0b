package handlers

import (
	"github.com/jmoiron/sqlx"

	"equipstore/internal/cache"
	"equipstore/internal/config"
	"equipstore/internal/fixtures"
	"equipstore/internal/repos"
	"equipstore/internal/services"
)

type Deps struct {
	Auth   *services.AuthService
	Orders *services.OrderService

	// Fixtures shares the shipping cache with the handlers so loads invalidate it.
	Fixtures *fixtures.Loader

	AuthHandler      *AuthHandler
	CategoryHandler  *CategoryHandler
	ProductHandler   *ProductHandler
	InventoryHandler *InventoryHandler
	CartHandler      *CartHandler
	OrderHandler     *OrderHandler
	DiscountHandler  *DiscountHandler
	ShippingHandler  *ShippingHandler
	AdminHandler     *AdminHandler
}

// NewDeps wires repos, services and handlers. c and notify may be nil.
func NewDeps(db *sqlx.DB, cfg config.Config, c cache.Cache, notify services.Notifier) *Deps {
	catRepo := repos.NewCategoryRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)

	authSvc := services.NewAuthService(repos.NewUserRepo(db), cfg.JWTSecret, cfg.TokenTTL)
	catalogSvc := services.NewCatalogService(catRepo, prodRepo)
	invSvc := services.NewInventoryService(db)
	cartSvc := services.NewCartService(cartRepo, prodRepo)
	shipSvc := services.NewShippingService(repos.NewShippingRepo(db), c, cfg.CacheTTL)
	discSvc := services.NewDiscountService(repos.NewDiscountRepo(db))
	orderSvc := services.NewOrderService(db, shipSvc, discSvc, notify, cfg.TaxRate)

	return &Deps{
		Auth:   authSvc,
		Orders: orderSvc,

		Fixtures: &fixtures.Loader{
			Cats: catRepo, Catalog: catalogSvc, Shipping: shipSvc, Discounts: discSvc,
		},

		AuthHandler:      &AuthHandler{Auth: authSvc},
		CategoryHandler:  &CategoryHandler{Catalog: catalogSvc},
		ProductHandler:   &ProductHandler{Catalog: catalogSvc},
		InventoryHandler: &InventoryHandler{Inv: invSvc},
		CartHandler:      &CartHandler{Cart: cartSvc},
		OrderHandler:     &OrderHandler{Orders: orderSvc},
		DiscountHandler:  &DiscountHandler{Discounts: discSvc},
		ShippingHandler:  &ShippingHandler{Shipping: shipSvc, Catalog: catalogSvc},
		AdminHandler:     &AdminHandler{Orders: orderSvc, Inv: invSvc},
	}
}
