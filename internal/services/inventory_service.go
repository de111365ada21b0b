package services

import (
	"context"

	"github.com/jmoiron/sqlx"

	"equipstore/internal/apperr"
	"equipstore/internal/domain"
	"equipstore/internal/repos"
)

// LowStockThreshold is the level at or below which a product shows LOW_STOCK.
const LowStockThreshold = 5

type InventoryService struct {
	db    *sqlx.DB
	Prods *repos.ProductRepo
	Inv   *repos.InventoryRepo
}

func NewInventoryService(db *sqlx.DB) *InventoryService {
	return &InventoryService{db: db, Prods: repos.NewProductRepo(db), Inv: repos.NewInventoryRepo(db)}
}

// CheckAvailability converts a stock level to IN_STOCK / LOW_STOCK / OUT_OF_STOCK,
// or BACKORDER when the shelf is empty but backorders are allowed.
func (s *InventoryService) CheckAvailability(ctx context.Context, productID string) (domain.Availability, error) {
	p, err := s.Prods.Get(ctx, productID)
	if err != nil {
		return domain.Availability{}, err
	}
	return availability(p), nil
}

func availability(p domain.Product) domain.Availability {
	qty := p.StockQuantity
	status := "OUT_OF_STOCK"
	switch {
	case qty > LowStockThreshold:
		status = "IN_STOCK"
	case qty > 0:
		status = "LOW_STOCK"
	case p.AllowBackorder:
		status = "BACKORDER"
	}
	if qty < 0 {
		qty = 0
	}
	return domain.Availability{Status: status, Qty: qty}
}

func (s *InventoryService) List(ctx context.Context) ([]repos.InventoryRow, error) {
	return s.Inv.ListAll(ctx)
}

func (s *InventoryService) History(ctx context.Context, productID string) ([]domain.InventoryLog, error) {
	return s.Inv.History(ctx, productID)
}

// SetStock overwrites a product's stock and records the difference as an adjustment.
// It returns the previous level.
func (s *InventoryService) SetStock(ctx context.Context, productID string, qty int, actor string) (int, error) {
	if qty < 0 {
		return 0, apperr.Invalid(map[string]string{"qty": "qty must be >= 0"})
	}
	var prev int
	err := repos.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var err error
		if prev, err = repos.NewProductRepo(tx).SetStock(ctx, productID, qty); err != nil {
			return err
		}
		if qty == prev {
			return nil
		}
		return repos.NewInventoryRepo(tx).Log(ctx, productID, qty-prev, domain.InventoryReasonAdjustment, "by "+actor)
	})
	return prev, err
}
