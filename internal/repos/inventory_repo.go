package repos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"equipstore/internal/domain"
)

// InventoryRepo keeps the stock movement ledger.
type InventoryRepo struct{ db sqlx.ExtContext }

func NewInventoryRepo(db sqlx.ExtContext) *InventoryRepo { return &InventoryRepo{db: db} }

// Row used by admin inventory pages
type InventoryRow struct {
	ProductID      string `db:"product_id" json:"productId"`
	Name           string `db:"name" json:"name"`
	SKU            string `db:"sku" json:"sku"`
	StockQuantity  int    `db:"stock_quantity" json:"stockQuantity"`
	AllowBackorder bool   `db:"allow_backorder" json:"allowBackorder"`
	SalesCount     int    `db:"sales_count" json:"salesCount"`
}

// ListAll returns stock levels for every product.
func (r *InventoryRepo) ListAll(ctx context.Context) ([]InventoryRow, error) {
	rows := []InventoryRow{}
	err := sqlx.SelectContext(ctx, r.db, &rows, `
		SELECT id AS product_id, name, sku, stock_quantity, allow_backorder, sales_count
		FROM products
		ORDER BY name
	`)
	return rows, err
}

// Log appends one movement to the ledger.
func (r *InventoryRepo) Log(ctx context.Context, productID string, change int, reason, reference string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inventory_logs(id, product_id, change, reason, reference, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), productID, change, reason, reference, nowStamp())
	return err
}

// History lists movements for a product, newest first.
func (r *InventoryRepo) History(ctx context.Context, productID string) ([]domain.InventoryLog, error) {
	out := []domain.InventoryLog{}
	err := sqlx.SelectContext(ctx, r.db, &out, `
		SELECT id, product_id, change, reason, reference, created_at
		FROM inventory_logs
		WHERE product_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, productID)
	return out, err
}
