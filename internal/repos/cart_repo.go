package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ db sqlx.ExtContext }

func NewCartRepo(db sqlx.ExtContext) *CartRepo { return &CartRepo{db: db} }

type CartItemRow struct {
	ProductID  string  `db:"product_id" json:"productId"`
	Name       string  `db:"name" json:"name"`
	SKU        string  `db:"sku" json:"sku"`
	Quantity   int     `db:"quantity" json:"quantity"`
	PriceAtAdd float64 `db:"price_at_add" json:"priceAtAdd"`
	Price      float64 `db:"price" json:"price"`
	Weight     float64 `db:"weight" json:"weight"`
	Subtotal   float64 `db:"subtotal" json:"subtotal"`
}

func (r *CartRepo) UpsertItem(ctx context.Context, userID, productID string, qty int, price float64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cart_items(user_id,product_id,quantity,price_at_add,created_at)
		VALUES(?,?,?,?,?)
		ON CONFLICT(user_id,product_id) DO UPDATE
		SET quantity = cart_items.quantity + excluded.quantity,
		    price_at_add = excluded.price_at_add,
		    updated_at = excluded.created_at
	`, userID, productID, qty, price, nowStamp())
	return err
}

// View lists the cart priced at current product prices.
func (r *CartRepo) View(ctx context.Context, userID string) ([]CartItemRow, error) {
	rows := []CartItemRow{}
	err := sqlx.SelectContext(ctx, r.db, &rows, `
	  SELECT ci.product_id, p.name, p.sku, ci.quantity, ci.price_at_add, p.price, p.weight,
	         (ci.quantity*p.price) AS subtotal
	  FROM cart_items ci JOIN products p ON p.id=ci.product_id
	  WHERE ci.user_id = ?
	  ORDER BY p.name
	`, userID)
	return rows, err
}

func (r *CartRepo) Remove(ctx context.Context, userID, productID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ? AND product_id = ?`, userID, productID)
	return err
}

func (r *CartRepo) Clear(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ?`, userID)
	return err
}
