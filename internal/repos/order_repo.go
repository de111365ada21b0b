package repos

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"equipstore/internal/apperr"
	"equipstore/internal/domain"
)

type OrderRepo struct{ db sqlx.ExtContext }

func NewOrderRepo(db sqlx.ExtContext) *OrderRepo { return &OrderRepo{db: db} }

// ---------- Admin list summary ----------
type OrderSummary struct {
	ID          string  `db:"id" json:"id"`
	OrderNumber string  `db:"order_number" json:"orderNumber"`
	UserID      string  `db:"user_id" json:"userId"`
	Customer    string  `db:"customer_name" json:"customerName"`
	Email       string  `db:"customer_email" json:"customerEmail"`
	Total       float64 `db:"total" json:"total"`
	Status      string  `db:"status" json:"status"`
	CreatedAt   string  `db:"created_at" json:"createdAt"`
}

const orderCols = `id, order_number, user_id, status, payment_method, payment_status,
  subtotal, discount_amount, discount_code, shipping_cost, tax, total, shipping_method_id,
  shipping_address, billing_address, customer_notes, tracking_number, created_at, updated_at`

// Create inserts the order header and its line items.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	ship, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return err
	}
	o.ShippingAddrJSON = string(ship)
	o.BillingAddrJSON = ""
	if o.BillingAddress != nil {
		bill, err := json.Marshal(o.BillingAddress)
		if err != nil {
			return err
		}
		o.BillingAddrJSON = string(bill)
	}
	if o.CreatedAt == "" {
		o.CreatedAt = nowStamp()
	}
	o.UpdatedAt = o.CreatedAt

	if _, err := r.db.ExecContext(ctx, `
	  INSERT INTO orders(`+orderCols+`)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, o.ID, o.OrderNumber, o.UserID, string(o.Status), o.PaymentMethod, o.PaymentStatus,
		o.Subtotal, o.DiscountAmount, o.DiscountCode, o.ShippingCost, o.Tax, o.Total, o.ShippingMethodID,
		o.ShippingAddrJSON, o.BillingAddrJSON, o.CustomerNotes, o.TrackingNumber, o.CreatedAt, o.UpdatedAt); err != nil {
		return classify(err, "order")
	}

	for i := range o.Items {
		it := &o.Items[i]
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		it.OrderID = o.ID
		if _, err := sqlx.NamedExecContext(ctx, r.db, `
		  INSERT INTO order_items(id, order_id, product_id, name, sku, image, price, quantity, total)
		  VALUES (:id, :order_id, :product_id, :name, :sku, :image, :price, :quantity, :total)
		`, it); err != nil {
			return err
		}
	}
	return nil
}

// Get loads an order with items, status history and tracking updates.
func (r *OrderRepo) Get(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	if err := sqlx.GetContext(ctx, r.db, &o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, id); err != nil {
		return nil, classify(err, "order")
	}
	if err := json.Unmarshal([]byte(o.ShippingAddrJSON), &o.ShippingAddress); err != nil {
		return nil, err
	}
	if o.BillingAddrJSON != "" {
		var bill domain.Address
		if err := json.Unmarshal([]byte(o.BillingAddrJSON), &bill); err != nil {
			return nil, err
		}
		o.BillingAddress = &bill
	}

	o.Items = []domain.OrderItem{}
	if err := sqlx.SelectContext(ctx, r.db, &o.Items, `
		SELECT id, order_id, product_id, name, sku, image, price, quantity, total
		FROM order_items WHERE order_id = ? ORDER BY name
	`, id); err != nil {
		return nil, err
	}
	o.History = []domain.OrderStatusHistory{}
	if err := sqlx.SelectContext(ctx, r.db, &o.History, `
		SELECT id, order_id, status, note, changed_by, created_at
		FROM order_status_history WHERE order_id = ? ORDER BY created_at, rowid
	`, id); err != nil {
		return nil, err
	}
	o.Tracking = []domain.OrderTrackingUpdate{}
	if err := sqlx.SelectContext(ctx, r.db, &o.Tracking, `
		SELECT id, order_id, status, message, location, created_at
		FROM order_tracking_updates WHERE order_id = ? ORDER BY created_at, rowid
	`, id); err != nil {
		return nil, err
	}
	return &o, nil
}

// SetStatus moves an order from one status to another. The update only applies
// while the order is still in from, so two concurrent transitions cannot both win.
func (r *OrderRepo) SetStatus(ctx context.Context, id string, from, to domain.OrderStatus, trackingNumber string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = ?, tracking_number = CASE WHEN ? = '' THEN tracking_number ELSE ? END, updated_at = ?
		WHERE id = ? AND status = ?
	`, string(to), trackingNumber, trackingNumber, nowStamp(), id, string(from))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.Conflict("order status changed, reload and retry")
	}
	return nil
}

func (r *OrderRepo) AddHistory(ctx context.Context, h domain.OrderStatusHistory) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.CreatedAt == "" {
		h.CreatedAt = nowStamp()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO order_status_history(id, order_id, status, note, changed_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, h.ID, h.OrderID, string(h.Status), h.Note, h.ChangedBy, h.CreatedAt)
	return err
}

func (r *OrderRepo) AddTracking(ctx context.Context, u domain.OrderTrackingUpdate) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt == "" {
		u.CreatedAt = nowStamp()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO order_tracking_updates(id, order_id, status, message, location, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, u.ID, u.OrderID, string(u.Status), u.Message, u.Location, u.CreatedAt)
	return err
}

func (r *OrderRepo) ListLatest(ctx context.Context, limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []OrderSummary{}
	err := sqlx.SelectContext(ctx, r.db, &out, `
		SELECT o.id, o.order_number, o.user_id, u.name AS customer_name, u.email AS customer_email,
		       o.total, o.status, o.created_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
		ORDER BY o.created_at DESC
		LIMIT ?
	`, limit)
	return out, err
}

// ListByUser returns a customer's orders, newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]OrderSummary, error) {
	out := []OrderSummary{}
	err := sqlx.SelectContext(ctx, r.db, &out, `
		SELECT o.id, o.order_number, o.user_id, u.name AS customer_name, u.email AS customer_email,
		       o.total, o.status, o.created_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.user_id = ?
		ORDER BY o.created_at DESC
	`, userID)
	return out, err
}
