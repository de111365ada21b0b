package repos

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"equipstore/internal/apperr"
	"equipstore/internal/domain"
)

// ProductRepo reads and mutates products. It works on a *sqlx.DB or a *sqlx.Tx.
type ProductRepo struct{ db sqlx.ExtContext }

func NewProductRepo(db sqlx.ExtContext) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
    id, category_id, name, slug, sku, description, price, stock_quantity, weight,
    allow_backorder, sales_count, images_json, is_active,
    created_at, COALESCE(updated_at,'') AS updated_at`

func decodeImages(ps []domain.Product) {
	for i := range ps {
		ps[i].Images = []string{}
		_ = json.Unmarshal([]byte(ps[i].ImagesJSON), &ps[i].Images)
	}
}

func (r *ProductRepo) List(ctx context.Context, catID, q string, limit, offset int) ([]domain.Product, error) {
	where := `is_active = 1`
	args := []any{}
	if q != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`
		args = append(args, "%"+q+"%", "%"+q+"%")
	}
	if catID != "" {
		where += ` AND category_id = ?`
		args = append(args, catID)
	}
	query := `SELECT ` + productCols + ` FROM products WHERE ` + where + `
  ORDER BY created_at DESC, name
  LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	out := []domain.Product{}
	if err := sqlx.SelectContext(ctx, r.db, &out, query, args...); err != nil {
		return nil, err
	}
	decodeImages(out)
	return out, nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	err := sqlx.GetContext(ctx, r.db, &p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	if err != nil {
		return domain.Product{}, classify(err, "product")
	}
	ps := []domain.Product{p}
	decodeImages(ps)
	return ps[0], nil
}

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	b, _ := json.Marshal(p.Images)
	p.ImagesJSON = string(b)
	p.CreatedAt = nowStamp()
	_, err := sqlx.NamedExecContext(ctx, r.db, `
	  INSERT INTO products(id, category_id, name, slug, sku, description, price, stock_quantity, weight,
	    allow_backorder, sales_count, images_json, is_active, created_at)
	  VALUES(:id, :category_id, :name, :slug, :sku, :description, :price, :stock_quantity, :weight,
	    :allow_backorder, :sales_count, :images_json, :is_active, :created_at)
	`, p)
	return classify(err, "product")
}

// ConsumeStock takes qty units for a sale and bumps the sales counter. The
// availability check and the write are one statement, so two concurrent orders
// cannot both take the last unit.
func (r *ProductRepo) ConsumeStock(ctx context.Context, id string, qty int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - ?, sales_count = sales_count + ?, updated_at = ?
		WHERE id = ? AND is_active = 1 AND (allow_backorder = 1 OR stock_quantity >= ?)
	`, qty, qty, nowStamp(), id, qty)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.BadRequestf("insufficient stock for product %s", id)
	}
	return nil
}

// RestoreStock reverses ConsumeStock for a cancelled order line.
func (r *ProductRepo) RestoreStock(ctx context.Context, id string, qty int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity + ?, sales_count = MAX(sales_count - ?, 0), updated_at = ?
		WHERE id = ?
	`, qty, qty, nowStamp(), id)
	return err
}

// SetStock overwrites the stock level and returns the previous one.
func (r *ProductRepo) SetStock(ctx context.Context, id string, qty int) (int, error) {
	var prev int
	if err := sqlx.GetContext(ctx, r.db, &prev, `SELECT stock_quantity FROM products WHERE id = ?`, id); err != nil {
		return 0, classify(err, "product")
	}
	_, err := r.db.ExecContext(ctx, `UPDATE products SET stock_quantity = ?, updated_at = ? WHERE id = ?`, qty, nowStamp(), id)
	return prev, err
}
