package repos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"equipstore/internal/apperr"
	"equipstore/internal/domain"
)

type DiscountRepo struct{ db sqlx.ExtContext }

func NewDiscountRepo(db sqlx.ExtContext) *DiscountRepo { return &DiscountRepo{db: db} }

type discountRow struct {
	ID             string          `db:"id"`
	Code           string          `db:"code"`
	Description    string          `db:"description"`
	Type           string          `db:"type"`
	Value          float64         `db:"value"`
	MaxDiscount    sql.NullFloat64 `db:"max_discount"`
	MinOrderAmount sql.NullFloat64 `db:"min_order_amount"`
	UsageLimit     sql.NullInt64   `db:"usage_limit"`
	UsageCount     int             `db:"usage_count"`
	StartDate      sql.NullString  `db:"start_date"`
	EndDate        sql.NullString  `db:"end_date"`
	IsActive       bool            `db:"is_active"`
	CreatedAt      string          `db:"created_at"`
}

func (r discountRow) toDomain() domain.Discount {
	return domain.Discount{
		ID:             r.ID,
		Code:           r.Code,
		Description:    r.Description,
		Type:           domain.DiscountType(r.Type),
		Value:          r.Value,
		MaxDiscount:    floatPtr(r.MaxDiscount),
		MinOrderAmount: floatPtr(r.MinOrderAmount),
		UsageLimit:     intPtr(r.UsageLimit),
		UsageCount:     r.UsageCount,
		StartDate:      timePtr(r.StartDate),
		EndDate:        timePtr(r.EndDate),
		IsActive:       r.IsActive,
		CreatedAt:      r.CreatedAt,
	}
}

const discountCols = `id, code, description, type, value, max_discount, min_order_amount,
  usage_limit, usage_count, start_date, end_date, is_active, COALESCE(created_at,'') AS created_at`

// ActiveByCode matches the code case-insensitively among active discounts.
func (r *DiscountRepo) ActiveByCode(ctx context.Context, code string) (domain.Discount, error) {
	var row discountRow
	err := sqlx.GetContext(ctx, r.db, &row, `SELECT `+discountCols+`
		FROM discounts WHERE UPPER(code) = UPPER(?) AND is_active = 1`, code)
	if err != nil {
		return domain.Discount{}, classify(err, "discount")
	}
	return row.toDomain(), nil
}

func (r *DiscountRepo) Get(ctx context.Context, id string) (domain.Discount, error) {
	var row discountRow
	if err := sqlx.GetContext(ctx, r.db, &row, `SELECT `+discountCols+` FROM discounts WHERE id = ?`, id); err != nil {
		return domain.Discount{}, classify(err, "discount")
	}
	return row.toDomain(), nil
}

func (r *DiscountRepo) List(ctx context.Context) ([]domain.Discount, error) {
	rows := []discountRow{}
	if err := sqlx.SelectContext(ctx, r.db, &rows, `SELECT `+discountCols+` FROM discounts ORDER BY code`); err != nil {
		return nil, err
	}
	out := make([]domain.Discount, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *DiscountRepo) Create(ctx context.Context, d *domain.Discount) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.Code = domain.NormalizeCode(d.Code)
	d.CreatedAt = nowStamp()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO discounts(id, code, description, type, value, max_discount, min_order_amount,
		  usage_limit, usage_count, start_date, end_date, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?, ?, ?)
	`, d.ID, d.Code, d.Description, string(d.Type), d.Value, nullFloat(d.MaxDiscount), nullFloat(d.MinOrderAmount),
		nullInt(d.UsageLimit), nullTime(d.StartDate), nullTime(d.EndDate), d.IsActive, d.CreatedAt)
	return classify(err, "discount code")
}

// Redeem counts one use, refusing once the usage limit is reached. Check and
// increment are a single statement so concurrent orders cannot over-redeem.
func (r *DiscountRepo) Redeem(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE discounts SET usage_count = usage_count + 1
		WHERE id = ? AND is_active = 1 AND (usage_limit IS NULL OR usage_count < usage_limit)
	`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.Wrap(domain.ErrDiscountUsageLimit, domain.ErrDiscountUsageLimit.Message)
	}
	return nil
}

// Release gives back a use when a redeemed order is cancelled.
func (r *DiscountRepo) Release(ctx context.Context, code string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE discounts SET usage_count = MAX(usage_count - 1, 0) WHERE UPPER(code) = UPPER(?)
	`, code)
	return err
}
