package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"equipstore/internal/domain"
)

type UserRepo struct{ db sqlx.ExtContext }

func NewUserRepo(db sqlx.ExtContext) *UserRepo { return &UserRepo{db: db} }

const userCols = `id,email,name,password_hash,role,total_spent,order_count`

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := sqlx.GetContext(ctx, r.db, &u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, classify(err, "user")
	}
	return &u, nil
}

func (r *UserRepo) ByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := sqlx.GetContext(ctx, r.db, &u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, classify(err, "user")
	}
	return &u, nil
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users(id,email,name,password_hash,role,created_at)
		VALUES(?,?,?,?,?,?)
	`, u.ID, u.Email, u.Name, u.Hash, u.Role, nowStamp())
	return classify(err, "user with this email")
}

// RecordPurchase adds a placed order to the user's lifetime statistics.
func (r *UserRepo) RecordPurchase(ctx context.Context, userID string, amount float64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET total_spent = total_spent + ?, order_count = order_count + 1, updated_at = ?
		WHERE id = ?
	`, amount, nowStamp(), userID)
	return err
}

// ReversePurchase takes a cancelled order back out of the statistics.
func (r *UserRepo) ReversePurchase(ctx context.Context, userID string, amount float64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET total_spent = MAX(total_spent - ?, 0), order_count = MAX(order_count - 1, 0), updated_at = ?
		WHERE id = ?
	`, amount, nowStamp(), userID)
	return err
}
