package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"equipstore/internal/domain"
)

type CategoryRepo struct{ db sqlx.ExtContext }

func NewCategoryRepo(db sqlx.ExtContext) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	out := []domain.Category{}
	err := sqlx.SelectContext(ctx, r.db, &out, `
  SELECT
    id,
    name,
    slug,
    created_at,
    COALESCE(updated_at,'') AS updated_at
  FROM categories
  ORDER BY name
`)
	return out, err
}

// EnsureBySlug returns the id of the category with slug, creating it if needed.
func (r *CategoryRepo) EnsureBySlug(ctx context.Context, id, name, slug string) (string, error) {
	var existing string
	if err := sqlx.GetContext(ctx, r.db, &existing, `SELECT id FROM categories WHERE slug = ?`, slug); err == nil {
		return existing, nil
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO categories(id, name, slug, created_at) VALUES(?,?,?,?)`, id, name, slug, nowStamp())
	if err != nil {
		return "", classify(err, "category")
	}
	return id, nil
}
