package services

import (
	"context"

	"equipstore/internal/domain"
	"equipstore/internal/repos"
)

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.Cats.List(ctx)
}

// ListProducts filters by category and free text; both may be empty.
func (s *CatalogService) ListProducts(ctx context.Context, catID, q string, page, pageSize int) ([]domain.Product, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 24
	}
	offset := (page - 1) * pageSize
	return s.Prods.List(ctx, catID, q, pageSize, offset)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	return s.Prods.Get(ctx, id)
}

func (s *CatalogService) CreateProduct(ctx context.Context, p *domain.Product) error {
	return s.Prods.Create(ctx, p)
}
