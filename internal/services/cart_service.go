package services

import (
	"context"
	"fmt"

	"equipstore/internal/apperr"
	"equipstore/internal/domain"
	"equipstore/internal/repos"
)

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

func (s *CartService) Add(ctx context.Context, userID, productID string, qty int) error {
	if qty < 1 {
		return apperr.Invalid(map[string]string{"quantity": "quantity must be at least 1"})
	}
	p, err := s.Prods.Get(ctx, productID)
	if err != nil {
		return err
	}
	if !p.IsActive {
		return apperr.BadRequestf("product %s is not available", p.Name)
	}
	if err := s.Carts.UpsertItem(ctx, userID, productID, qty, p.Price); err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	return nil
}

func (s *CartService) Remove(ctx context.Context, userID, productID string) error {
	return s.Carts.Remove(ctx, userID, productID)
}

type CartView struct {
	Items  []repos.CartItemRow `json:"items"`
	Total  float64             `json:"total"`
	Weight float64             `json:"weight"`
}

func (s *CartService) View(ctx context.Context, userID string) (CartView, error) {
	items, err := s.Carts.View(ctx, userID)
	if err != nil {
		return CartView{}, err
	}
	var v CartView
	v.Items = items
	for _, it := range items {
		v.Total += it.Subtotal
		v.Weight += it.Weight * float64(it.Quantity)
	}
	v.Total = domain.Round2(v.Total)
	return v, nil
}
