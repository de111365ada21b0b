package services

import (
	"context"
	"time"

	"equipstore/internal/apperr"
	"equipstore/internal/domain"
	"equipstore/internal/repos"
)

type DiscountService struct {
	Repo *repos.DiscountRepo
	Now  func() time.Time
}

func NewDiscountService(repo *repos.DiscountRepo) *DiscountService {
	return &DiscountService{Repo: repo, Now: time.Now}
}

// Applied is a validated discount and the amount it takes off an order.
type Applied struct {
	Discount domain.Discount `json:"-"`
	Code     string          `json:"code"`
	Type     string          `json:"type"`
	Amount   float64         `json:"discountAmount"`
}

// Validate resolves an active discount by code and prices it against the
// subtotal. shippingCost is only read by FREE_SHIPPING codes. Nothing is written.
func (s *DiscountService) Validate(ctx context.Context, code string, subtotal, shippingCost float64) (Applied, error) {
	code = domain.NormalizeCode(code)
	if code == "" {
		return Applied{}, domain.ErrDiscountNotFound
	}
	d, err := s.Repo.ActiveByCode(ctx, code)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return Applied{}, domain.ErrDiscountNotFound
		}
		return Applied{}, err
	}
	amt, err := d.Evaluate(subtotal, shippingCost, s.Now())
	if err != nil {
		return Applied{}, err
	}
	return Applied{Discount: d, Code: d.Code, Type: string(d.Type), Amount: amt}, nil
}

func (s *DiscountService) Create(ctx context.Context, d *domain.Discount) error {
	if err := d.Validate(); err != nil {
		return err
	}
	return s.Repo.Create(ctx, d)
}

func (s *DiscountService) List(ctx context.Context) ([]domain.Discount, error) {
	return s.Repo.List(ctx)
}
