package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equipstore/internal/apperr"
	"equipstore/internal/domain"
	"equipstore/internal/repos"
	"equipstore/internal/services"
)

func newDiscounts(t *testing.T) *services.DiscountService {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return services.NewDiscountService(repos.NewDiscountRepo(db))
}

func TestDiscountValidate(t *testing.T) {
	s := newDiscounts(t)
	ctx := context.Background()

	a, err := s.Validate(ctx, " welcome10 ", 50000, 0)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, a.Amount)
	assert.Equal(t, "WELCOME10", a.Code)

	a, err = s.Validate(ctx, "WELCOME10", 500000, 0)
	require.NoError(t, err)
	assert.Equal(t, 20000.0, a.Amount, "capped at maxDiscount")

	a, err = s.Validate(ctx, "FREESHIP", 150000, 7500)
	require.NoError(t, err)
	assert.Equal(t, 7500.0, a.Amount)

	_, err = s.Validate(ctx, "NOPE", 150000, 0)
	assert.True(t, errors.Is(err, domain.ErrDiscountNotFound))

	_, err = s.Validate(ctx, "SAVE5000", 20000, 0)
	var ae *apperr.Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "minimum order amount of ₦50,000.00 required", ae.Message)
}

func TestDiscountExpiredAndDuplicate(t *testing.T) {
	s := newDiscounts(t)
	ctx := context.Background()
	s.Now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Create(ctx, &domain.Discount{Code: "janpromo", Type: domain.Percentage, Value: 5, EndDate: &end, IsActive: true}))
	_, err := s.Validate(ctx, "JANPROMO", 1000, 0)
	assert.True(t, errors.Is(err, domain.ErrDiscountExpired))

	err = s.Create(ctx, &domain.Discount{Code: "JanPromo", Type: domain.FixedAmount, Value: 100, IsActive: true})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	err = s.Create(ctx, &domain.Discount{Code: "BAD", Type: domain.Percentage, Value: 150})
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
}

func TestDiscountInactiveCodeIsUnknown(t *testing.T) {
	s := newDiscounts(t)
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, &domain.Discount{Code: "paused", Type: domain.FixedAmount, Value: 1000}))

	_, err := s.Validate(ctx, "PAUSED", 50000, 0)
	assert.True(t, errors.Is(err, domain.ErrDiscountNotFound), "got %v", err)
}
