package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equipstore/internal/apperr"
	"equipstore/internal/cache"
	"equipstore/internal/domain"
	"equipstore/internal/repos"
	"equipstore/internal/services"
)

func newShipping(t *testing.T) *services.ShippingService {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return services.NewShippingService(repos.NewShippingRepo(db), cache.NewMemory("test"), time.Minute)
}

func quoteFor(qs []services.Quote, methodID string) (services.Quote, bool) {
	for _, q := range qs {
		if q.MethodID == methodID {
			return q, true
		}
	}
	return services.Quote{}, false
}

func TestCalculate_LagosBands(t *testing.T) {
	s := newShipping(t)
	ctx := context.Background()

	qs, err := s.Calculate(ctx, "lagos", 5)
	require.NoError(t, err)
	std, ok := quoteFor(qs, "ship-lagos-std")
	require.True(t, ok)
	assert.Equal(t, 2500.0, std.Cost, "5kg sits on the upper edge of the first band")
	pickup, ok := quoteFor(qs, "ship-lagos-pickup")
	require.True(t, ok)
	assert.Equal(t, 0.0, pickup.Cost)
	require.NotNil(t, pickup.PickupAddress)

	qs, err = s.Calculate(ctx, "Lagos", 5.01)
	require.NoError(t, err)
	std, _ = quoteFor(qs, "ship-lagos-std")
	assert.Equal(t, 7500.0, std.Cost)

	qs, err = s.Calculate(ctx, "Oyo", 500)
	require.NoError(t, err)
	flat, ok := quoteFor(qs, "ship-sw-flat")
	require.True(t, ok)
	assert.Equal(t, 12000.0, flat.Cost)
}

func TestCalculate_UnknownStateAndUncoveredState(t *testing.T) {
	s := newShipping(t)
	_, err := s.Calculate(context.Background(), "Atlantis", 1)
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))

	qs, err := s.Calculate(context.Background(), "Rivers", 1)
	require.NoError(t, err)
	assert.Empty(t, qs)
}

func TestCalculate_NoBandCostsZero(t *testing.T) {
	s := newShipping(t)
	ctx := context.Background()
	m := &domain.ShippingMethod{ZoneID: "zone-north", Name: "Light parcels", Type: domain.TableRate,
		MinDeliveryDays: 2, MaxDeliveryDays: 4, IsActive: true}
	require.NoError(t, s.CreateMethod(ctx, m))
	five := 5.0
	require.NoError(t, s.AddRate(ctx, &domain.WeightRate{MethodID: m.ID, MinWeight: 0, MaxWeight: &five, Cost: 4000}))

	qs, err := s.Calculate(ctx, "Kano", 95)
	require.NoError(t, err)
	q, ok := quoteFor(qs, m.ID)
	require.True(t, ok)
	assert.Equal(t, 0.0, q.Cost)
	assert.False(t, q.Matched)
}

func TestAdminWritesInvalidateCache(t *testing.T) {
	s := newShipping(t)
	ctx := context.Background()

	qs, err := s.Calculate(ctx, "Ekiti", 1)
	require.NoError(t, err)
	assert.Len(t, qs, 1)

	flat := 9000.0
	require.NoError(t, s.CreateMethod(ctx, &domain.ShippingMethod{
		ZoneID: "zone-southwest", Name: "Express", Type: domain.FlatRate, FlatRate: &flat,
		MinDeliveryDays: 1, MaxDeliveryDays: 2, IsActive: true,
	}))
	qs, err = s.Calculate(ctx, "Ekiti", 1)
	require.NoError(t, err)
	assert.Len(t, qs, 2)
}

func TestAdminValidation(t *testing.T) {
	s := newShipping(t)
	ctx := context.Background()

	err := s.CreateZone(ctx, &domain.ShippingZone{Name: "South South", Regions: []string{"Rivers", "Gotham"}})
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))

	z := &domain.ShippingZone{Name: "South South", Regions: []string{"rivers", "delta"}, IsActive: true}
	require.NoError(t, s.CreateZone(ctx, z))
	assert.Equal(t, []string{"Rivers", "Delta"}, z.Regions)

	err = s.CreateMethod(ctx, &domain.ShippingMethod{ZoneID: "zone-missing", Name: "X", Type: domain.StorePickup})
	assert.True(t, apperr.Is(err, apperr.KindBadRequest), "pickup without address fails validation first")

	addr := "Trans-Amadi, Port Harcourt"
	err = s.CreateMethod(ctx, &domain.ShippingMethod{ZoneID: "zone-missing", Name: "X", Type: domain.StorePickup, PickupAddress: &addr})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	err = s.AddRate(ctx, &domain.WeightRate{MethodID: "ship-sw-flat", Cost: 100})
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
}
