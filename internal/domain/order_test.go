package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"equipstore/internal/domain"
)

func TestComputeTotals(t *testing.T) {
	got := domain.ComputeTotals(2000, 0, 2500, 0)
	assert.Equal(t, domain.Totals{Subtotal: 2000, ShippingCost: 2500, Total: 4500}, got)

	got = domain.ComputeTotals(10000, 0, 0, 0.075)
	assert.Equal(t, 750.0, got.Tax)
	assert.Equal(t, 10750.0, got.Total)
	assert.False(t, got.ShippingAbsorbed)

	got = domain.ComputeTotals(100, 500, 0, 0)
	assert.Zero(t, got.Total)
}

func TestComputeTotalsShippingAbsorption(t *testing.T) {
	cases := []struct {
		name     string
		discount float64
		total    float64
		absorbed bool
	}{
		{"discount below shipping", 1000, 20000 - 1000 + 2500, false},
		{"discount equal to shipping", 2500, 20000 - 2500, true},
		{"discount above shipping", 8500, 20000 - 8500, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.ComputeTotals(20000, tc.discount, 2500, 0)
			assert.Equal(t, tc.total, got.Total)
			assert.Equal(t, tc.absorbed, got.ShippingAbsorbed)
			assert.Equal(t, 2500.0, got.ShippingCost)
		})
	}
}

func TestStatusTransitions(t *testing.T) {
	ok := [][2]domain.OrderStatus{
		{domain.StatusPending, domain.StatusConfirmed},
		{domain.StatusConfirmed, domain.StatusShipped},
		{domain.StatusShipped, domain.StatusDelivered},
		{domain.StatusPending, domain.StatusCancelled},
		{domain.StatusConfirmed, domain.StatusCancelled},
		{domain.StatusDelivered, domain.StatusRefunded},
	}
	for _, p := range ok {
		assert.True(t, p[0].CanTransitionTo(p[1]), "%s -> %s", p[0], p[1])
	}
	bad := [][2]domain.OrderStatus{
		{domain.StatusShipped, domain.StatusCancelled},
		{domain.StatusDelivered, domain.StatusCancelled},
		{domain.StatusCancelled, domain.StatusConfirmed},
		{domain.StatusPending, domain.StatusDelivered},
		{domain.StatusRefunded, domain.StatusPending},
	}
	for _, p := range bad {
		assert.False(t, p[0].CanTransitionTo(p[1]), "%s -> %s", p[0], p[1])
	}
	assert.True(t, domain.StatusPending.Cancellable())
	assert.False(t, domain.StatusShipped.Cancellable())
}
