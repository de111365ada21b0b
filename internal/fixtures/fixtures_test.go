package fixtures_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equipstore/internal/fixtures"
	"equipstore/internal/repos"
	"equipstore/internal/services"
)

func TestApplyIsRepeatable(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ship := services.NewShippingService(repos.NewShippingRepo(db), nil, time.Minute)
	disc := services.NewDiscountService(repos.NewDiscountRepo(db))
	l := &fixtures.Loader{
		Cats:      repos.NewCategoryRepo(db),
		Catalog:   services.NewCatalogService(repos.NewCategoryRepo(db), repos.NewProductRepo(db)),
		Shipping:  ship,
		Discounts: disc,
	}
	f, err := fixtures.ParseFile("testdata/south.yaml")
	require.NoError(t, err)

	ctx := context.Background()
	sum, err := l.Apply(ctx, f)
	require.NoError(t, err)
	// product, zone, 2 methods, 2 rates, discount
	assert.Equal(t, 7, sum.Created)

	qs, err := ship.Calculate(ctx, "rivers", 110)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	for _, q := range qs {
		if q.MethodID == "ship-ss-haulage" {
			assert.Equal(t, 45000.0, q.Cost)
		}
	}

	a, err := disc.Validate(ctx, "DELTALAUNCH", 1250000, 0)
	require.NoError(t, err)
	assert.Equal(t, 50000.0, a.Amount)

	sum, err = l.Apply(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Created)
	assert.Equal(t, 3, sum.Skipped)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := fixtures.Parse(strings.NewReader("zones:\n  - name: X\n    colour: red\n"))
	assert.Error(t, err)
}
