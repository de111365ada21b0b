package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equipstore/internal/domain"
	"equipstore/internal/repos"
)

type orderResp struct {
	ID           string             `json:"id"`
	Status       domain.OrderStatus `json:"status"`
	Subtotal     float64            `json:"subtotal"`
	ShippingCost float64            `json:"shippingCost"`
	Discount     float64            `json:"discountAmount"`
	Total        float64            `json:"total"`
	Items        []domain.OrderItem `json:"items"`
}

// Client-sent prices and totals are ignored; the server prices from the catalog.
func TestPlaceOrderRecomputesTotals(t *testing.T) {
	a := newTestApp(t)
	require.NoError(t, repos.NewProductRepo(a.db).Create(context.Background(), &domain.Product{
		ID: "prd-kettle", CategoryID: "cat-kitchen", Name: "Catering Kettle", Slug: "catering-kettle",
		SKU: "KT-10L", Price: 1000, StockQuantity: 10, Weight: 1.5, IsActive: true,
	}))

	resp, env := a.do(t, "POST", "/api/v1/orders", a.token(t, "u-ada"), map[string]any{
		"items":            []map[string]any{{"productId": "prd-kettle", "quantity": 2, "price": 1}},
		"shippingAddress":  lagosAddress(),
		"paymentMethod":    "PAYSTACK",
		"shippingMethodId": "ship-lagos-std",
		"total":            1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	o := decode[orderResp](t, env.Data)
	assert.Equal(t, 2000.0, o.Subtotal)
	assert.Equal(t, 2500.0, o.ShippingCost)
	assert.Equal(t, 4500.0, o.Total)
	assert.Equal(t, domain.StatusPending, o.Status)

	resp, _ = a.do(t, "GET", "/api/v1/orders/"+o.ID, a.token(t, "u-tunde"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = a.do(t, "GET", "/api/v1/orders/"+o.ID, a.token(t, "u-ada"), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env = a.do(t, "GET", "/api/v1/orders", a.token(t, "u-ada"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]repos.OrderSummary](t, env.Data), 1)
}

func TestOrderStatusFlowOverHTTP(t *testing.T) {
	a := newTestApp(t)
	customer := a.token(t, "u-ada")
	staff := a.token(t, "u-staff")

	resp, env := a.do(t, "POST", "/api/v1/orders", customer, map[string]any{
		"items":            []map[string]any{{"productId": "prd-gas-cooker", "quantity": 3}},
		"shippingAddress":  lagosAddress(),
		"paymentMethod":    "BANK_TRANSFER",
		"shippingMethodId": "ship-lagos-std",
		"discountCode":     "save5000",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	o := decode[orderResp](t, env.Data)
	assert.Equal(t, 5000.0, o.Discount)
	assert.Equal(t, 1860000.0-5000+25000, o.Total)

	// sold out now
	resp, env = a.do(t, "GET", "/api/v1/products/prd-gas-cooker/availability", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(env.Data), "OUT_OF_STOCK")

	resp, env = a.do(t, "PUT", "/api/v1/orders/"+o.ID+"/status", staff, map[string]string{"status": "REFUNDED"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)

	resp, _ = a.do(t, "PUT", "/api/v1/orders/"+o.ID+"/status", staff, map[string]string{"status": "CONFIRMED"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, env = a.do(t, "PUT", "/api/v1/orders/"+o.ID+"/status", staff, map[string]string{"status": "CANCELLED", "note": "customer called"})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	assert.Equal(t, domain.StatusCancelled, decode[orderResp](t, env.Data).Status)

	p, err := repos.NewProductRepo(a.db).Get(context.Background(), "prd-gas-cooker")
	require.NoError(t, err)
	assert.Equal(t, 3, p.StockQuantity)

	resp, env = a.do(t, "POST", "/api/v1/orders/"+o.ID+"/cancel", customer, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, env.Message, "can no longer be cancelled")
}

func TestCartThenOrderClearsCart(t *testing.T) {
	a := newTestApp(t)
	tok := a.token(t, "u-tunde")

	resp, env := a.do(t, "POST", "/api/v1/cart/items", tok, map[string]any{"productId": "prd-blender-2l", "quantity": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	assert.Contains(t, string(env.Data), `"total":170000`)

	resp, _ = a.do(t, "POST", "/api/v1/orders", tok, map[string]any{
		"items":            []map[string]any{{"productId": "prd-blender-2l", "quantity": 2}},
		"shippingAddress":  lagosAddress(),
		"paymentMethod":    "PAY_ON_DELIVERY",
		"shippingMethodId": "ship-lagos-pickup",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, env = a.do(t, "GET", "/api/v1/cart", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(env.Data), `"items":[]`)
}
