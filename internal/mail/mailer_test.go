package mail_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equipstore/internal/domain"
	"equipstore/internal/mail"
)

type captureSender struct{ got []mail.Message }

func (c *captureSender) Send(_ context.Context, m mail.Message) error {
	c.got = append(c.got, m)
	return nil
}

func TestOrderConfirmationRendersTotals(t *testing.T) {
	cs := &captureSender{}
	m, err := mail.New(cs)
	require.NoError(t, err)

	o := &domain.Order{
		OrderNumber:    "EQ-20260101-ABC123",
		Status:         domain.StatusPending,
		Subtotal:       85000,
		DiscountAmount: 8500,
		DiscountCode:   "WELCOME10",
		ShippingCost:   2500,
		Total:          79000,

		ShippingAddress: domain.Address{Street: "3 Allen Avenue", City: "Ikeja", State: "Lagos"},
		Items:           []domain.OrderItem{{Name: "Blender", SKU: "BL-2L", Price: 85000, Quantity: 1, Total: 85000}},
	}
	require.NoError(t, m.OrderConfirmation(context.Background(), &domain.User{Name: "Ada", Email: "ada@equipstore.test"}, o))

	require.Len(t, cs.got, 1)
	msg := cs.got[0]
	assert.Equal(t, "ada@equipstore.test", msg.To)
	assert.Contains(t, msg.Subject, "EQ-20260101-ABC123")
	assert.Contains(t, msg.HTML, "₦79,000.00")
	assert.Contains(t, msg.HTML, "WELCOME10")
	assert.Contains(t, msg.HTML, "Ikeja")
}

func TestNaira(t *testing.T) {
	assert.Equal(t, "₦1,234.50", mail.Naira(1234.5))
}
