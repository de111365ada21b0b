package domain

import "math"

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
	StatusRefunded  OrderStatus = "REFUNDED"
)

var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled, StatusRefunded},
	StatusShipped:   {StatusDelivered, StatusRefunded},
	StatusDelivered: {StatusRefunded},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, n := range transitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

// Cancellable orders have not left the warehouse yet.
func (s OrderStatus) Cancellable() bool {
	return s.CanTransitionTo(StatusCancelled)
}

const (
	PaymentPaystack      = "PAYSTACK"
	PaymentBankTransfer  = "BANK_TRANSFER"
	PaymentPayOnDelivery = "PAY_ON_DELIVERY"

	PaymentStatusPending = "PENDING"
)

func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentPaystack, PaymentBankTransfer, PaymentPayOnDelivery:
		return true
	}
	return false
}

type Address struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode,omitempty"`
}

// OrderItem is a snapshot of the product at purchase time.
type OrderItem struct {
	ID        string  `db:"id" json:"id"`
	OrderID   string  `db:"order_id" json:"orderId"`
	ProductID string  `db:"product_id" json:"productId"`
	Name      string  `db:"name" json:"name"`
	SKU       string  `db:"sku" json:"sku"`
	Image     string  `db:"image" json:"image"`
	Price     float64 `db:"price" json:"price"`
	Quantity  int     `db:"quantity" json:"quantity"`
	Total     float64 `db:"total" json:"total"`
}

type Order struct {
	ID               string      `db:"id" json:"id"`
	OrderNumber      string      `db:"order_number" json:"orderNumber"`
	UserID           string      `db:"user_id" json:"userId"`
	Status           OrderStatus `db:"status" json:"status"`
	PaymentMethod    string      `db:"payment_method" json:"paymentMethod"`
	PaymentStatus    string      `db:"payment_status" json:"paymentStatus"`
	Subtotal         float64     `db:"subtotal" json:"subtotal"`
	DiscountAmount   float64     `db:"discount_amount" json:"discountAmount"`
	DiscountCode     string      `db:"discount_code" json:"discountCode,omitempty"`
	ShippingCost     float64     `db:"shipping_cost" json:"shippingCost"`
	Tax              float64     `db:"tax" json:"tax"`
	Total            float64     `db:"total" json:"total"`
	ShippingMethodID string      `db:"shipping_method_id" json:"shippingMethodId"`
	ShippingAddrJSON string      `db:"shipping_address" json:"-"`
	BillingAddrJSON  string      `db:"billing_address" json:"-"`
	CustomerNotes    string      `db:"customer_notes" json:"customerNotes,omitempty"`
	TrackingNumber   string      `db:"tracking_number" json:"trackingNumber,omitempty"`
	CreatedAt        string      `db:"created_at" json:"createdAt"`
	UpdatedAt        string      `db:"updated_at" json:"updatedAt"`

	ShippingAddress Address               `db:"-" json:"shippingAddress"`
	BillingAddress  *Address              `db:"-" json:"billingAddress,omitempty"`
	Items           []OrderItem           `db:"-" json:"items"`
	History         []OrderStatusHistory  `db:"-" json:"history,omitempty"`
	Tracking        []OrderTrackingUpdate `db:"-" json:"tracking,omitempty"`
}

type OrderStatusHistory struct {
	ID        string      `db:"id" json:"id"`
	OrderID   string      `db:"order_id" json:"orderId"`
	Status    OrderStatus `db:"status" json:"status"`
	Note      string      `db:"note" json:"note"`
	ChangedBy string      `db:"changed_by" json:"changedBy"`
	CreatedAt string      `db:"created_at" json:"createdAt"`
}

type OrderTrackingUpdate struct {
	ID        string      `db:"id" json:"id"`
	OrderID   string      `db:"order_id" json:"orderId"`
	Status    OrderStatus `db:"status" json:"status"`
	Message   string      `db:"message" json:"message"`
	Location  string      `db:"location" json:"location,omitempty"`
	CreatedAt string      `db:"created_at" json:"createdAt"`
}

type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discountAmount"`
	ShippingCost   float64 `json:"shippingCost"`
	Tax            float64 `json:"tax"`
	Total          float64 `json:"total"`

	// ShippingAbsorbed is set when a non-zero shipping cost was left out of Total.
	ShippingAbsorbed bool `json:"-"`
}

// ComputeTotals prices an order as subtotal - discount + tax, plus shipping only
// while the discount is below the shipping cost. A discount at or above shipping
// absorbs it. The total is clamped at zero and tax is levied on the subtotal.
func ComputeTotals(subtotal, discount, shipping, taxRate float64) Totals {
	tax := Round2(subtotal * taxRate)
	total := subtotal - discount + tax
	absorbed := discount >= shipping
	if !absorbed {
		total += shipping
	}
	return Totals{
		Subtotal:         Round2(subtotal),
		DiscountAmount:   Round2(discount),
		ShippingCost:     Round2(shipping),
		Tax:              tax,
		Total:            Round2(math.Max(0, total)),
		ShippingAbsorbed: absorbed && shipping > 0,
	}
}
