package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"equipstore/internal/apperr"
	"equipstore/internal/domain"
	applog "equipstore/internal/log"
	"equipstore/internal/repos"
	"equipstore/internal/validate"
)

// Notifier sends the customer-facing confirmation for a placed order.
type Notifier interface {
	OrderConfirmation(ctx context.Context, u *domain.User, o *domain.Order) error
}

type PlaceItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type PlaceOrderInput struct {
	Items            []PlaceItem     `json:"items"`
	ShippingAddress  domain.Address  `json:"shippingAddress"`
	BillingAddress   *domain.Address `json:"billingAddress"`
	PaymentMethod    string          `json:"paymentMethod"`
	ShippingMethodID string          `json:"shippingMethodId"`
	DiscountCode     string          `json:"discountCode"`
	CustomerNotes    string          `json:"customerNotes"`
}

type StatusUpdate struct {
	Status         domain.OrderStatus `json:"status"`
	Note           string             `json:"note"`
	TrackingNumber string             `json:"trackingNumber"`
	Location       string             `json:"location"`
}

const mailTimeout = 30 * time.Second

type OrderService struct {
	db        *sqlx.DB
	Prods     *repos.ProductRepo
	Orders    *repos.OrderRepo
	Users     *repos.UserRepo
	Shipping  *ShippingService
	Discounts *DiscountService
	Notify    Notifier // optional
	TaxRate   float64
	Now       func() time.Time

	mail sync.WaitGroup
}

func NewOrderService(db *sqlx.DB, shipping *ShippingService, discounts *DiscountService, notify Notifier, taxRate float64) *OrderService {
	return &OrderService{
		db:        db,
		Prods:     repos.NewProductRepo(db),
		Orders:    repos.NewOrderRepo(db),
		Users:     repos.NewUserRepo(db),
		Shipping:  shipping,
		Discounts: discounts,
		Notify:    notify,
		TaxRate:   taxRate,
		Now:       time.Now,
	}
}

// NewOrderNumber builds a human-facing number like EQ-20260115-3F9A1C.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return "EQ-" + now.UTC().Format("20060102") + "-" + suffix
}

// mergeItems folds repeated product ids into one line, keeping first-seen order.
func mergeItems(items []PlaceItem) []PlaceItem {
	idx := map[string]int{}
	out := make([]PlaceItem, 0, len(items))
	for _, it := range items {
		id := strings.TrimSpace(it.ProductID)
		if i, ok := idx[id]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		idx[id] = len(out)
		out = append(out, PlaceItem{ProductID: id, Quantity: it.Quantity})
	}
	return out
}

func (in *PlaceOrderInput) check() error {
	fields := map[string]string{}
	if len(in.Items) == 0 {
		fields["items"] = "at least one item is required"
	}
	for i, it := range in.Items {
		if _, ok := validate.ID(it.ProductID); !ok {
			fields[fmt.Sprintf("items[%d].productId", i)] = "productId is required"
		}
		if !validate.Qty(it.Quantity) {
			fields[fmt.Sprintf("items[%d].quantity", i)] = "quantity must be between 1 and 1000"
		}
	}
	// the cap applies per product, so repeated lines are checked once merged
	if len(fields) == 0 {
		in.Items = mergeItems(in.Items)
		for i, it := range in.Items {
			if !validate.Qty(it.Quantity) {
				fields[fmt.Sprintf("items[%d].quantity", i)] = "combined quantity for " + it.ProductID + " must not exceed 1000"
			}
		}
	}
	if !domain.ValidPaymentMethod(in.PaymentMethod) {
		fields["paymentMethod"] = "paymentMethod must be PAYSTACK, BANK_TRANSFER or PAY_ON_DELIVERY"
	}
	if _, ok := validate.ID(in.ShippingMethodID); !ok {
		fields["shippingMethodId"] = "shippingMethodId is required"
	}
	if len(in.CustomerNotes) > 1000 {
		fields["customerNotes"] = "customerNotes is too long"
	}

	ship, errs := validate.Address(in.ShippingAddress).Check("shippingAddress")
	for k, v := range errs {
		fields[k] = v
	}
	in.ShippingAddress = domain.Address(ship)
	if in.BillingAddress != nil {
		bill, errs := validate.Address(*in.BillingAddress).Check("billingAddress")
		for k, v := range errs {
			fields[k] = v
		}
		b := domain.Address(bill)
		in.BillingAddress = &b
	}
	if len(fields) > 0 {
		return apperr.Invalid(fields)
	}
	return nil
}

// Place prices and persists an order. All reads and checks happen first; the
// writes then run in one transaction, so a failure leaves no trace.
func (s *OrderService) Place(ctx context.Context, userID string, in PlaceOrderInput) (*domain.Order, error) {
	if err := in.check(); err != nil {
		return nil, err
	}

	user, err := s.Users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	method, err := s.Shipping.Method(ctx, in.ShippingMethodID)
	if err != nil {
		return nil, err
	}

	var subtotal, weight float64
	items := make([]domain.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		p, err := s.Prods.Get(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if !p.IsActive {
			return nil, apperr.BadRequestf("product %s is not available", p.Name)
		}
		if !p.CanSupply(it.Quantity) {
			return nil, apperr.BadRequestf("insufficient stock for %s (requested %d, available %d)", p.Name, it.Quantity, p.StockQuantity)
		}
		line := domain.Round2(p.Price * float64(it.Quantity))
		subtotal += line
		weight += p.Weight * float64(it.Quantity)
		items = append(items, domain.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			SKU:       p.SKU,
			Image:     p.MainImage(),
			Price:     p.Price,
			Quantity:  it.Quantity,
			Total:     line,
		})
	}

	shipping, _ := s.Shipping.Cost(method, weight)

	var applied *Applied
	if strings.TrimSpace(in.DiscountCode) != "" {
		a, err := s.Discounts.Validate(ctx, in.DiscountCode, subtotal, shipping)
		if err != nil {
			return nil, err
		}
		applied = &a
	}
	var discount float64
	if applied != nil {
		discount = applied.Amount
	}
	totals := domain.ComputeTotals(subtotal, discount, shipping, s.TaxRate)
	if totals.ShippingAbsorbed {
		applog.Warn(nil, "order.shipping_absorbed", map[string]any{
			"user_id": user.ID, "discount_code": applied.Code, "discount": discount, "shipping": shipping,
		})
	}

	now := s.Now()
	o := &domain.Order{
		ID:               uuid.NewString(),
		OrderNumber:      NewOrderNumber(now),
		UserID:           user.ID,
		Status:           domain.StatusPending,
		PaymentMethod:    in.PaymentMethod,
		PaymentStatus:    domain.PaymentStatusPending,
		Subtotal:         totals.Subtotal,
		DiscountAmount:   totals.DiscountAmount,
		ShippingCost:     totals.ShippingCost,
		Tax:              totals.Tax,
		Total:            totals.Total,
		ShippingMethodID: method.ID,
		ShippingAddress:  in.ShippingAddress,
		BillingAddress:   in.BillingAddress,
		CustomerNotes:    strings.TrimSpace(in.CustomerNotes),
		CreatedAt:        now.UTC().Format(time.RFC3339),
		Items:            items,
	}
	if applied != nil {
		o.DiscountCode = applied.Code
	}

	err = repos.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		orders := repos.NewOrderRepo(tx)
		prods := repos.NewProductRepo(tx)
		inv := repos.NewInventoryRepo(tx)

		if err := orders.Create(ctx, o); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		for _, it := range o.Items {
			if err := prods.ConsumeStock(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
			if err := inv.Log(ctx, it.ProductID, -it.Quantity, domain.InventoryReasonOrderPlaced, o.OrderNumber); err != nil {
				return err
			}
		}
		if applied != nil {
			if err := repos.NewDiscountRepo(tx).Redeem(ctx, applied.Discount.ID); err != nil {
				return err
			}
		}
		if err := repos.NewCartRepo(tx).Clear(ctx, user.ID); err != nil {
			return err
		}
		if err := orders.AddHistory(ctx, domain.OrderStatusHistory{
			OrderID: o.ID, Status: domain.StatusPending, Note: "Order placed", ChangedBy: user.ID,
		}); err != nil {
			return err
		}
		if err := orders.AddTracking(ctx, domain.OrderTrackingUpdate{
			OrderID: o.ID, Status: domain.StatusPending, Message: "Order received and awaiting confirmation",
		}); err != nil {
			return err
		}
		return repos.NewUserRepo(tx).RecordPurchase(ctx, user.ID, o.Total)
	})
	if err != nil {
		return nil, err
	}

	placed, err := s.Orders.Get(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	s.confirm(ctx, user, placed)
	return placed, nil
}

// confirm mails the customer in the background. Failures are only logged.
func (s *OrderService) confirm(ctx context.Context, u *domain.User, o *domain.Order) {
	if s.Notify == nil {
		return
	}
	s.mail.Add(1)
	go func() {
		defer s.mail.Done()
		mctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mailTimeout)
		defer cancel()
		if err := s.Notify.OrderConfirmation(mctx, u, o); err != nil {
			applog.Error(nil, "order.email_failed", err, map[string]any{"order_id": o.ID, "order_number": o.OrderNumber})
		}
	}()
}

// WaitForMail blocks until background confirmation emails have finished.
func (s *OrderService) WaitForMail() { s.mail.Wait() }

// Get returns an order to its owner or to staff.
func (s *OrderService) Get(ctx context.Context, id string, u *domain.User) (*domain.Order, error) {
	o, err := s.Orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != u.ID && !u.IsStaff() {
		return nil, apperr.Forbidden("you do not have access to this order")
	}
	return o, nil
}

func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]repos.OrderSummary, error) {
	return s.Orders.ListByUser(ctx, userID)
}

func (s *OrderService) ListLatest(ctx context.Context, limit int) ([]repos.OrderSummary, error) {
	return s.Orders.ListLatest(ctx, limit)
}

// UpdateStatus is the staff fulfilment path. Refunds are left to the payment
// gateway and are refused here.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, upd StatusUpdate, actor *domain.User) (*domain.Order, error) {
	if !actor.IsStaff() {
		return nil, apperr.Forbidden("only staff can change order status")
	}
	if !upd.Status.Valid() {
		return nil, apperr.Invalid(map[string]string{"status": "unknown status"})
	}
	if upd.Status == domain.StatusRefunded {
		return nil, apperr.BadRequest("refunds are recorded by the payment gateway")
	}
	o, err := s.Orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransitionTo(upd.Status) {
		return nil, apperr.BadRequestf("cannot change order status from %s to %s", o.Status, upd.Status)
	}
	if err := s.transition(ctx, o, upd, actor.ID); err != nil {
		return nil, err
	}
	return s.Orders.Get(ctx, id)
}

// Cancel lets a customer withdraw their own order before it ships.
func (s *OrderService) Cancel(ctx context.Context, id string, u *domain.User) (*domain.Order, error) {
	o, err := s.Orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != u.ID {
		return nil, apperr.Forbidden("you can only cancel your own orders")
	}
	if !o.Status.Cancellable() {
		return nil, apperr.BadRequestf("order in status %s can no longer be cancelled", o.Status)
	}
	upd := StatusUpdate{Status: domain.StatusCancelled, Note: "Cancelled by customer"}
	if err := s.transition(ctx, o, upd, u.ID); err != nil {
		return nil, err
	}
	return s.Orders.Get(ctx, id)
}

var trackingMessages = map[domain.OrderStatus]string{
	domain.StatusConfirmed: "Order confirmed",
	domain.StatusShipped:   "Order shipped",
	domain.StatusDelivered: "Order delivered",
	domain.StatusCancelled: "Order cancelled",
	domain.StatusRefunded:  "Order refunded",
}

func (s *OrderService) transition(ctx context.Context, o *domain.Order, upd StatusUpdate, actorID string) error {
	msg := strings.TrimSpace(upd.Note)
	if msg == "" {
		msg = trackingMessages[upd.Status]
	}
	return repos.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		orders := repos.NewOrderRepo(tx)
		if err := orders.SetStatus(ctx, o.ID, o.Status, upd.Status, strings.TrimSpace(upd.TrackingNumber)); err != nil {
			return err
		}
		if err := orders.AddHistory(ctx, domain.OrderStatusHistory{
			OrderID: o.ID, Status: upd.Status, Note: msg, ChangedBy: actorID,
		}); err != nil {
			return err
		}
		if err := orders.AddTracking(ctx, domain.OrderTrackingUpdate{
			OrderID: o.ID, Status: upd.Status, Message: msg, Location: strings.TrimSpace(upd.Location),
		}); err != nil {
			return err
		}
		if upd.Status != domain.StatusCancelled {
			return nil
		}

		prods := repos.NewProductRepo(tx)
		inv := repos.NewInventoryRepo(tx)
		for _, it := range o.Items {
			if err := prods.RestoreStock(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
			if err := inv.Log(ctx, it.ProductID, it.Quantity, domain.InventoryReasonOrderCancelled, o.OrderNumber); err != nil {
				return err
			}
		}
		if o.DiscountCode != "" {
			if err := repos.NewDiscountRepo(tx).Release(ctx, o.DiscountCode); err != nil {
				return err
			}
		}
		return repos.NewUserRepo(tx).ReversePurchase(ctx, o.UserID, o.Total)
	})
}
