package domain

import (
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"equipstore/internal/apperr"
)

type DiscountType string

const (
	Percentage   DiscountType = "PERCENTAGE"
	FixedAmount  DiscountType = "FIXED_AMOUNT"
	FreeShipping DiscountType = "FREE_SHIPPING"
)

func (t DiscountType) Valid() bool {
	switch t {
	case Percentage, FixedAmount, FreeShipping:
		return true
	}
	return false
}

var (
	ErrDiscountNotFound   = apperr.BadRequest("invalid discount code")
	ErrDiscountNotStarted = apperr.BadRequest("discount is not yet active")
	ErrDiscountExpired    = apperr.BadRequest("discount has expired")
	ErrDiscountUsageLimit = apperr.BadRequest("discount usage limit reached")
	ErrDiscountMinOrder   = apperr.BadRequest("order is below the discount minimum")
)

type Discount struct {
	ID             string       `json:"id"`
	Code           string       `json:"code"`
	Description    string       `json:"description"`
	Type           DiscountType `json:"type"`
	Value          float64      `json:"value"`
	MaxDiscount    *float64     `json:"maxDiscount,omitempty"`
	MinOrderAmount *float64     `json:"minOrderAmount,omitempty"`
	UsageLimit     *int         `json:"usageLimit,omitempty"`
	UsageCount     int          `json:"usageCount"`
	StartDate      *time.Time   `json:"startDate,omitempty"`
	EndDate        *time.Time   `json:"endDate,omitempty"`
	IsActive       bool         `json:"isActive"`
	CreatedAt      string       `json:"createdAt"`
}

// NormalizeCode is the canonical (upper-case, trimmed) form of a code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Check validates eligibility at time now for an order subtotal. Inactive
// discounts never get this far: lookups only resolve active codes.
func (d Discount) Check(subtotal float64, now time.Time) error {
	if d.StartDate != nil && now.Before(*d.StartDate) {
		return ErrDiscountNotStarted
	}
	if d.EndDate != nil && now.After(*d.EndDate) {
		return ErrDiscountExpired
	}
	if d.UsageLimit != nil && d.UsageCount >= *d.UsageLimit {
		return ErrDiscountUsageLimit
	}
	if d.MinOrderAmount != nil && subtotal < *d.MinOrderAmount {
		return apperr.Wrap(ErrDiscountMinOrder,
			"minimum order amount of ₦"+humanize.FormatFloat("#,###.##", *d.MinOrderAmount)+" required")
	}
	return nil
}

// Amount computes the discount for an eligible order. shippingCost is only
// read by FREE_SHIPPING discounts.
func (d Discount) Amount(subtotal, shippingCost float64) float64 {
	var amt float64
	switch d.Type {
	case Percentage:
		amt = subtotal * d.Value / 100
		if d.MaxDiscount != nil {
			amt = math.Min(amt, *d.MaxDiscount)
		}
	case FixedAmount:
		amt = math.Min(d.Value, subtotal)
	case FreeShipping:
		amt = shippingCost
	}
	if amt < 0 {
		amt = 0
	}
	return Round2(amt)
}

// Evaluate is Check followed by Amount.
func (d Discount) Evaluate(subtotal, shippingCost float64, now time.Time) (float64, error) {
	if err := d.Check(subtotal, now); err != nil {
		return 0, err
	}
	return d.Amount(subtotal, shippingCost), nil
}

// Validate checks an administrator-supplied discount definition.
func (d Discount) Validate() error {
	fields := map[string]string{}
	if code := NormalizeCode(d.Code); len(code) < 3 || len(code) > 32 {
		fields["code"] = "code must be 3-32 characters"
	}
	if !d.Type.Valid() {
		fields["type"] = "type must be PERCENTAGE, FIXED_AMOUNT or FREE_SHIPPING"
	}
	switch d.Type {
	case Percentage:
		if d.Value <= 0 || d.Value > 100 {
			fields["value"] = "percentage must be between 0 and 100"
		}
	case FixedAmount:
		if d.Value <= 0 {
			fields["value"] = "value must be positive"
		}
	}
	if d.MaxDiscount != nil && *d.MaxDiscount < 0 {
		fields["maxDiscount"] = "maxDiscount must be >= 0"
	}
	if d.MinOrderAmount != nil && *d.MinOrderAmount < 0 {
		fields["minOrderAmount"] = "minOrderAmount must be >= 0"
	}
	if d.UsageLimit != nil && *d.UsageLimit < 1 {
		fields["usageLimit"] = "usageLimit must be at least 1"
	}
	if d.StartDate != nil && d.EndDate != nil && d.EndDate.Before(*d.StartDate) {
		fields["endDate"] = "endDate must be after startDate"
	}
	if len(fields) > 0 {
		return apperr.Invalid(fields)
	}
	return nil
}
