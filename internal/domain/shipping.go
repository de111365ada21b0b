package domain

import (
	"strings"

	"equipstore/internal/apperr"
)

type ShippingType string

const (
	FlatRate    ShippingType = "FLAT_RATE"
	TableRate   ShippingType = "TABLE_RATE"
	StorePickup ShippingType = "STORE_PICKUP"
)

func (t ShippingType) Valid() bool {
	switch t {
	case FlatRate, TableRate, StorePickup:
		return true
	}
	return false
}

// ShippingZone groups states that share delivery characteristics.
type ShippingZone struct {
	ID          string   `db:"id" json:"id"`
	Name        string   `db:"name" json:"name"`
	Description string   `db:"description" json:"description"`
	RegionsJSON string   `db:"regions_json" json:"-"`
	Regions     []string `db:"-" json:"regions"`
	IsActive    bool     `db:"is_active" json:"isActive"`
	CreatedAt   string   `db:"created_at" json:"createdAt"`

	Methods []ShippingMethod `db:"-" json:"methods,omitempty"`
}

// Covers matches a state name case-insensitively.
func (z ShippingZone) Covers(state string) bool {
	state = strings.TrimSpace(state)
	for _, r := range z.Regions {
		if strings.EqualFold(r, state) {
			return true
		}
	}
	return false
}

// WeightRate is one band of a TABLE_RATE method. A nil MaxWeight is unbounded.
type WeightRate struct {
	ID        string   `db:"id" json:"id"`
	MethodID  string   `db:"method_id" json:"methodId"`
	MinWeight float64  `db:"min_weight" json:"minWeight"`
	MaxWeight *float64 `db:"max_weight" json:"maxWeight"`
	Cost      float64  `db:"cost" json:"cost"`
}

// Contains is inclusive at both ends, so a weight equal to MaxWeight stays in this band.
func (r WeightRate) Contains(w float64) bool {
	if w < r.MinWeight {
		return false
	}
	return r.MaxWeight == nil || w <= *r.MaxWeight
}

type ShippingMethod struct {
	ID              string       `db:"id" json:"id"`
	ZoneID          string       `db:"zone_id" json:"zoneId"`
	Name            string       `db:"name" json:"name"`
	Type            ShippingType `db:"type" json:"type"`
	FlatRate        *float64     `db:"flat_rate" json:"flatRate,omitempty"`
	PickupAddress   *string      `db:"pickup_address" json:"pickupAddress,omitempty"`
	MinDeliveryDays int          `db:"min_delivery_days" json:"minDeliveryDays"`
	MaxDeliveryDays int          `db:"max_delivery_days" json:"maxDeliveryDays"`
	IsActive        bool         `db:"is_active" json:"isActive"`
	CreatedAt       string       `db:"created_at" json:"createdAt"`

	// Rates are ordered by MinWeight; only TABLE_RATE methods have any.
	Rates []WeightRate `db:"-" json:"rates,omitempty"`
}

// Cost prices a shipment of the given total weight. matched is false only when a
// TABLE_RATE method has no band for the weight, in which case the cost is 0.
func (m ShippingMethod) Cost(weight float64) (cost float64, matched bool) {
	switch m.Type {
	case FlatRate:
		if m.FlatRate == nil {
			return 0, true
		}
		return *m.FlatRate, true
	case StorePickup:
		return 0, true
	case TableRate:
		for _, r := range m.Rates {
			if r.Contains(weight) {
				return r.Cost, true
			}
		}
	}
	return 0, false
}

// Validate checks that the pricing fields fit the method type.
func (m ShippingMethod) Validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(m.Name) == "" {
		fields["name"] = "name is required"
	}
	if !m.Type.Valid() {
		fields["type"] = "type must be FLAT_RATE, TABLE_RATE or STORE_PICKUP"
	}
	switch m.Type {
	case FlatRate:
		if m.FlatRate == nil || *m.FlatRate < 0 {
			fields["flatRate"] = "flat rate methods need a non-negative flatRate"
		}
	case StorePickup:
		if m.PickupAddress == nil || strings.TrimSpace(*m.PickupAddress) == "" {
			fields["pickupAddress"] = "store pickup methods need a pickup address"
		}
	}
	if m.MinDeliveryDays < 0 || m.MaxDeliveryDays < m.MinDeliveryDays {
		fields["maxDeliveryDays"] = "delivery window is invalid"
	}
	if len(fields) > 0 {
		return apperr.Invalid(fields)
	}
	return nil
}

func (r WeightRate) Validate() error {
	fields := map[string]string{}
	if r.MinWeight < 0 {
		fields["minWeight"] = "minWeight must be >= 0"
	}
	if r.MaxWeight != nil && *r.MaxWeight < r.MinWeight {
		fields["maxWeight"] = "maxWeight must be >= minWeight"
	}
	if r.Cost < 0 {
		fields["cost"] = "cost must be >= 0"
	}
	if len(fields) > 0 {
		return apperr.Invalid(fields)
	}
	return nil
}
