package repos

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"equipstore/internal/domain"
)

type ShippingRepo struct{ db sqlx.ExtContext }

func NewShippingRepo(db sqlx.ExtContext) *ShippingRepo { return &ShippingRepo{db: db} }

const methodCols = `id, zone_id, name, type, flat_rate, pickup_address,
  min_delivery_days, max_delivery_days, is_active, COALESCE(created_at,'') AS created_at`

// ActiveZones returns active zones with their active methods and rates.
func (r *ShippingRepo) ActiveZones(ctx context.Context) ([]domain.ShippingZone, error) {
	zones := []domain.ShippingZone{}
	if err := sqlx.SelectContext(ctx, r.db, &zones, `
		SELECT id, name, description, regions_json, is_active, COALESCE(created_at,'') AS created_at
		FROM shipping_zones
		WHERE is_active = 1
		ORDER BY name
	`); err != nil {
		return nil, err
	}
	for i := range zones {
		zones[i].Regions = []string{}
		_ = json.Unmarshal([]byte(zones[i].RegionsJSON), &zones[i].Regions)

		methods := []domain.ShippingMethod{}
		if err := sqlx.SelectContext(ctx, r.db, &methods, `SELECT `+methodCols+`
			FROM shipping_methods WHERE zone_id = ? AND is_active = 1 ORDER BY name`, zones[i].ID); err != nil {
			return nil, err
		}
		for j := range methods {
			rates, err := r.Rates(ctx, methods[j].ID)
			if err != nil {
				return nil, err
			}
			methods[j].Rates = rates
		}
		zones[i].Methods = methods
	}
	return zones, nil
}

// Method loads a method with its weight bands ordered by minWeight.
func (r *ShippingRepo) Method(ctx context.Context, id string) (domain.ShippingMethod, error) {
	var m domain.ShippingMethod
	if err := sqlx.GetContext(ctx, r.db, &m, `SELECT `+methodCols+` FROM shipping_methods WHERE id = ?`, id); err != nil {
		return domain.ShippingMethod{}, classify(err, "shipping method")
	}
	rates, err := r.Rates(ctx, id)
	if err != nil {
		return domain.ShippingMethod{}, err
	}
	m.Rates = rates
	return m, nil
}

func (r *ShippingRepo) Rates(ctx context.Context, methodID string) ([]domain.WeightRate, error) {
	rates := []domain.WeightRate{}
	err := sqlx.SelectContext(ctx, r.db, &rates, `
		SELECT id, method_id, min_weight, max_weight, cost
		FROM weight_rates
		WHERE method_id = ?
		ORDER BY min_weight, id
	`, methodID)
	return rates, err
}

func (r *ShippingRepo) CreateZone(ctx context.Context, z *domain.ShippingZone) error {
	if z.ID == "" {
		z.ID = uuid.NewString()
	}
	if z.Regions == nil {
		z.Regions = []string{}
	}
	b, _ := json.Marshal(z.Regions)
	z.RegionsJSON = string(b)
	z.CreatedAt = nowStamp()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO shipping_zones(id, name, description, regions_json, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, z.ID, z.Name, z.Description, z.RegionsJSON, z.IsActive, z.CreatedAt)
	return classify(err, "shipping zone")
}

func (r *ShippingRepo) ZoneExists(ctx context.Context, id string) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, r.db, &n, `SELECT COUNT(*) FROM shipping_zones WHERE id = ?`, id)
	return n > 0, err
}

func (r *ShippingRepo) CreateMethod(ctx context.Context, m *domain.ShippingMethod) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.CreatedAt = nowStamp()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO shipping_methods(id, zone_id, name, type, flat_rate, pickup_address,
		  min_delivery_days, max_delivery_days, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.ZoneID, m.Name, string(m.Type), nullFloat(m.FlatRate), nullString(m.PickupAddress),
		m.MinDeliveryDays, m.MaxDeliveryDays, m.IsActive, m.CreatedAt)
	return classify(err, "shipping method")
}

func (r *ShippingRepo) AddRate(ctx context.Context, wr *domain.WeightRate) error {
	if wr.ID == "" {
		wr.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO weight_rates(id, method_id, min_weight, max_weight, cost)
		VALUES (?, ?, ?, ?, ?)
	`, wr.ID, wr.MethodID, wr.MinWeight, nullFloat(wr.MaxWeight), wr.Cost)
	return classify(err, "weight rate")
}
