package services

import (
	"context"
	"fmt"
	"time"

	"equipstore/internal/apperr"
	"equipstore/internal/cache"
	"equipstore/internal/domain"
	applog "equipstore/internal/log"
	"equipstore/internal/repos"
	"equipstore/internal/validate"
)

type ShippingService struct {
	Repo  *repos.ShippingRepo
	Cache cache.Cache // optional
	TTL   time.Duration
}

func NewShippingService(repo *repos.ShippingRepo, c cache.Cache, ttl time.Duration) *ShippingService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ShippingService{Repo: repo, Cache: c, TTL: ttl}
}

// Quote is the price of one shipping method for a shipment.
type Quote struct {
	MethodID        string              `json:"methodId"`
	ZoneID          string              `json:"zoneId"`
	Name            string              `json:"name"`
	Type            domain.ShippingType `json:"type"`
	Cost            float64             `json:"cost"`
	Matched         bool                `json:"matched"`
	MinDeliveryDays int                 `json:"minDeliveryDays"`
	MaxDeliveryDays int                 `json:"maxDeliveryDays"`
	PickupAddress   *string             `json:"pickupAddress,omitempty"`
}

func (s *ShippingService) zonesKey() string {
	if s.Cache == nil {
		return ""
	}
	return s.Cache.GenerateKey("zones", "active")
}

func (s *ShippingService) methodKey(id string) string {
	if s.Cache == nil {
		return ""
	}
	return s.Cache.GenerateKey("method", id)
}

// Zones lists active zones with their methods and weight bands.
func (s *ShippingService) Zones(ctx context.Context) ([]domain.ShippingZone, error) {
	var zones []domain.ShippingZone
	if cache.GetJSON(ctx, s.Cache, s.zonesKey(), &zones) {
		return zones, nil
	}
	zones, err := s.Repo.ActiveZones(ctx)
	if err != nil {
		return nil, fmt.Errorf("load shipping zones: %w", err)
	}
	if err := cache.SetJSON(ctx, s.Cache, s.zonesKey(), zones, s.TTL); err != nil {
		applog.Warn(nil, "cache.set_failed", map[string]any{"key": s.zonesKey(), "err": err.Error()})
	}
	return zones, nil
}

// Method resolves a shipping method with its bands. Inactive methods count as missing.
func (s *ShippingService) Method(ctx context.Context, id string) (domain.ShippingMethod, error) {
	var m domain.ShippingMethod
	if cache.GetJSON(ctx, s.Cache, s.methodKey(id), &m) {
		return m, nil
	}
	m, err := s.Repo.Method(ctx, id)
	if err != nil {
		return domain.ShippingMethod{}, err
	}
	if !m.IsActive {
		return domain.ShippingMethod{}, apperr.NotFound("shipping method not found")
	}
	if err := cache.SetJSON(ctx, s.Cache, s.methodKey(id), m, s.TTL); err != nil {
		applog.Warn(nil, "cache.set_failed", map[string]any{"key": s.methodKey(id), "err": err.Error()})
	}
	return m, nil
}

// Cost prices weight on m. A weight outside every band costs 0 and is logged.
func (s *ShippingService) Cost(m domain.ShippingMethod, weight float64) (float64, bool) {
	cost, matched := m.Cost(weight)
	if !matched {
		applog.Warn(nil, "shipping.no_weight_band", map[string]any{"method_id": m.ID, "weight": weight})
	}
	return cost, matched
}

// Calculate quotes every active method of the zones that cover state.
func (s *ShippingService) Calculate(ctx context.Context, state string, weight float64) ([]Quote, error) {
	if weight < 0 {
		return nil, apperr.Invalid(map[string]string{"weight": "weight must be >= 0"})
	}
	canon, ok := validate.State(state)
	if !ok {
		return nil, apperr.Invalid(map[string]string{"state": "unknown state"})
	}
	zones, err := s.Zones(ctx)
	if err != nil {
		return nil, err
	}
	quotes := []Quote{}
	for _, z := range zones {
		if !z.Covers(canon) {
			continue
		}
		for _, m := range z.Methods {
			cost, matched := s.Cost(m, weight)
			quotes = append(quotes, Quote{
				MethodID:        m.ID,
				ZoneID:          z.ID,
				Name:            m.Name,
				Type:            m.Type,
				Cost:            cost,
				Matched:         matched,
				MinDeliveryDays: m.MinDeliveryDays,
				MaxDeliveryDays: m.MaxDeliveryDays,
				PickupAddress:   m.PickupAddress,
			})
		}
	}
	return quotes, nil
}

func (s *ShippingService) invalidate(ctx context.Context, methodIDs ...string) {
	if s.Cache == nil {
		return
	}
	keys := []string{s.zonesKey()}
	for _, id := range methodIDs {
		keys = append(keys, s.methodKey(id))
	}
	if err := s.Cache.Delete(ctx, keys...); err != nil {
		applog.Warn(nil, "cache.invalidate_failed", map[string]any{"keys": keys, "err": err.Error()})
	}
}

func (s *ShippingService) CreateZone(ctx context.Context, z *domain.ShippingZone) error {
	fields := map[string]string{}
	if _, ok := validate.Name(z.Name); !ok {
		fields["name"] = "name is required"
	}
	if len(z.Regions) == 0 {
		fields["regions"] = "at least one state is required"
	}
	for i, r := range z.Regions {
		canon, ok := validate.State(r)
		if !ok {
			fields["regions"] = "unknown state " + r
			break
		}
		z.Regions[i] = canon
	}
	if len(fields) > 0 {
		return apperr.Invalid(fields)
	}
	if err := s.Repo.CreateZone(ctx, z); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ShippingService) CreateMethod(ctx context.Context, m *domain.ShippingMethod) error {
	if err := m.Validate(); err != nil {
		return err
	}
	ok, err := s.Repo.ZoneExists(ctx, m.ZoneID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("shipping zone not found")
	}
	if err := s.Repo.CreateMethod(ctx, m); err != nil {
		return err
	}
	s.invalidate(ctx, m.ID)
	return nil
}

func (s *ShippingService) AddRate(ctx context.Context, wr *domain.WeightRate) error {
	if err := wr.Validate(); err != nil {
		return err
	}
	m, err := s.Repo.Method(ctx, wr.MethodID)
	if err != nil {
		return err
	}
	if m.Type != domain.TableRate {
		return apperr.BadRequest("weight rates only apply to TABLE_RATE methods")
	}
	if err := s.Repo.AddRate(ctx, wr); err != nil {
		return err
	}
	s.invalidate(ctx, wr.MethodID)
	return nil
}
