// Package fixtures loads catalog, shipping and discount data from a YAML file.
package fixtures

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"equipstore/internal/apperr"
	"equipstore/internal/domain"
	"equipstore/internal/repos"
	"equipstore/internal/services"
)

type File struct {
	Categories []Category `yaml:"categories"`
	Products   []Product  `yaml:"products"`
	Zones      []Zone     `yaml:"zones"`
	Discounts  []Discount `yaml:"discounts"`
}

type Category struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Slug string `yaml:"slug"`
}

type Product struct {
	ID             string   `yaml:"id"`
	Category       string   `yaml:"category"`
	Name           string   `yaml:"name"`
	Slug           string   `yaml:"slug"`
	SKU            string   `yaml:"sku"`
	Description    string   `yaml:"description"`
	Price          float64  `yaml:"price"`
	Stock          int      `yaml:"stock"`
	Weight         float64  `yaml:"weight"`
	AllowBackorder bool     `yaml:"allowBackorder"`
	Images         []string `yaml:"images"`
}

type Zone struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Regions     []string `yaml:"regions"`
	Methods     []Method `yaml:"methods"`
}

type Method struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Type            string   `yaml:"type"`
	FlatRate        *float64 `yaml:"flatRate"`
	PickupAddress   *string  `yaml:"pickupAddress"`
	MinDeliveryDays int      `yaml:"minDeliveryDays"`
	MaxDeliveryDays int      `yaml:"maxDeliveryDays"`
	Rates           []Rate   `yaml:"rates"`
}

// Rate omits max for the open-ended top band.
type Rate struct {
	Min  float64  `yaml:"min"`
	Max  *float64 `yaml:"max"`
	Cost float64  `yaml:"cost"`
}

type Discount struct {
	Code           string     `yaml:"code"`
	Description    string     `yaml:"description"`
	Type           string     `yaml:"type"`
	Value          float64    `yaml:"value"`
	MaxDiscount    *float64   `yaml:"maxDiscount"`
	MinOrderAmount *float64   `yaml:"minOrderAmount"`
	UsageLimit     *int       `yaml:"usageLimit"`
	StartDate      *time.Time `yaml:"startDate"`
	EndDate        *time.Time `yaml:"endDate"`
}

func Parse(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("parse fixtures: %w", err)
	}
	return f, nil
}

func ParseFile(path string) (File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return File{}, err
	}
	defer fh.Close()
	return Parse(fh)
}

// Summary counts what Apply created and what was already present.
type Summary struct {
	Created int
	Skipped int
}

type Loader struct {
	Cats      *repos.CategoryRepo
	Catalog   *services.CatalogService
	Shipping  *services.ShippingService
	Discounts *services.DiscountService
}

// Apply inserts everything in f. Rows that already exist are skipped, so a
// fixtures file can be applied repeatedly.
func (l *Loader) Apply(ctx context.Context, f File) (Summary, error) {
	var s Summary
	count := func(err error) error {
		switch {
		case err == nil:
			s.Created++
		case apperr.Is(err, apperr.KindConflict):
			s.Skipped++
		default:
			return err
		}
		return nil
	}

	for _, c := range f.Categories {
		if _, err := l.Cats.EnsureBySlug(ctx, c.ID, c.Name, c.Slug); err != nil {
			return s, fmt.Errorf("category %s: %w", c.Slug, err)
		}
	}
	for _, p := range f.Products {
		err := l.Catalog.CreateProduct(ctx, &domain.Product{
			ID: p.ID, CategoryID: p.Category, Name: p.Name, Slug: p.Slug, SKU: p.SKU,
			Description: p.Description, Price: p.Price, StockQuantity: p.Stock, Weight: p.Weight,
			AllowBackorder: p.AllowBackorder, Images: p.Images, IsActive: true,
		})
		if err := count(err); err != nil {
			return s, fmt.Errorf("product %s: %w", p.SKU, err)
		}
	}
	for _, z := range f.Zones {
		zone := &domain.ShippingZone{ID: z.ID, Name: z.Name, Description: z.Description, Regions: z.Regions, IsActive: true}
		err := l.Shipping.CreateZone(ctx, zone)
		if apperr.Is(err, apperr.KindConflict) {
			// zone exists; its methods were loaded with it
			s.Skipped++
			continue
		}
		if err := count(err); err != nil {
			return s, fmt.Errorf("zone %s: %w", z.Name, err)
		}
		for _, m := range z.Methods {
			method := &domain.ShippingMethod{
				ID: m.ID, ZoneID: zone.ID, Name: m.Name, Type: domain.ShippingType(m.Type),
				FlatRate: m.FlatRate, PickupAddress: m.PickupAddress,
				MinDeliveryDays: m.MinDeliveryDays, MaxDeliveryDays: m.MaxDeliveryDays, IsActive: true,
			}
			if err := count(l.Shipping.CreateMethod(ctx, method)); err != nil {
				return s, fmt.Errorf("method %s: %w", m.Name, err)
			}
			for _, r := range m.Rates {
				wr := &domain.WeightRate{MethodID: method.ID, MinWeight: r.Min, MaxWeight: r.Max, Cost: r.Cost}
				if err := count(l.Shipping.AddRate(ctx, wr)); err != nil {
					return s, fmt.Errorf("method %s rate %v: %w", m.Name, r.Min, err)
				}
			}
		}
	}
	for _, d := range f.Discounts {
		err := l.Discounts.Create(ctx, &domain.Discount{
			Code: d.Code, Description: d.Description, Type: domain.DiscountType(d.Type), Value: d.Value,
			MaxDiscount: d.MaxDiscount, MinOrderAmount: d.MinOrderAmount, UsageLimit: d.UsageLimit,
			StartDate: d.StartDate, EndDate: d.EndDate, IsActive: true,
		})
		if err := count(err); err != nil {
			return s, fmt.Errorf("discount %s: %w", d.Code, err)
		}
	}
	return s, nil
}
