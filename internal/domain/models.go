package domain

import "math"

type Category struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Slug      string `db:"slug" json:"slug"`
	CreatedAt string `db:"created_at" json:"createdAt"`
	UpdatedAt string `db:"updated_at" json:"updatedAt,omitempty"`
}

type Product struct {
	ID             string   `db:"id" json:"id"`
	CategoryID     string   `db:"category_id" json:"categoryId"`
	Name           string   `db:"name" json:"name"`
	Slug           string   `db:"slug" json:"slug"`
	SKU            string   `db:"sku" json:"sku"`
	Description    string   `db:"description" json:"description"`
	Price          float64  `db:"price" json:"price"`
	StockQuantity  int      `db:"stock_quantity" json:"stockQuantity"`
	Weight         float64  `db:"weight" json:"weight"` // kg per unit
	AllowBackorder bool     `db:"allow_backorder" json:"allowBackorder"`
	SalesCount     int      `db:"sales_count" json:"salesCount"`
	ImagesJSON     string   `db:"images_json" json:"-"`
	Images         []string `db:"-" json:"images"`
	IsActive       bool     `db:"is_active" json:"isActive"`
	CreatedAt      string   `db:"created_at" json:"createdAt"`
	UpdatedAt      string   `db:"updated_at" json:"updatedAt,omitempty"`
}

// CanSupply reports whether qty units can be sold right now.
func (p Product) CanSupply(qty int) bool {
	return p.AllowBackorder || p.StockQuantity >= qty
}

// MainImage is the first listed image, used for order snapshots.
func (p Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK | BACKORDER
	Qty    int    `json:"qty"`
}

// InventoryLog records one stock movement. Change is negative for sales.
type InventoryLog struct {
	ID        string `db:"id" json:"id"`
	ProductID string `db:"product_id" json:"productId"`
	Change    int    `db:"change" json:"change"`
	Reason    string `db:"reason" json:"reason"`
	Reference string `db:"reference" json:"reference"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}

const (
	InventoryReasonOrderPlaced    = "ORDER_PLACED"
	InventoryReasonOrderCancelled = "ORDER_CANCELLED"
	InventoryReasonAdjustment     = "ADJUSTMENT"
)

// Round2 rounds a naira amount to kobo.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
