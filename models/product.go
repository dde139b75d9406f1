package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ProductTypeVegetable = "vegetable"
	ProductTypeFruit     = "fruit"
)

type Product struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	Price         decimal.Decimal `json:"price"`
	Stock         decimal.Decimal `json:"stock"`
	Threshold     decimal.Decimal `json:"threshold"`
	ImageURL      string          `json:"image_url"`
	ImagePublicID string          `json:"-"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// EffectivePrice doubles the unit price once stock falls to the threshold.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.Stock.LessThanOrEqual(p.Threshold) {
		return p.Price.Mul(decimal.NewFromInt(2))
	}
	return p.Price
}

func ValidProductType(t string) bool {
	return t == ProductTypeVegetable || t == ProductTypeFruit
}

// ProductView is the catalog representation returned to clients.
type ProductView struct {
	Product
	EffectivePrice decimal.Decimal `json:"effective_price"`
	LowStock       bool            `json:"low_stock"`
}

func NewProductView(p Product) ProductView {
	return ProductView{
		Product:        p,
		EffectivePrice: p.EffectivePrice(),
		LowStock:       p.Stock.LessThanOrEqual(p.Threshold),
	}
}
