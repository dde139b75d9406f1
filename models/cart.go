package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID        int             `json:"id"`
	UserID    int             `json:"user_id"`
	ProductID int             `json:"product_id"`
	Product   *Product        `json:"product,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CartLine struct {
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
	InStock   bool            `json:"in_stock"`
	ImageURL  string          `json:"image_url"`
}

type Cart struct {
	Items    []CartLine      `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}
