package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusAssigned  = "assigned"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID                  int             `json:"id"`
	OrderNumber         string          `json:"order_number"`
	CustomerID          int             `json:"customer_id"`
	CustomerName        string          `json:"customer_name,omitempty"`
	CarrierID           *int            `json:"carrier_id,omitempty"`
	CarrierName         string          `json:"carrier_name,omitempty"`
	Status              string          `json:"status"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	LoyaltyDiscount     decimal.Decimal `json:"loyalty_discount"`
	CouponDiscount      decimal.Decimal `json:"coupon_discount"`
	CouponID            *int            `json:"coupon_id,omitempty"`
	VAT                 decimal.Decimal `json:"vat"`
	Total               decimal.Decimal `json:"total"`
	DeliveryAddress     string          `json:"delivery_address"`
	RequestedDeliveryAt time.Time       `json:"requested_delivery_at"`
	DeliveredAt         *time.Time      `json:"delivered_at,omitempty"`
	CarrierRating       *int            `json:"carrier_rating,omitempty"`
	Items               []OrderItem     `json:"items,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID          int             `json:"id"`
	OrderID     int             `json:"order_id"`
	ProductID   int             `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

var orderTransitions = map[string][]string{
	OrderStatusPending:  {OrderStatusAssigned, OrderStatusCancelled},
	OrderStatusAssigned: {OrderStatusDelivered, OrderStatusCancelled},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TotalDiscount is the sum of loyalty and coupon discounts.
func (o Order) TotalDiscount() decimal.Decimal {
	return o.LoyaltyDiscount.Add(o.CouponDiscount)
}

type OrderFilter struct {
	CustomerID int
	CarrierID  int
	Status     string
	Page       int
	Limit      int
}
