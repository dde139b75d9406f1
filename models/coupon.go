package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Coupon struct {
	ID              int                 `json:"id"`
	Code            string              `json:"code"`
	UserID          *int                `json:"user_id,omitempty"`
	DiscountPercent decimal.Decimal     `json:"discount_percent"`
	MinOrderValue   decimal.Decimal     `json:"min_order_value"`
	MaxDiscount     decimal.NullDecimal `json:"max_discount"`
	ExpiresAt       time.Time           `json:"expires_at"`
	UsedAt          *time.Time          `json:"used_at,omitempty"`
	UsedByOrderID   *int                `json:"used_by_order_id,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

func (c Coupon) IsUsed() bool {
	return c.UsedAt != nil
}

func (c Coupon) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// IsValid reports whether the coupon can still be redeemed at now.
func (c Coupon) IsValid(now time.Time) bool {
	return !c.IsUsed() && !c.IsExpired(now)
}

// OwnedBy reports whether userID may redeem the coupon.
func (c Coupon) OwnedBy(userID int) bool {
	return c.UserID == nil || *c.UserID == userID
}

type CouponPreview struct {
	Code     string          `json:"code"`
	Valid    bool            `json:"valid"`
	Discount decimal.Decimal `json:"discount"`
	Message  string          `json:"message"`
}
