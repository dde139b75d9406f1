package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoyaltySettings struct {
	Enabled       bool            `json:"enabled"`
	Tier1Orders   int             `json:"tier1_orders"`
	Tier1Discount decimal.Decimal `json:"tier1_discount"`
	Tier2Orders   int             `json:"tier2_orders"`
	Tier2Discount decimal.Decimal `json:"tier2_discount"`
	Tier3Orders   int             `json:"tier3_orders"`
	Tier3Discount decimal.Decimal `json:"tier3_discount"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func DefaultLoyaltySettings() LoyaltySettings {
	return LoyaltySettings{
		Enabled:       true,
		Tier1Orders:   5,
		Tier1Discount: decimal.NewFromInt(5),
		Tier2Orders:   10,
		Tier2Discount: decimal.NewFromInt(10),
		Tier3Orders:   20,
		Tier3Discount: decimal.NewFromInt(15),
	}
}

type LoyaltyTier struct {
	Orders   int             `json:"orders"`
	Discount decimal.Decimal `json:"discount"`
}

// Tiers returns the tiers from highest threshold to lowest.
func (s LoyaltySettings) Tiers() []LoyaltyTier {
	return []LoyaltyTier{
		{Orders: s.Tier3Orders, Discount: s.Tier3Discount},
		{Orders: s.Tier2Orders, Discount: s.Tier2Discount},
		{Orders: s.Tier1Orders, Discount: s.Tier1Discount},
	}
}

type LoyaltyStatus struct {
	CompletedOrders int             `json:"completed_orders"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	NextTier        *LoyaltyTier    `json:"next_tier,omitempty"`
	OrdersToNext    int             `json:"orders_to_next"`
}
