package services

import (
	"time"

	"grocery-store/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LoyaltyDiscountPercent returns the loyalty percentage earned after
// completedOrders delivered orders.
func LoyaltyDiscountPercent(s models.LoyaltySettings, completedOrders int) decimal.Decimal {
	if !s.Enabled {
		return decimal.Zero
	}
	for _, tier := range s.Tiers() {
		if tier.Orders > 0 && completedOrders >= tier.Orders {
			return tier.Discount
		}
	}
	return decimal.Zero
}

// ValidateLoyaltySettings checks percentages are within 0..100 and tier
// thresholds strictly increase.
func ValidateLoyaltySettings(s models.LoyaltySettings) error {
	for i, tier := range []models.LoyaltyTier{
		{Orders: s.Tier1Orders, Discount: s.Tier1Discount},
		{Orders: s.Tier2Orders, Discount: s.Tier2Discount},
		{Orders: s.Tier3Orders, Discount: s.Tier3Discount},
	} {
		if tier.Orders <= 0 {
			return validationError("tier %d order count must be positive", i+1)
		}
		if tier.Discount.IsNegative() || tier.Discount.GreaterThan(hundred) {
			return validationError("tier %d discount must be between 0 and 100", i+1)
		}
	}
	if s.Tier1Orders >= s.Tier2Orders || s.Tier2Orders >= s.Tier3Orders {
		return validationError("tier order counts must increase")
	}
	return nil
}

// CouponDiscount computes the amount a coupon takes off subtotal.
func CouponDiscount(c models.Coupon, subtotal decimal.Decimal, now time.Time) (decimal.Decimal, error) {
	if c.IsUsed() {
		return decimal.Zero, models.ErrCouponUsed
	}
	if c.IsExpired(now) {
		return decimal.Zero, models.ErrCouponExpired
	}
	if subtotal.LessThan(c.MinOrderValue) {
		return decimal.Zero, models.ErrCouponMinOrder
	}

	discount := subtotal.Mul(c.DiscountPercent).Div(hundred)
	if c.MaxDiscount.Valid && c.MaxDiscount.Decimal.IsPositive() && discount.GreaterThan(c.MaxDiscount.Decimal) {
		discount = c.MaxDiscount.Decimal
	}
	return discount.Round(2), nil
}

// PricedLine is a cart line frozen at checkout prices.
type PricedLine struct {
	ProductID   int
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

type Pricing struct {
	Lines           []models.OrderItem
	Subtotal        decimal.Decimal
	LoyaltyDiscount decimal.Decimal
	CouponDiscount  decimal.Decimal
	VAT             decimal.Decimal
	Total           decimal.Decimal
}

// PriceOrder applies loyalty, then coupon, then VAT. coupon may be nil.
func PriceOrder(lines []PricedLine, loyaltyPercent decimal.Decimal, coupon *models.Coupon, vatRate decimal.Decimal, now time.Time) (Pricing, error) {
	var p Pricing
	p.Subtotal = decimal.Zero
	for _, l := range lines {
		lineTotal := l.UnitPrice.Mul(l.Quantity).Round(2)
		p.Lines = append(p.Lines, models.OrderItem{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   lineTotal,
		})
		p.Subtotal = p.Subtotal.Add(lineTotal)
	}

	p.LoyaltyDiscount = p.Subtotal.Mul(loyaltyPercent).Div(hundred).Round(2)
	afterLoyalty := p.Subtotal.Sub(p.LoyaltyDiscount)

	p.CouponDiscount = decimal.Zero
	if coupon != nil {
		d, err := CouponDiscount(*coupon, afterLoyalty, now)
		if err != nil {
			return Pricing{}, err
		}
		p.CouponDiscount = d
	}

	taxable := afterLoyalty.Sub(p.CouponDiscount)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	p.VAT = taxable.Mul(vatRate).Round(2)
	p.Total = taxable.Add(p.VAT)
	return p, nil
}
