package services

import (
	"testing"
	"time"

	"grocery-store/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLoyaltyDiscountPercent(t *testing.T) {
	settings := models.DefaultLoyaltySettings()

	tests := []struct {
		completed int
		want      string
	}{
		{0, "0"},
		{4, "0"},
		{5, "5"},
		{9, "5"},
		{10, "10"},
		{19, "10"},
		{20, "15"},
		{100, "15"},
	}
	for _, tt := range tests {
		got := LoyaltyDiscountPercent(settings, tt.completed)
		assert.Truef(t, got.Equal(d(tt.want)), "completed=%d: got %s want %s", tt.completed, got, tt.want)
	}

	settings.Enabled = false
	assert.True(t, LoyaltyDiscountPercent(settings, 50).IsZero())
}

func TestValidateLoyaltySettings(t *testing.T) {
	assert.NoError(t, ValidateLoyaltySettings(models.DefaultLoyaltySettings()))

	tooHigh := models.DefaultLoyaltySettings()
	tooHigh.Tier3Discount = d("101")
	assert.ErrorIs(t, ValidateLoyaltySettings(tooHigh), models.ErrValidation)

	negative := models.DefaultLoyaltySettings()
	negative.Tier1Discount = d("-1")
	assert.ErrorIs(t, ValidateLoyaltySettings(negative), models.ErrValidation)

	notIncreasing := models.DefaultLoyaltySettings()
	notIncreasing.Tier2Orders = 5
	assert.ErrorIs(t, ValidateLoyaltySettings(notIncreasing), models.ErrValidation)

	zero := models.DefaultLoyaltySettings()
	zero.Tier1Orders = 0
	assert.ErrorIs(t, ValidateLoyaltySettings(zero), models.ErrValidation)
}

func TestCouponDiscount(t *testing.T) {
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	base := models.Coupon{
		DiscountPercent: d("20"),
		MinOrderValue:   d("50"),
		ExpiresAt:       now.Add(24 * time.Hour),
	}

	t.Run("percent of subtotal", func(t *testing.T) {
		got, err := CouponDiscount(base, d("80"), now)
		require.NoError(t, err)
		assert.True(t, got.Equal(d("16")), got.String())
	})

	t.Run("capped at max discount", func(t *testing.T) {
		c := base
		c.MaxDiscount = decimal.NewNullDecimal(d("10"))
		got, err := CouponDiscount(c, d("80"), now)
		require.NoError(t, err)
		assert.True(t, got.Equal(d("10")), got.String())
	})

	t.Run("zero max discount means no cap", func(t *testing.T) {
		c := base
		c.MaxDiscount = decimal.NewNullDecimal(decimal.Zero)
		got, err := CouponDiscount(c, d("80"), now)
		require.NoError(t, err)
		assert.True(t, got.Equal(d("16")), got.String())
	})

	t.Run("rounded to cents", func(t *testing.T) {
		c := base
		c.DiscountPercent = d("12.5")
		got, err := CouponDiscount(c, d("55.55"), now)
		require.NoError(t, err)
		assert.True(t, got.Equal(d("6.94")), got.String())
	})

	t.Run("minimum order", func(t *testing.T) {
		_, err := CouponDiscount(base, d("49.99"), now)
		assert.ErrorIs(t, err, models.ErrCouponMinOrder)
	})

	t.Run("expired", func(t *testing.T) {
		_, err := CouponDiscount(base, d("80"), now.Add(48*time.Hour))
		assert.ErrorIs(t, err, models.ErrCouponExpired)
	})

	t.Run("used", func(t *testing.T) {
		c := base
		used := now
		c.UsedAt = &used
		_, err := CouponDiscount(c, d("80"), now)
		assert.ErrorIs(t, err, models.ErrCouponUsed)
	})
}

func TestPriceOrder(t *testing.T) {
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	lines := []PricedLine{
		{ProductID: 1, ProductName: "Tomato", Quantity: d("2.5"), UnitPrice: d("3.99")},
		{ProductID: 2, ProductName: "Apple", Quantity: d("1"), UnitPrice: d("10")},
	}

	t.Run("no discounts", func(t *testing.T) {
		p, err := PriceOrder(lines, decimal.Zero, nil, d("0.18"), now)
		require.NoError(t, err)
		require.Len(t, p.Lines, 2)
		assert.True(t, p.Lines[0].LineTotal.Equal(d("9.98")), p.Lines[0].LineTotal.String())
		assert.True(t, p.Subtotal.Equal(d("19.98")))
		assert.True(t, p.VAT.Equal(d("3.60")), p.VAT.String())
		assert.True(t, p.Total.Equal(d("23.58")), p.Total.String())
	})

	t.Run("loyalty then coupon then vat", func(t *testing.T) {
		coupon := &models.Coupon{DiscountPercent: d("10"), ExpiresAt: now.Add(time.Hour)}
		p, err := PriceOrder(lines, d("10"), coupon, d("0.18"), now)
		require.NoError(t, err)

		assert.True(t, p.LoyaltyDiscount.Equal(d("2.00")), p.LoyaltyDiscount.String())
		assert.True(t, p.CouponDiscount.Equal(d("1.80")), p.CouponDiscount.String())
		assert.True(t, p.VAT.Equal(d("2.91")), p.VAT.String())

		expected := p.Subtotal.Sub(p.LoyaltyDiscount).Sub(p.CouponDiscount).Add(p.VAT)
		assert.True(t, p.Total.Equal(expected))
	})

	t.Run("coupon minimum checked after loyalty", func(t *testing.T) {
		coupon := &models.Coupon{DiscountPercent: d("10"), MinOrderValue: d("19"), ExpiresAt: now.Add(time.Hour)}
		_, err := PriceOrder(lines, d("10"), coupon, d("0.18"), now)
		assert.ErrorIs(t, err, models.ErrCouponMinOrder)
	})

	t.Run("total never negative", func(t *testing.T) {
		coupon := &models.Coupon{DiscountPercent: d("100"), ExpiresAt: now.Add(time.Hour)}
		p, err := PriceOrder(lines, d("15"), coupon, d("0.18"), now)
		require.NoError(t, err)
		assert.True(t, p.Total.IsZero(), p.Total.String())
	})
}
