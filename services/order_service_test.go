package services

import (
	"context"
	"testing"
	"time"

	"grocery-store/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	customerID = 1
	carrierID  = 2
	carrier2ID = 3
	ownerID    = 4
)

type orderFixture struct {
	now      time.Time
	products *fakeProducts
	cart     *fakeCart
	coupons  *fakeCoupons
	orders   *fakeOrders
	loyalty  *fakeLoyalty
	events   *recordingPublisher
	catalog  *ProductService
	svc      *OrderService
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	f := &orderFixture{now: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)}
	f.products = newFakeProducts(
		models.Product{ID: 1, Name: "Tomato", Type: models.ProductTypeVegetable, Price: d("2"), Stock: d("10"), Threshold: d("1"), IsActive: true},
		models.Product{ID: 2, Name: "Apple", Type: models.ProductTypeFruit, Price: d("3"), Stock: d("5"), Threshold: d("1"), IsActive: true},
	)
	users := newFakeUsers(
		models.User{ID: customerID, Email: "c@example.com", Role: models.RoleCustomer, FullName: "Cus", Address: "1 Market St"},
		models.User{ID: carrierID, Email: "k1@example.com", Role: models.RoleCarrier, FullName: "Kar"},
		models.User{ID: carrier2ID, Email: "k2@example.com", Role: models.RoleCarrier, FullName: "Kim"},
		models.User{ID: ownerID, Email: "o@example.com", Role: models.RoleOwner, FullName: "Own"},
	)
	f.cart = newFakeCart(f.products)
	f.coupons = &fakeCoupons{}
	f.orders = newFakeOrders(f.products, f.coupons, f.cart)
	f.loyalty = &fakeLoyalty{settings: models.DefaultLoyaltySettings()}
	f.events = &recordingPublisher{}

	loyaltySvc := NewLoyaltyService(f.loyalty, f.orders, newMemoryCache())
	couponSvc := NewCouponService(f.coupons, users)
	couponSvc.now = func() time.Time { return f.now }

	f.catalog = NewProductService(f.products, newMemoryCache(), nil)

	f.svc = NewOrderService(f.orders, f.cart, users, loyaltySvc, couponSvc, f.catalog, f.events, OrderConfig{
		VATRate:       d("0.18"),
		MinOrderTotal: decimal.Zero,
	})
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *orderFixture) fillCart(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.cart.AddItem(ctx, customerID, 1, d("2")))
	require.NoError(t, f.cart.AddItem(ctx, customerID, 2, d("1")))
}

func (f *orderFixture) checkoutRequest() models.CheckoutRequest {
	return models.CheckoutRequest{RequestedDeliveryAt: f.now.Add(3 * time.Hour)}
}

func TestCheckoutPlacesOrder(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(t)

	order, err := f.svc.Checkout(context.Background(), customerID, f.checkoutRequest())
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "1 Market St", order.DeliveryAddress)
	assert.Len(t, order.Items, 2)
	assert.True(t, order.Subtotal.Equal(d("7")), order.Subtotal.String())
	assert.True(t, order.VAT.Equal(d("1.26")), order.VAT.String())
	assert.True(t, order.Total.Equal(d("8.26")), order.Total.String())
	assert.Regexp(t, `^ORD-20260601-[0-9A-F]{8}$`, order.OrderNumber)

	assert.True(t, f.products.products[1].Stock.Equal(d("8")))
	assert.True(t, f.products.products[2].Stock.Equal(d("4")))
	assert.Empty(t, f.cart.items[customerID])
	assert.Equal(t, []string{EventOrderPlaced}, f.events.events)
}

func TestCheckoutUsesDoubledPriceForLowStock(t *testing.T) {
	f := newOrderFixture(t)
	f.products.products[2].Stock = d("1")
	require.NoError(t, f.cart.AddItem(context.Background(), customerID, 2, d("1")))

	order, err := f.svc.Checkout(context.Background(), customerID, f.checkoutRequest())
	require.NoError(t, err)
	assert.True(t, order.Items[0].UnitPrice.Equal(d("6")))
}

func TestCheckoutValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart", func(t *testing.T) {
		f := newOrderFixture(t)
		_, err := f.svc.Checkout(ctx, customerID, f.checkoutRequest())
		assert.ErrorIs(t, err, models.ErrCartEmpty)
	})

	t.Run("delivery in the past", func(t *testing.T) {
		f := newOrderFixture(t)
		f.fillCart(t)
		_, err := f.svc.Checkout(ctx, customerID, models.CheckoutRequest{RequestedDeliveryAt: f.now.Add(-time.Minute)})
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("delivery beyond 48 hours", func(t *testing.T) {
		f := newOrderFixture(t)
		f.fillCart(t)
		_, err := f.svc.Checkout(ctx, customerID, models.CheckoutRequest{RequestedDeliveryAt: f.now.Add(49 * time.Hour)})
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("delivery at exactly 48 hours", func(t *testing.T) {
		f := newOrderFixture(t)
		f.fillCart(t)
		_, err := f.svc.Checkout(ctx, customerID, models.CheckoutRequest{RequestedDeliveryAt: f.now.Add(MaxDeliveryWindow)})
		assert.NoError(t, err)
	})

	t.Run("quantity above stock", func(t *testing.T) {
		f := newOrderFixture(t)
		require.NoError(t, f.cart.AddItem(ctx, customerID, 2, d("6")))
		_, err := f.svc.Checkout(ctx, customerID, f.checkoutRequest())
		assert.ErrorIs(t, err, models.ErrInsufficientStock)
	})

	t.Run("below minimum order total", func(t *testing.T) {
		f := newOrderFixture(t)
		f.svc.cfg.MinOrderTotal = d("20")
		f.fillCart(t)
		_, err := f.svc.Checkout(ctx, customerID, f.checkoutRequest())
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("unknown coupon", func(t *testing.T) {
		f := newOrderFixture(t)
		f.fillCart(t)
		req := f.checkoutRequest()
		req.CouponCode = "nope"
		_, err := f.svc.Checkout(ctx, customerID, req)
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}

func TestCheckoutAppliesLoyaltyDiscount(t *testing.T) {
	f := newOrderFixture(t)
	for i := 0; i < 5; i++ {
		f.orders.orders[100+i] = &models.Order{ID: 100 + i, CustomerID: customerID, Status: models.OrderStatusDelivered}
	}
	f.fillCart(t)

	order, err := f.svc.Checkout(context.Background(), customerID, f.checkoutRequest())
	require.NoError(t, err)
	assert.True(t, order.LoyaltyDiscount.Equal(d("0.35")), order.LoyaltyDiscount.String())
}

func TestCheckoutCouponIsSingleUse(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	require.NoError(t, f.coupons.Create(ctx, &models.Coupon{
		Code: "SAVE10", DiscountPercent: d("10"), ExpiresAt: f.now.Add(24 * time.Hour),
	}))

	f.fillCart(t)
	req := f.checkoutRequest()
	req.CouponCode = "save10"
	order, err := f.svc.Checkout(ctx, customerID, req)
	require.NoError(t, err)
	require.NotNil(t, order.CouponID)
	assert.True(t, order.CouponDiscount.Equal(d("0.70")), order.CouponDiscount.String())
	assert.NotNil(t, f.coupons.coupons[0].UsedAt)

	f.fillCart(t)
	_, err = f.svc.Checkout(ctx, customerID, req)
	assert.ErrorIs(t, err, models.ErrCouponUsed)
}

func TestCheckoutRejectsCouponOfAnotherCustomer(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	other := 99
	require.NoError(t, f.coupons.Create(ctx, &models.Coupon{
		Code: "VIP", UserID: &other, DiscountPercent: d("10"), ExpiresAt: f.now.Add(time.Hour),
	}))
	f.fillCart(t)

	req := f.checkoutRequest()
	req.CouponCode = "VIP"
	_, err := f.svc.Checkout(ctx, customerID, req)
	assert.ErrorIs(t, err, models.ErrCouponNotOwned)
}

func TestOrderLifecycle(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.fillCart(t)

	order, err := f.svc.Checkout(ctx, customerID, f.checkoutRequest())
	require.NoError(t, err)

	_, err = f.svc.DeliverOrder(ctx, carrierID, order.ID)
	assert.ErrorIs(t, err, models.ErrForbidden, "cannot deliver before claiming")

	claimed, err := f.svc.ClaimOrder(ctx, carrierID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusAssigned, claimed.Status)

	_, err = f.svc.ClaimOrder(ctx, carrier2ID, order.ID)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, err = f.svc.DeliverOrder(ctx, carrier2ID, order.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = f.svc.RateCarrier(ctx, customerID, order.ID, 5)
	assert.ErrorIs(t, err, models.ErrInvalidTransition, "cannot rate before delivery")

	delivered, err := f.svc.DeliverOrder(ctx, carrierID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, delivered.Status)
	require.NotNil(t, delivered.DeliveredAt)

	_, err = f.svc.CancelOrder(ctx, customerID, order.ID)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, err = f.svc.RateCarrier(ctx, customerID, order.ID, 6)
	assert.ErrorIs(t, err, models.ErrValidation)

	rated, err := f.svc.RateCarrier(ctx, customerID, order.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, *rated.CarrierRating)

	_, err = f.svc.RateCarrier(ctx, customerID, order.ID, 5)
	assert.ErrorIs(t, err, models.ErrAlreadyRated)

	assert.Equal(t, []string{EventOrderPlaced, EventOrderAssigned, EventOrderDelivered}, f.events.events)
}

func TestCancelRestoresStockAndCoupon(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	require.NoError(t, f.coupons.Create(ctx, &models.Coupon{
		Code: "BACK", DiscountPercent: d("5"), ExpiresAt: f.now.Add(time.Hour),
	}))
	f.fillCart(t)

	req := f.checkoutRequest()
	req.CouponCode = "BACK"
	order, err := f.svc.Checkout(ctx, customerID, req)
	require.NoError(t, err)
	assert.True(t, f.products.products[1].Stock.Equal(d("8")))

	_, err = f.svc.CancelOrder(ctx, 42, order.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	cancelled, err := f.svc.CancelOrder(ctx, customerID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.True(t, f.products.products[1].Stock.Equal(d("10")))
	assert.True(t, f.products.products[2].Stock.Equal(d("5")))
	assert.Nil(t, f.coupons.coupons[0].UsedAt)
}

func TestGetOrderVisibility(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.fillCart(t)
	order, err := f.svc.Checkout(ctx, customerID, f.checkoutRequest())
	require.NoError(t, err)

	_, err = f.svc.GetOrder(ctx, customerID, models.RoleCustomer, order.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetOrder(ctx, ownerID, models.RoleOwner, order.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetOrder(ctx, 77, models.RoleCustomer, order.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = f.svc.GetOrder(ctx, carrier2ID, models.RoleCarrier, order.ID)
	assert.NoError(t, err, "pending orders are visible to every carrier")

	_, err = f.svc.ClaimOrder(ctx, carrierID, order.ID)
	require.NoError(t, err)
	_, err = f.svc.GetOrder(ctx, carrier2ID, models.RoleCarrier, order.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestListOrdersRejectsUnknownStatus(t *testing.T) {
	f := newOrderFixture(t)
	_, err := f.svc.ListOrders(context.Background(), models.OrderFilter{Status: "lost", Page: 1, Limit: 10})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func catalogEntry(t *testing.T, page *models.PaginationResponse, name string) models.ProductView {
	t.Helper()
	products, ok := page.Data.([]models.ProductView)
	require.True(t, ok)
	for _, p := range products {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("product %s not in catalog", name)
	return models.ProductView{}
}

func TestCheckoutAndCancelRefreshCatalog(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	before, err := f.catalog.GetAllProducts(ctx, "", "", 1, 10)
	require.NoError(t, err)
	apple := catalogEntry(t, before, "Apple")
	assert.False(t, apple.LowStock)
	assert.True(t, apple.EffectivePrice.Equal(d("3")))

	require.NoError(t, f.cart.AddItem(ctx, customerID, 2, d("4.5")))
	order, err := f.svc.Checkout(ctx, customerID, f.checkoutRequest())
	require.NoError(t, err)

	after, err := f.catalog.GetAllProducts(ctx, "", "", 1, 10)
	require.NoError(t, err)
	apple = catalogEntry(t, after, "Apple")
	assert.True(t, apple.Stock.Equal(d("0.5")), apple.Stock.String())
	assert.True(t, apple.LowStock)
	assert.True(t, apple.EffectivePrice.Equal(d("6")))

	_, err = f.svc.CancelOrder(ctx, customerID, order.ID)
	require.NoError(t, err)

	restored, err := f.catalog.GetAllProducts(ctx, "", "", 1, 10)
	require.NoError(t, err)
	apple = catalogEntry(t, restored, "Apple")
	assert.True(t, apple.Stock.Equal(d("5")), apple.Stock.String())
	assert.False(t, apple.LowStock)
	assert.Equal(t, 3, f.products.listCall)
}
