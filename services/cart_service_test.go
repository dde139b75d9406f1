package services

import (
	"context"
	"testing"

	"grocery-store/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartFixture() (*CartService, *fakeProducts) {
	products := newFakeProducts(
		models.Product{ID: 1, Name: "Tomato", Type: models.ProductTypeVegetable, Price: d("2"), Stock: d("10"), Threshold: d("1"), IsActive: true},
		models.Product{ID: 2, Name: "Apple", Type: models.ProductTypeFruit, Price: d("3"), Stock: d("2"), Threshold: d("2"), IsActive: true},
		models.Product{ID: 3, Name: "Quince", Type: models.ProductTypeFruit, Price: d("5"), Stock: d("9"), Threshold: d("1")},
	)
	images := NewImageService(&fakeImageStore{}, products, newMemoryCache(), 1<<20, "")
	return NewCartService(newFakeCart(products), products, images), products
}

func TestCartAddMergesQuantities(t *testing.T) {
	svc, _ := newCartFixture()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, models.CartItemRequest{ProductID: 1, Quantity: d("1.5")})
	require.NoError(t, err)
	cart, err := svc.AddItem(ctx, 1, models.CartItemRequest{ProductID: 1, Quantity: d("2")})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.True(t, cart.Items[0].Quantity.Equal(d("3.5")))
	assert.True(t, cart.Subtotal.Equal(d("7")))
	assert.Equal(t, DefaultPlaceholderImage, cart.Items[0].ImageURL)

	_, err = svc.AddItem(ctx, 1, models.CartItemRequest{ProductID: 1, Quantity: d("7")})
	assert.ErrorIs(t, err, models.ErrInsufficientStock)
}

func TestCartUsesEffectivePrice(t *testing.T) {
	svc, _ := newCartFixture()

	cart, err := svc.AddItem(context.Background(), 1, models.CartItemRequest{ProductID: 2, Quantity: d("2")})
	require.NoError(t, err)
	assert.True(t, cart.Items[0].UnitPrice.Equal(d("6")))
	assert.True(t, cart.Subtotal.Equal(d("12")))
	assert.True(t, cart.Items[0].InStock)
}

func TestCartRejectsInvalidItems(t *testing.T) {
	svc, _ := newCartFixture()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, models.CartItemRequest{ProductID: 1, Quantity: d("0")})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.AddItem(ctx, 1, models.CartItemRequest{ProductID: 3, Quantity: d("1")})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.UpdateItem(ctx, 1, 1, d("2"))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCartMarksLinesOutOfStock(t *testing.T) {
	svc, products := newCartFixture()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, 1, models.CartItemRequest{ProductID: 1, Quantity: d("4")})
	require.NoError(t, err)
	products.products[1].Stock = d("3")

	cart, err := svc.GetCart(ctx, 1)
	require.NoError(t, err)
	assert.False(t, cart.Items[0].InStock)

	cart, err = svc.RemoveItem(ctx, 1, 1)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Subtotal.IsZero())
}
