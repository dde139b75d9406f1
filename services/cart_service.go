package services

import (
	"context"

	"grocery-store/models"

	"github.com/shopspring/decimal"
)

type CartStore interface {
	ListItems(ctx context.Context, userID int) ([]models.CartItem, error)
	AddItem(ctx context.Context, userID, productID int, qty decimal.Decimal) error
	SetQuantity(ctx context.Context, userID, productID int, qty decimal.Decimal) error
	RemoveItem(ctx context.Context, userID, productID int) error
	Clear(ctx context.Context, userID int) error
}

type CartService struct {
	cartRepo    CartStore
	productRepo ProductStore
	images      *ImageService
}

func NewCartService(cartRepo CartStore, productRepo ProductStore, images *ImageService) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo, images: images}
}

// GetCart prices every line at the product's current effective price.
func (s *CartService) GetCart(ctx context.Context, userID int) (*models.Cart, error) {
	items, err := s.cartRepo.ListItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart := &models.Cart{Items: []models.CartLine{}, Subtotal: decimal.Zero}
	for _, item := range items {
		p := item.Product
		unit := p.EffectivePrice()
		line := models.CartLine{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  item.Quantity,
			UnitPrice: unit,
			LineTotal: unit.Mul(item.Quantity).Round(2),
			InStock:   p.IsActive && item.Quantity.LessThanOrEqual(p.Stock),
			ImageURL:  p.ImageURL,
		}
		if s.images != nil {
			line.ImageURL = s.images.DisplayURL(p.ImageURL)
		}
		cart.Items = append(cart.Items, line)
		cart.Subtotal = cart.Subtotal.Add(line.LineTotal)
	}
	return cart, nil
}

func (s *CartService) AddItem(ctx context.Context, userID int, req models.CartItemRequest) (*models.Cart, error) {
	if !req.Quantity.IsPositive() {
		return nil, validationError("quantity must be greater than zero")
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, models.ErrNotFound
	}

	current := decimal.Zero
	items, err := s.cartRepo.ListItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if item.ProductID == req.ProductID {
			current = item.Quantity
		}
	}
	if current.Add(req.Quantity).GreaterThan(product.Stock) {
		return nil, models.ErrInsufficientStock
	}

	if err := s.cartRepo.AddItem(ctx, userID, req.ProductID, req.Quantity); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *CartService) UpdateItem(ctx context.Context, userID, productID int, qty decimal.Decimal) (*models.Cart, error) {
	if !qty.IsPositive() {
		return nil, validationError("quantity must be greater than zero")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if qty.GreaterThan(product.Stock) {
		return nil, models.ErrInsufficientStock
	}

	if err := s.cartRepo.SetQuantity(ctx, userID, productID, qty); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID int) (*models.Cart, error) {
	if err := s.cartRepo.RemoveItem(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID int) error {
	return s.cartRepo.Clear(ctx, userID)
}
