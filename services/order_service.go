package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"grocery-store/libs"
	"grocery-store/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// MaxDeliveryWindow bounds how far ahead a delivery can be requested.
const MaxDeliveryWindow = 48 * time.Hour

const (
	EventOrderPlaced    = "order.placed"
	EventOrderAssigned  = "order.assigned"
	EventOrderDelivered = "order.delivered"
	EventOrderCancelled = "order.cancelled"
)

type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id int) (*models.Order, error)
	List(ctx context.Context, f models.OrderFilter) ([]models.Order, int, error)
	Assign(ctx context.Context, orderID, carrierID int) error
	MarkDelivered(ctx context.Context, orderID, carrierID int, at time.Time) error
	Cancel(ctx context.Context, orderID, customerID int) error
	Rate(ctx context.Context, orderID, customerID, rating int) error
	CountCompleted(ctx context.Context, customerID int) (int, error)
}

type OrderEvent struct {
	OrderID     int             `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Status      string          `json:"status"`
	CustomerID  int             `json:"customer_id"`
	CarrierID   *int            `json:"carrier_id,omitempty"`
	Total       decimal.Decimal `json:"total"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

type OrderConfig struct {
	VATRate       decimal.Decimal
	MinOrderTotal decimal.Decimal
}

type OrderService struct {
	orderRepo OrderStore
	cartRepo  CartStore
	userRepo  UserStore
	loyalty   *LoyaltyService
	coupons   *CouponService
	catalog   *ProductService
	events    libs.Publisher
	cfg       OrderConfig
	now       func() time.Time
}

func NewOrderService(
	orderRepo OrderStore,
	cartRepo CartStore,
	userRepo UserStore,
	loyalty *LoyaltyService,
	coupons *CouponService,
	catalog *ProductService,
	events libs.Publisher,
	cfg OrderConfig,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		userRepo:  userRepo,
		loyalty:   loyalty,
		coupons:   coupons,
		catalog:   catalog,
		events:    events,
		cfg:       cfg,
		now:       time.Now,
	}
}

func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}

// Checkout prices the customer's cart and places the order.
func (s *OrderService) Checkout(ctx context.Context, customerID int, req models.CheckoutRequest) (*models.Order, error) {
	now := s.now()
	if !req.RequestedDeliveryAt.After(now) {
		return nil, validationError("requested delivery time must be in the future")
	}
	if req.RequestedDeliveryAt.Sub(now) > MaxDeliveryWindow {
		return nil, validationError("requested delivery time must be within 48 hours")
	}

	address := strings.TrimSpace(req.DeliveryAddress)
	if address == "" {
		customer, err := s.userRepo.FindByID(ctx, customerID)
		if err != nil {
			return nil, err
		}
		address = customer.Address
	}
	if address == "" {
		return nil, validationError("delivery address is required")
	}

	items, err := s.cartRepo.ListItems(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, models.ErrCartEmpty
	}

	lines := make([]PricedLine, 0, len(items))
	for _, item := range items {
		p := item.Product
		if !p.IsActive || item.Quantity.GreaterThan(p.Stock) {
			return nil, fmt.Errorf("%w: %s", models.ErrInsufficientStock, p.Name)
		}
		lines = append(lines, PricedLine{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    item.Quantity,
			UnitPrice:   p.EffectivePrice(),
		})
	}

	loyaltyPercent, err := s.loyalty.DiscountPercent(ctx, customerID)
	if err != nil {
		return nil, err
	}

	var coupon *models.Coupon
	if strings.TrimSpace(req.CouponCode) != "" {
		coupon, err = s.coupons.Redeemable(ctx, customerID, req.CouponCode)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, validationError("coupon %s not found", normalizeCode(req.CouponCode))
			}
			return nil, err
		}
	}

	pricing, err := PriceOrder(lines, loyaltyPercent, coupon, s.cfg.VATRate, now)
	if err != nil {
		return nil, err
	}
	if pricing.Subtotal.LessThan(s.cfg.MinOrderTotal) {
		return nil, validationError("order subtotal must be at least %s", s.cfg.MinOrderTotal.StringFixed(2))
	}

	order := &models.Order{
		OrderNumber:         newOrderNumber(now),
		CustomerID:          customerID,
		Status:              models.OrderStatusPending,
		Subtotal:            pricing.Subtotal,
		LoyaltyDiscount:     pricing.LoyaltyDiscount,
		CouponDiscount:      pricing.CouponDiscount,
		VAT:                 pricing.VAT,
		Total:               pricing.Total,
		DeliveryAddress:     address,
		RequestedDeliveryAt: req.RequestedDeliveryAt,
		Items:               pricing.Lines,
	}
	if coupon != nil {
		order.CouponID = &coupon.ID
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	s.stockChanged(ctx)

	libs.OrdersPlaced.Inc()
	if coupon != nil {
		libs.CouponRedemptions.Inc()
	}
	log.Info().
		Int("order_id", order.ID).
		Str("order_number", order.OrderNumber).
		Int("customer_id", customerID).
		Str("total", order.Total.StringFixed(2)).
		Msg("order placed")
	s.publish(ctx, EventOrderPlaced, order)

	return order, nil
}

// GetOrder returns an order visible to the caller: owners see everything,
// customers their own orders, carriers orders assigned to them or open for
// claiming.
func (s *OrderService) GetOrder(ctx context.Context, userID int, role string, orderID int) (*models.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch role {
	case models.RoleOwner:
		return order, nil
	case models.RoleCustomer:
		if order.CustomerID == userID {
			return order, nil
		}
	case models.RoleCarrier:
		if order.Status == models.OrderStatusPending || (order.CarrierID != nil && *order.CarrierID == userID) {
			return order, nil
		}
	}
	return nil, models.ErrForbidden
}

func (s *OrderService) ListOrders(ctx context.Context, f models.OrderFilter) (*models.PaginationResponse, error) {
	if f.Status != "" && !validStatus(f.Status) {
		return nil, validationError("unknown order status %q", f.Status)
	}

	orders, total, err := s.orderRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	return &models.PaginationResponse{
		Success: true,
		Message: "Orders retrieved successfully",
		Data:    orders,
		Meta:    models.NewMetaData(f.Page, f.Limit, total),
	}, nil
}

func (s *OrderService) ListAvailable(ctx context.Context, page, limit int) (*models.PaginationResponse, error) {
	return s.ListOrders(ctx, models.OrderFilter{Status: models.OrderStatusPending, Page: page, Limit: limit})
}

func (s *OrderService) CancelOrder(ctx context.Context, customerID, orderID int) (*models.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, models.ErrForbidden
	}
	if !models.CanTransition(order.Status, models.OrderStatusCancelled) {
		return nil, models.ErrInvalidTransition
	}

	if err := s.orderRepo.Cancel(ctx, orderID, customerID); err != nil {
		return nil, err
	}
	s.stockChanged(ctx)
	order.Status = models.OrderStatusCancelled
	s.statusChanged(ctx, EventOrderCancelled, order)
	return order, nil
}

func (s *OrderService) ClaimOrder(ctx context.Context, carrierID, orderID int) (*models.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(order.Status, models.OrderStatusAssigned) {
		return nil, models.ErrInvalidTransition
	}

	if err := s.orderRepo.Assign(ctx, orderID, carrierID); err != nil {
		return nil, err
	}
	order.Status = models.OrderStatusAssigned
	order.CarrierID = &carrierID
	s.statusChanged(ctx, EventOrderAssigned, order)
	return order, nil
}

func (s *OrderService) DeliverOrder(ctx context.Context, carrierID, orderID int) (*models.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CarrierID == nil || *order.CarrierID != carrierID {
		return nil, models.ErrForbidden
	}
	if !models.CanTransition(order.Status, models.OrderStatusDelivered) {
		return nil, models.ErrInvalidTransition
	}

	at := s.now()
	if err := s.orderRepo.MarkDelivered(ctx, orderID, carrierID, at); err != nil {
		return nil, err
	}
	order.Status = models.OrderStatusDelivered
	order.DeliveredAt = &at
	s.statusChanged(ctx, EventOrderDelivered, order)
	return order, nil
}

func (s *OrderService) RateCarrier(ctx context.Context, customerID, orderID, rating int) (*models.Order, error) {
	if rating < 1 || rating > 5 {
		return nil, validationError("rating must be between 1 and 5")
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, models.ErrForbidden
	}
	if order.Status != models.OrderStatusDelivered {
		return nil, models.ErrInvalidTransition
	}
	if order.CarrierRating != nil {
		return nil, models.ErrAlreadyRated
	}

	if err := s.orderRepo.Rate(ctx, orderID, customerID, rating); err != nil {
		return nil, err
	}
	order.CarrierRating = &rating
	return order, nil
}

// stockChanged refreshes catalog pages after stock moved with an order.
func (s *OrderService) stockChanged(ctx context.Context) {
	if s.catalog != nil {
		s.catalog.InvalidateCatalog(ctx)
	}
}

func (s *OrderService) statusChanged(ctx context.Context, event string, order *models.Order) {
	libs.OrderStatusChanges.WithLabelValues(order.Status).Inc()
	log.Info().
		Int("order_id", order.ID).
		Str("status", order.Status).
		Msg("order status changed")
	s.publish(ctx, event, order)
}

// publish never fails the request; the order is already committed.
func (s *OrderService) publish(ctx context.Context, event string, order *models.Order) {
	payload := OrderEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status,
		CustomerID:  order.CustomerID,
		CarrierID:   order.CarrierID,
		Total:       order.Total,
		OccurredAt:  s.now(),
	}
	if err := s.events.Publish(ctx, event, payload); err != nil {
		log.Warn().Err(err).Str("event", event).Int("order_id", order.ID).Msg("failed to publish order event")
	}
}

func validStatus(status string) bool {
	switch status {
	case models.OrderStatusPending, models.OrderStatusAssigned, models.OrderStatusDelivered, models.OrderStatusCancelled:
		return true
	}
	return false
}
