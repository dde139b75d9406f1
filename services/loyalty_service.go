package services

import (
	"context"
	"time"

	"grocery-store/models"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	loyaltyCacheKey = "loyalty:settings"
	loyaltyCacheTTL = 10 * time.Minute
)

type LoyaltyStore interface {
	Get(ctx context.Context) (models.LoyaltySettings, error)
	Save(ctx context.Context, s *models.LoyaltySettings) error
}

type CompletedOrderCounter interface {
	CountCompleted(ctx context.Context, customerID int) (int, error)
}

type LoyaltyService struct {
	loyaltyRepo LoyaltyStore
	orders      CompletedOrderCounter
	cache       Cache
}

func NewLoyaltyService(loyaltyRepo LoyaltyStore, orders CompletedOrderCounter, cache Cache) *LoyaltyService {
	return &LoyaltyService{loyaltyRepo: loyaltyRepo, orders: orders, cache: cache}
}

func (s *LoyaltyService) GetSettings(ctx context.Context) (models.LoyaltySettings, error) {
	var settings models.LoyaltySettings
	if s.cache.GetJSON(ctx, loyaltyCacheKey, &settings) {
		return settings, nil
	}

	settings, err := s.loyaltyRepo.Get(ctx)
	if err != nil {
		return models.LoyaltySettings{}, err
	}
	s.cache.SetJSON(ctx, loyaltyCacheKey, settings, loyaltyCacheTTL)
	return settings, nil
}

func (s *LoyaltyService) UpdateSettings(ctx context.Context, req models.UpdateLoyaltySettingsRequest) (models.LoyaltySettings, error) {
	settings := models.LoyaltySettings{
		Enabled:       req.Enabled,
		Tier1Orders:   req.Tier1Orders,
		Tier1Discount: req.Tier1Discount,
		Tier2Orders:   req.Tier2Orders,
		Tier2Discount: req.Tier2Discount,
		Tier3Orders:   req.Tier3Orders,
		Tier3Discount: req.Tier3Discount,
	}
	if err := ValidateLoyaltySettings(settings); err != nil {
		return models.LoyaltySettings{}, err
	}

	if err := s.loyaltyRepo.Save(ctx, &settings); err != nil {
		return models.LoyaltySettings{}, err
	}
	s.cache.Delete(ctx, loyaltyCacheKey)

	log.Info().Bool("enabled", settings.Enabled).Msg("loyalty settings updated")
	return settings, nil
}

// DiscountPercent returns the loyalty percent the customer currently earns.
func (s *LoyaltyService) DiscountPercent(ctx context.Context, customerID int) (decimal.Decimal, error) {
	completed, settings, err := s.progress(ctx, customerID)
	if err != nil {
		return decimal.Zero, err
	}
	return LoyaltyDiscountPercent(settings, completed), nil
}

func (s *LoyaltyService) progress(ctx context.Context, customerID int) (int, models.LoyaltySettings, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return 0, settings, err
	}
	completed, err := s.orders.CountCompleted(ctx, customerID)
	if err != nil {
		return 0, settings, err
	}
	return completed, settings, nil
}

func (s *LoyaltyService) GetCustomerStatus(ctx context.Context, customerID int) (*models.LoyaltyStatus, error) {
	completed, settings, err := s.progress(ctx, customerID)
	if err != nil {
		return nil, err
	}

	status := &models.LoyaltyStatus{
		CompletedOrders: completed,
		DiscountPercent: LoyaltyDiscountPercent(settings, completed),
	}
	if !settings.Enabled {
		return status, nil
	}

	tiers := settings.Tiers()
	for i := len(tiers) - 1; i >= 0; i-- {
		if completed < tiers[i].Orders {
			next := tiers[i]
			status.NextTier = &next
			status.OrdersToNext = next.Orders - completed
			break
		}
	}
	return status, nil
}
