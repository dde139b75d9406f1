package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"grocery-store/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type CouponStore interface {
	Create(ctx context.Context, c *models.Coupon) error
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	FindByID(ctx context.Context, id int) (*models.Coupon, error)
	List(ctx context.Context, userID int) ([]models.Coupon, error)
	Delete(ctx context.Context, id int) error
}

type CouponService struct {
	couponRepo CouponStore
	userRepo   UserStore
	now        func() time.Time
}

func NewCouponService(couponRepo CouponStore, userRepo UserStore) *CouponService {
	return &CouponService{couponRepo: couponRepo, userRepo: userRepo, now: time.Now}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// generateCode returns an 8 character code derived from a random uuid.
func generateCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *CouponService) CreateCoupon(ctx context.Context, req models.CreateCouponRequest) (*models.Coupon, error) {
	if req.DiscountPercent.IsNegative() || req.DiscountPercent.GreaterThan(hundred) {
		return nil, validationError("discount_percent must be between 0 and 100")
	}
	if req.MinOrderValue.IsNegative() {
		return nil, validationError("min_order_value cannot be negative")
	}
	if req.MaxDiscount.Valid && req.MaxDiscount.Decimal.IsNegative() {
		return nil, validationError("max_discount cannot be negative")
	}
	if !req.ExpiresAt.After(s.now()) {
		return nil, validationError("expires_at must be in the future")
	}

	if req.UserID != nil {
		user, err := s.userRepo.FindByID(ctx, *req.UserID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, validationError("user %d does not exist", *req.UserID)
			}
			return nil, err
		}
		if user.Role != models.RoleCustomer {
			return nil, validationError("coupons can only be assigned to customers")
		}
	}

	code := normalizeCode(req.Code)
	if code == "" {
		code = generateCode()
	}

	coupon := &models.Coupon{
		Code:            code,
		UserID:          req.UserID,
		DiscountPercent: req.DiscountPercent,
		MinOrderValue:   req.MinOrderValue,
		MaxDiscount:     req.MaxDiscount,
		ExpiresAt:       req.ExpiresAt,
	}
	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return nil, err
	}

	log.Info().Str("code", coupon.Code).Msg("coupon created")
	return coupon, nil
}

// ListCoupons returns every coupon for owners and the redeemable ones for
// customers.
func (s *CouponService) ListCoupons(ctx context.Context, userID int, role string) ([]models.Coupon, error) {
	if role == models.RoleOwner {
		return s.couponRepo.List(ctx, 0)
	}

	all, err := s.couponRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	coupons := []models.Coupon{}
	for _, c := range all {
		if c.IsValid(now) && c.OwnedBy(userID) {
			coupons = append(coupons, c)
		}
	}
	return coupons, nil
}

// Redeemable loads a coupon by code and checks the customer may use it.
// Usage, expiry and minimum order are checked at pricing time.
func (s *CouponService) Redeemable(ctx context.Context, userID int, code string) (*models.Coupon, error) {
	coupon, err := s.couponRepo.FindByCode(ctx, normalizeCode(code))
	if err != nil {
		return nil, err
	}
	if !coupon.OwnedBy(userID) {
		return nil, models.ErrCouponNotOwned
	}
	return coupon, nil
}

// Preview reports the discount a coupon would give on subtotal. Rule
// violations are reported in the preview rather than as errors.
func (s *CouponService) Preview(ctx context.Context, userID int, code string, subtotal decimal.Decimal) (*models.CouponPreview, error) {
	preview := &models.CouponPreview{Code: normalizeCode(code), Discount: decimal.Zero}

	coupon, err := s.Redeemable(ctx, userID, code)
	switch {
	case errors.Is(err, models.ErrNotFound):
		preview.Message = "coupon not found"
		return preview, nil
	case errors.Is(err, models.ErrCouponNotOwned):
		preview.Message = err.Error()
		return preview, nil
	case err != nil:
		return nil, err
	}

	discount, err := CouponDiscount(*coupon, subtotal, s.now())
	if err != nil {
		preview.Message = err.Error()
		return preview, nil
	}

	preview.Valid = true
	preview.Discount = discount
	preview.Message = "coupon applied"
	return preview, nil
}

func (s *CouponService) DeleteCoupon(ctx context.Context, id int) error {
	coupon, err := s.couponRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if coupon.IsUsed() {
		return validationError("coupon %s was already redeemed", coupon.Code)
	}
	return s.couponRepo.Delete(ctx, id)
}
