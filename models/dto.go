package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required,min=3"`
	Phone    string `json:"phone" binding:"omitempty"`
	Address  string `json:"address" binding:"omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=customer carrier owner"`
	FullName string `json:"full_name" binding:"required,min=3"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type UpdateUserRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Role     string `json:"role" binding:"omitempty,oneof=customer carrier owner"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type CreateProductRequest struct {
	Name      string          `json:"name" binding:"required"`
	Type      string          `json:"type" binding:"required,oneof=vegetable fruit"`
	Price     decimal.Decimal `json:"price"`
	Stock     decimal.Decimal `json:"stock"`
	Threshold decimal.Decimal `json:"threshold"`
}

type UpdateProductRequest struct {
	Name      string           `json:"name"`
	Type      string           `json:"type" binding:"omitempty,oneof=vegetable fruit"`
	Price     *decimal.Decimal `json:"price"`
	Stock     *decimal.Decimal `json:"stock"`
	Threshold *decimal.Decimal `json:"threshold"`
	IsActive  *bool            `json:"is_active"`
}

type CartItemRequest struct {
	ProductID int             `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

type CheckoutRequest struct {
	DeliveryAddress     string    `json:"delivery_address"`
	RequestedDeliveryAt time.Time `json:"requested_delivery_at" binding:"required"`
	CouponCode          string    `json:"coupon_code"`
}

type RateCarrierRequest struct {
	Rating int `json:"rating" binding:"required,min=1,max=5"`
}

type CreateCouponRequest struct {
	Code            string              `json:"code"`
	UserID          *int                `json:"user_id"`
	DiscountPercent decimal.Decimal     `json:"discount_percent"`
	MinOrderValue   decimal.Decimal     `json:"min_order_value"`
	MaxDiscount     decimal.NullDecimal `json:"max_discount"`
	ExpiresAt       time.Time           `json:"expires_at" binding:"required"`
}

type ValidateCouponRequest struct {
	Code     string          `json:"code" binding:"required"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type UpdateLoyaltySettingsRequest struct {
	Enabled       bool            `json:"enabled"`
	Tier1Orders   int             `json:"tier1_orders"`
	Tier1Discount decimal.Decimal `json:"tier1_discount"`
	Tier2Orders   int             `json:"tier2_orders"`
	Tier2Discount decimal.Decimal `json:"tier2_discount"`
	Tier3Orders   int             `json:"tier3_orders"`
	Tier3Discount decimal.Decimal `json:"tier3_discount"`
}

type SendMessageRequest struct {
	ReceiverID int    `json:"receiver_id" binding:"required"`
	Subject    string `json:"subject" binding:"required,max=255"`
	Body       string `json:"body" binding:"required"`
}

type ReplyMessageRequest struct {
	Body string `json:"body" binding:"required"`
}
