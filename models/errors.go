package models

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrForbidden          = errors.New("forbidden")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidTransition  = errors.New("order status does not allow this action")
	ErrAlreadyRated       = errors.New("order already rated")
	ErrCouponUsed         = errors.New("coupon already used")
	ErrCouponExpired      = errors.New("coupon expired")
	ErrCouponMinOrder     = errors.New("order does not meet coupon minimum")
	ErrCouponNotOwned     = errors.New("coupon belongs to another customer")
)
