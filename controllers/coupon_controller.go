package controllers

import (
	"net/http"

	"grocery-store/models"
	"grocery-store/services"

	"github.com/gin-gonic/gin"
)

type CouponController struct {
	couponService *services.CouponService
}

func NewCouponController(couponService *services.CouponService) *CouponController {
	return &CouponController{couponService: couponService}
}

// GetCoupons godoc
// @Summary List coupons
// @Description Owners see every coupon, customers the ones they can redeem
// @Tags Coupons
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response{data=[]models.Coupon}
// @Router /coupons [get]
func (ctrl *CouponController) GetCoupons(c *gin.Context) {
	userID, role := currentUser(c)

	coupons, err := ctrl.couponService.ListCoupons(c.Request.Context(), userID, role)
	if err != nil {
		respondError(c, "Failed to retrieve coupons", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Coupons retrieved successfully",
		Data:    coupons,
	})
}

// ValidateCoupon godoc
// @Summary Preview coupon
// @Tags Coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ValidateCouponRequest true "Code and subtotal"
// @Success 200 {object} models.Response{data=models.CouponPreview}
// @Router /coupons/validate [post]
func (ctrl *CouponController) ValidateCoupon(c *gin.Context) {
	var req models.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	userID, _ := currentUser(c)
	preview, err := ctrl.couponService.Preview(c.Request.Context(), userID, req.Code, req.Subtotal)
	if err != nil {
		respondError(c, "Failed to validate coupon", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: preview.Message,
		Data:    preview,
	})
}

// CreateCoupon godoc
// @Summary Create coupon
// @Description A code is generated when none is given
// @Tags Coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateCouponRequest true "Coupon"
// @Success 201 {object} models.Response{data=models.Coupon}
// @Router /owner/coupons [post]
func (ctrl *CouponController) CreateCoupon(c *gin.Context) {
	var req models.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	coupon, err := ctrl.couponService.CreateCoupon(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Failed to create coupon", err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Coupon created successfully",
		Data:    coupon,
	})
}

func (ctrl *CouponController) DeleteCoupon(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.couponService.DeleteCoupon(c.Request.Context(), id); err != nil {
		respondError(c, "Failed to delete coupon", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Coupon deleted successfully",
	})
}
