package controllers

import (
	"net/http"

	"grocery-store/models"
	"grocery-store/services"

	"github.com/gin-gonic/gin"
)

type LoyaltyController struct {
	loyaltyService *services.LoyaltyService
}

func NewLoyaltyController(loyaltyService *services.LoyaltyService) *LoyaltyController {
	return &LoyaltyController{loyaltyService: loyaltyService}
}

func (ctrl *LoyaltyController) GetSettings(c *gin.Context) {
	settings, err := ctrl.loyaltyService.GetSettings(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to retrieve loyalty settings", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Loyalty settings retrieved successfully",
		Data:    settings,
	})
}

// UpdateSettings godoc
// @Summary Update loyalty settings
// @Description Tier order counts must increase and discounts stay within 0-100
// @Tags Loyalty
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.UpdateLoyaltySettingsRequest true "Settings"
// @Success 200 {object} models.Response{data=models.LoyaltySettings}
// @Failure 400 {object} models.ErrorResponse
// @Router /owner/loyalty/settings [put]
func (ctrl *LoyaltyController) UpdateSettings(c *gin.Context) {
	var req models.UpdateLoyaltySettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	settings, err := ctrl.loyaltyService.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Failed to update loyalty settings", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Loyalty settings updated",
		Data:    settings,
	})
}

// GetStatus godoc
// @Summary Loyalty status
// @Description Completed orders, current discount and progress to the next tier
// @Tags Loyalty
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response{data=models.LoyaltyStatus}
// @Router /loyalty/status [get]
func (ctrl *LoyaltyController) GetStatus(c *gin.Context) {
	userID, _ := currentUser(c)

	status, err := ctrl.loyaltyService.GetCustomerStatus(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "Failed to retrieve loyalty status", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Loyalty status retrieved successfully",
		Data:    status,
	})
}
