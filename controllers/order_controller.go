package controllers

import (
	"net/http"

	"grocery-store/models"
	"grocery-store/services"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orderService *services.OrderService
}

func NewOrderController(orderService *services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// Checkout godoc
// @Summary Checkout
// @Description Place an order from the cart. Delivery must be requested within the next 48 hours.
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CheckoutRequest true "Checkout"
// @Success 201 {object} models.Response{data=models.Order}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /orders/checkout [post]
func (ctrl *OrderController) Checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	userID, _ := currentUser(c)
	order, err := ctrl.orderService.Checkout(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, "Checkout failed", err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Order placed successfully",
		Data:    order,
	})
}

// GetMyOrders godoc
// @Summary List own orders
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} models.PaginationResponse
// @Router /orders [get]
func (ctrl *OrderController) GetMyOrders(c *gin.Context) {
	userID, _ := currentUser(c)
	page, limit := pagination(c)

	result, err := ctrl.orderService.ListOrders(c.Request.Context(), models.OrderFilter{
		CustomerID: userID,
		Status:     c.Query("status"),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		respondError(c, "Failed to retrieve orders", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetOrderByID godoc
// @Summary Get order
// @Tags Orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} models.Response{data=models.Order}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /orders/{id} [get]
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	userID, role := currentUser(c)
	order, err := ctrl.orderService.GetOrder(c.Request.Context(), userID, role, id)
	if err != nil {
		respondError(c, "Failed to retrieve order", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Order retrieved successfully",
		Data:    order,
	})
}

func (ctrl *OrderController) CancelOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	userID, _ := currentUser(c)
	order, err := ctrl.orderService.CancelOrder(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, "Failed to cancel order", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Order cancelled",
		Data:    order,
	})
}

// RateCarrier godoc
// @Summary Rate carrier
// @Description Rate the carrier of a delivered order, once
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param request body models.RateCarrierRequest true "Rating 1-5"
// @Success 200 {object} models.Response{data=models.Order}
// @Failure 409 {object} models.ErrorResponse
// @Router /orders/{id}/rate [post]
func (ctrl *OrderController) RateCarrier(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.RateCarrierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	userID, _ := currentUser(c)
	order, err := ctrl.orderService.RateCarrier(c.Request.Context(), userID, id, req.Rating)
	if err != nil {
		respondError(c, "Failed to rate carrier", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Carrier rated",
		Data:    order,
	})
}

// GetAvailableOrders godoc
// @Summary List orders waiting for a carrier
// @Tags Carrier
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.PaginationResponse
// @Router /carrier/orders/available [get]
func (ctrl *OrderController) GetAvailableOrders(c *gin.Context) {
	page, limit := pagination(c)

	result, err := ctrl.orderService.ListAvailable(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, "Failed to retrieve orders", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (ctrl *OrderController) GetCarrierOrders(c *gin.Context) {
	userID, _ := currentUser(c)
	page, limit := pagination(c)

	result, err := ctrl.orderService.ListOrders(c.Request.Context(), models.OrderFilter{
		CarrierID: userID,
		Status:    c.Query("status"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		respondError(c, "Failed to retrieve orders", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ClaimOrder godoc
// @Summary Claim order
// @Tags Carrier
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} models.Response{data=models.Order}
// @Failure 409 {object} models.ErrorResponse
// @Router /carrier/orders/{id}/claim [post]
func (ctrl *OrderController) ClaimOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	userID, _ := currentUser(c)
	order, err := ctrl.orderService.ClaimOrder(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, "Failed to claim order", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Order assigned to you",
		Data:    order,
	})
}

func (ctrl *OrderController) DeliverOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	userID, _ := currentUser(c)
	order, err := ctrl.orderService.DeliverOrder(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, "Failed to mark order delivered", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Order delivered",
		Data:    order,
	})
}

// GetAllOrders godoc
// @Summary List all orders
// @Tags Owner
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(pending, assigned, delivered, cancelled)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} models.PaginationResponse
// @Router /owner/orders [get]
func (ctrl *OrderController) GetAllOrders(c *gin.Context) {
	page, limit := pagination(c)

	result, err := ctrl.orderService.ListOrders(c.Request.Context(), models.OrderFilter{
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondError(c, "Failed to retrieve orders", err)
		return
	}

	c.JSON(http.StatusOK, result)
}
