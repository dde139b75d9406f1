package controllers

import (
	"net/http"

	"grocery-store/models"
	"grocery-store/services"

	"github.com/gin-gonic/gin"
)

type CartController struct {
	cartService *services.CartService
}

func NewCartController(cartService *services.CartService) *CartController {
	return &CartController{cartService: cartService}
}

// GetCart godoc
// @Summary Get cart
// @Description Cart lines priced at current effective prices
// @Tags Cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response{data=models.Cart}
// @Router /cart [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	userID, _ := currentUser(c)

	cart, err := ctrl.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "Failed to retrieve cart", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart retrieved successfully",
		Data:    cart,
	})
}

// AddItem godoc
// @Summary Add item to cart
// @Description Adds the quantity (kg) to the existing line for the product
// @Tags Cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CartItemRequest true "Item"
// @Success 200 {object} models.Response{data=models.Cart}
// @Failure 409 {object} models.ErrorResponse
// @Router /cart/items [post]
func (ctrl *CartController) AddItem(c *gin.Context) {
	var req models.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	userID, _ := currentUser(c)
	cart, err := ctrl.cartService.AddItem(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, "Failed to add item", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Item added to cart",
		Data:    cart,
	})
}

func (ctrl *CartController) UpdateItem(c *gin.Context) {
	productID, ok := paramID(c, "productId")
	if !ok {
		return
	}

	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	userID, _ := currentUser(c)
	cart, err := ctrl.cartService.UpdateItem(c.Request.Context(), userID, productID, req.Quantity)
	if err != nil {
		respondError(c, "Failed to update item", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart item updated",
		Data:    cart,
	})
}

func (ctrl *CartController) RemoveItem(c *gin.Context) {
	productID, ok := paramID(c, "productId")
	if !ok {
		return
	}

	userID, _ := currentUser(c)
	cart, err := ctrl.cartService.RemoveItem(c.Request.Context(), userID, productID)
	if err != nil {
		respondError(c, "Failed to remove item", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart item removed",
		Data:    cart,
	})
}

func (ctrl *CartController) Clear(c *gin.Context) {
	userID, _ := currentUser(c)
	if err := ctrl.cartService.Clear(c.Request.Context(), userID); err != nil {
		respondError(c, "Failed to clear cart", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Cart cleared",
	})
}
