package controllers

import (
	"net/http"

	"grocery-store/models"
	"grocery-store/services"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	userService *services.UserService
}

func NewUserController(userService *services.UserService) *UserController {
	return &UserController{userService: userService}
}

// GetAllUsers godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filter by role" Enums(customer, carrier, owner)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} models.PaginationResponse
// @Router /owner/users [get]
func (ctrl *UserController) GetAllUsers(c *gin.Context) {
	page, limit := pagination(c)

	result, err := ctrl.userService.GetAllUsers(c.Request.Context(), c.Query("role"), page, limit)
	if err != nil {
		respondError(c, "Failed to retrieve users", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (ctrl *UserController) GetUserByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	user, err := ctrl.userService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, "User not found", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "User retrieved successfully",
		Data:    user,
	})
}

// CreateUser godoc
// @Summary Create user
// @Description Create a customer, carrier or owner account
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreateUserRequest true "User"
// @Success 201 {object} models.Response{data=models.User}
// @Router /owner/users [post]
func (ctrl *UserController) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	user, err := ctrl.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Failed to create user", err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "User created successfully",
		Data:    user,
	})
}

func (ctrl *UserController) UpdateUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	user, err := ctrl.userService.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, "Failed to update user", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "User updated successfully",
		Data:    user,
	})
}

func (ctrl *UserController) DeleteUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	actorID, _ := currentUser(c)
	if err := ctrl.userService.DeleteUser(c.Request.Context(), actorID, id); err != nil {
		respondError(c, "Failed to delete user", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "User deleted successfully",
	})
}
