package controllers

import (
	"net/http"

	"grocery-store/models"
	"grocery-store/services"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService *services.AuthService
}

func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register godoc
// @Summary Register new customer
// @Description Register a new customer account
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Register Request"
// @Success 201 {object} models.Response{data=models.LoginResponse}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/register [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	result, err := ctrl.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Registration failed", err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Registration successful",
		Data:    result,
	})
}

// Login godoc
// @Summary Login
// @Description Authenticate with email and password and receive a JWT
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login Request"
// @Success 200 {object} models.Response{data=models.LoginResponse}
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	result, err := ctrl.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Login failed", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Login successful",
		Data:    result,
	})
}

// GetProfile godoc
// @Summary Get profile
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Response{data=models.User}
// @Router /auth/profile [get]
func (ctrl *AuthController) GetProfile(c *gin.Context) {
	userID, _ := currentUser(c)

	user, err := ctrl.authService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "Failed to retrieve profile", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Profile retrieved successfully",
		Data:    user,
	})
}

// UpdateProfile godoc
// @Summary Update profile
// @Tags Authentication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} models.Response{data=models.User}
// @Router /auth/profile [patch]
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	userID, _ := currentUser(c)
	user, err := ctrl.authService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, "Failed to update profile", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Profile updated successfully",
		Data:    user,
	})
}

// ChangePassword godoc
// @Summary Change password
// @Tags Authentication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ChangePasswordRequest true "Passwords"
// @Success 200 {object} models.Response
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/change-password [post]
func (ctrl *AuthController) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	userID, _ := currentUser(c)
	if err := ctrl.authService.ChangePassword(c.Request.Context(), userID, req); err != nil {
		respondError(c, "Failed to change password", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Password changed successfully",
	})
}
