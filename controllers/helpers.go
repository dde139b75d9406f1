package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"grocery-store/middleware"
	"grocery-store/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrForbidden), errors.Is(err, models.ErrCouponNotOwned):
		return http.StatusForbidden
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrCartEmpty),
		errors.Is(err, models.ErrCouponExpired),
		errors.Is(err, models.ErrCouponMinOrder):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrConflict),
		errors.Is(err, models.ErrEmailTaken),
		errors.Is(err, models.ErrInsufficientStock),
		errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrAlreadyRated),
		errors.Is(err, models.ErrCouponUsed):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes the error envelope. Unexpected errors are logged and
// hidden from the client.
func respondError(c *gin.Context, message string, err error) {
	status := statusFor(err)
	resp := models.ErrorResponse{Success: false, Message: message}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg(message)
		_ = c.Error(err)
	} else {
		resp.Error = err.Error()
	}
	c.JSON(status, resp)
}

func badRequest(c *gin.Context, message string, err error) {
	resp := models.ErrorResponse{Success: false, Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(http.StatusBadRequest, resp)
}

func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		badRequest(c, "Invalid "+name, err)
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if err != nil || limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func currentUser(c *gin.Context) (int, string) {
	return c.GetInt(middleware.ContextUserID), c.GetString(middleware.ContextUserRole)
}
