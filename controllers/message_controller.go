package controllers

import (
	"net/http"

	"grocery-store/models"
	"grocery-store/services"

	"github.com/gin-gonic/gin"
)

type MessageController struct {
	messageService *services.MessageService
}

func NewMessageController(messageService *services.MessageService) *MessageController {
	return &MessageController{messageService: messageService}
}

// SendMessage godoc
// @Summary Send message
// @Description Customers and carriers may write to owners; owners to anyone
// @Tags Messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.SendMessageRequest true "Message"
// @Success 201 {object} models.Response{data=models.Message}
// @Failure 403 {object} models.ErrorResponse
// @Router /messages [post]
func (ctrl *MessageController) SendMessage(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	userID, role := currentUser(c)
	msg, err := ctrl.messageService.Send(c.Request.Context(), userID, role, req)
	if err != nil {
		respondError(c, "Failed to send message", err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Message sent",
		Data:    msg,
	})
}

func (ctrl *MessageController) ReplyMessage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req models.ReplyMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	userID, role := currentUser(c)
	msg, err := ctrl.messageService.Reply(c.Request.Context(), userID, role, id, req.Body)
	if err != nil {
		respondError(c, "Failed to send reply", err)
		return
	}

	c.JSON(http.StatusCreated, models.Response{
		Success: true,
		Message: "Reply sent",
		Data:    msg,
	})
}

// GetInbox godoc
// @Summary Inbox
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} models.PaginationResponse
// @Router /messages/inbox [get]
func (ctrl *MessageController) GetInbox(c *gin.Context) {
	userID, _ := currentUser(c)
	page, limit := pagination(c)

	result, err := ctrl.messageService.Inbox(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, "Failed to retrieve inbox", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (ctrl *MessageController) GetSent(c *gin.Context) {
	userID, _ := currentUser(c)
	page, limit := pagination(c)

	result, err := ctrl.messageService.Sent(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, "Failed to retrieve sent messages", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (ctrl *MessageController) GetMessage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	userID, _ := currentUser(c)
	msg, err := ctrl.messageService.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, "Failed to retrieve message", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Message retrieved successfully",
		Data:    msg,
	})
}

func (ctrl *MessageController) GetUnreadCount(c *gin.Context) {
	userID, _ := currentUser(c)

	count, err := ctrl.messageService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "Failed to count messages", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Unread count retrieved successfully",
		Data:    gin.H{"unread": count},
	})
}

func (ctrl *MessageController) GetContacts(c *gin.Context) {
	userID, role := currentUser(c)

	contacts, err := ctrl.messageService.Contacts(c.Request.Context(), userID, role)
	if err != nil {
		respondError(c, "Failed to retrieve contacts", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Contacts retrieved successfully",
		Data:    contacts,
	})
}

func (ctrl *MessageController) DeleteMessage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	userID, _ := currentUser(c)
	if err := ctrl.messageService.Delete(c.Request.Context(), userID, id); err != nil {
		respondError(c, "Failed to delete message", err)
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Message deleted",
	})
}
