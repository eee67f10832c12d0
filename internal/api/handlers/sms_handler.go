package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"policeapp/internal/services"
)

type SMSHandler struct {
	notificationService *services.NotificationService
}

func NewSMSHandler(notificationService *services.NotificationService) *SMSHandler {
	return &SMSHandler{notificationService: notificationService}
}

type SendSMSRequest struct {
	To      string `json:"to" binding:"required,e164"`
	Message string `json:"message" binding:"required,max=1600"`
}

// Send handles POST /api/send-sms
func (h *SMSHandler) Send(c *gin.Context) {
	var req SendSMSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sid, err := h.notificationService.SendSMS(c.Request.Context(), req.To, req.Message)
	if err != nil {
		if errors.Is(err, services.ErrSMSDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Error sending SMS: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": "Message sent. SID: " + sid, "sid": sid})
}
