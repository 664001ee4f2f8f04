package controller

import (
	"errors"
	"net/http"
	"readiness_backend/internal/service"
	"readiness_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type WebhookController struct {
	webhooks *service.WebhookService
}

func NewWebhookController(webhooks *service.WebhookService) *WebhookController {
	return &WebhookController{webhooks: webhooks}
}

// Mailgun receives delivery event callbacks. Mailgun retries on non-2xx,
// so anything we cannot act on is acknowledged rather than failed.
func (ctrl *WebhookController) Mailgun(c *gin.Context) {
	var payload service.MailgunWebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	err := ctrl.webhooks.Handle(&payload)
	switch {
	case errors.Is(err, util.ErrInvalidSignature):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
	case err != nil:
		util.LogInternalError(c, err)
	default:
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
