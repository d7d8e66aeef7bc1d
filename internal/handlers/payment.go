// internal/handlers/payment.go
package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/Stvolll/scooter-wraps-backend/internal/services"
	"github.com/Stvolll/scooter-wraps-backend/internal/utils"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// POST /payments/webhook receives provider events. Signatures are
// verified upstream.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.BadRequestResponse(c, "Failed to read webhook payload", nil)
		return
	}

	if err := h.paymentService.HandleWebhookEvent(payload); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"received": true})
}
