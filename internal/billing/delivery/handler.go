package delivery

import (
	"errors"
	"io"
	"net/http"

	authdelivery "looppilot/internal/auth/delivery"
	"looppilot/internal/billing/usecase"
	"looppilot/pkg/apperr"
	"looppilot/pkg/response"

	"github.com/gin-gonic/gin"
)

// Stripe recommends rejecting webhook bodies above this size.
const maxWebhookBody = 65536

type BillingHandler struct {
	billingUsecase usecase.BillingUsecase
}

func NewBillingHandler(billingUsecase usecase.BillingUsecase) *BillingHandler {
	return &BillingHandler{billingUsecase: billingUsecase}
}

type checkoutRequest struct {
	PriceID string `json:"price_id" binding:"required"`
}

// GetUsage handles GET /usage
func (h *BillingHandler) GetUsage(c *gin.Context) {
	user := authdelivery.MustUser(c)
	if user == nil {
		return
	}
	c.JSON(http.StatusOK, h.billingUsecase.CheckUsage(user.ID))
}

// Checkout handles POST /billing/checkout
func (h *BillingHandler) Checkout(c *gin.Context) {
	user := authdelivery.MustUser(c)
	if user == nil {
		return
	}

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	url, err := h.billingUsecase.CreateCheckout(c.Request.Context(), user, req.PriceID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// Webhook handles POST /webhooks/stripe. The raw body is needed for the
// signature check, so it is read before any binding.
func (h *BillingHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, apperr.New(apperr.CodeTooLarge, "webhook body is too large"))
			return
		}
		response.Error(c, apperr.InvalidInput("failed to read body"))
		return
	}

	if err := h.billingUsecase.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
