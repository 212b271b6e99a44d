// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/gurukul-storefront/internal/domain/checkout"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	checkout *checkout.Service
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkoutService}
}

// GetQuote handles GET /checkout/quote
func (h *CheckoutHandler) GetQuote(c *gin.Context) {
	quote, err := h.checkout.Quote(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to price cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Quote calculated successfully",
		"data":    quote,
	})
}

// PlaceOrder handles POST /checkout/orders
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var req checkout.DeliveryDetails
	if !bindJSON(c, &req) {
		return
	}

	receipt, err := h.checkout.PlaceOrder(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to place order")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    receipt,
	})
}

// InitiatePayment handles POST /checkout/payment
func (h *CheckoutHandler) InitiatePayment(c *gin.Context) {
	var req checkout.PaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	paymentURL, err := h.checkout.InitiatePayment(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Payment initiation failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment initiated successfully",
		"data": gin.H{
			"payment_url": paymentURL,
		},
	})
}

// CompletePayment handles POST /checkout/payment/complete
func (h *CheckoutHandler) CompletePayment(c *gin.Context) {
	if err := h.checkout.CompletePayment(c.Request.Context()); err != nil {
		respondError(c, err, "Payment successful, but there was an error clearing your cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment successful! Your order has been placed.",
	})
}
