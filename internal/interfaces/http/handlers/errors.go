// internal/interfaces/http/handlers/errors.go
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/gurukul-storefront/internal/domain/auth"
	"github.com/your-org/gurukul-storefront/internal/domain/cart"
	"github.com/your-org/gurukul-storefront/internal/domain/checkout"
	"github.com/your-org/gurukul-storefront/internal/domain/product"
	"github.com/your-org/gurukul-storefront/internal/domain/session"
	"github.com/your-org/gurukul-storefront/internal/pkg/api"
	"github.com/your-org/gurukul-storefront/internal/pkg/sheety"
	"github.com/your-org/gurukul-storefront/internal/pkg/validate"
)

// respondError writes the error response for err. Messages are safe to show
// to the customer as a dismissible notice.
func respondError(c *gin.Context, err error, fallback string) {
	var verr *validate.Error
	var apiErr *api.APIError
	var sheetErr *sheety.Error

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Please fill in all required fields",
			"details": verr.Fields,
		})
	case errors.Is(err, cart.ErrInvalidItem),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, product.ErrUnknownType),
		errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, cart.ErrNotAuthenticated),
		errors.Is(err, auth.ErrRejected),
		errors.Is(err, session.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, product.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, cart.ErrMutationInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &apiErr):
		status := http.StatusBadGateway
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			status = apiErr.Status
		}
		c.JSON(status, gin.H{"error": fallback, "details": apiErr.Message})
	case errors.As(err, &sheetErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": fallback, "details": sheetErr.Message})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": fallback, "details": "request timed out"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": fallback, "details": err.Error()})
	}
	_ = c.Error(err)
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return false
	}
	return true
}
