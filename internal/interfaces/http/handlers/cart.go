// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/gurukul-storefront/internal/domain/cart"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cart cart.Manager
}

// NewCartHandler creates a new cart handler
func NewCartHandler(manager cart.Manager) *CartHandler {
	return &CartHandler{cart: manager}
}

// AddItemRequest represents add to cart data. Quantity defaults to 1.
type AddItemRequest struct {
	cart.ItemInput
	Quantity *int `json:"quantity"`
}

// UpdateItemRequest represents a quantity change; zero or less removes the line
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	snap, err := h.cart.Snapshot(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data":    snap,
	})
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if !bindJSON(c, &req) {
		return
	}
	quantity := cart.DefaultQuantity
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	if err := h.cart.AddItem(c.Request.Context(), req.ItemInput, quantity); err != nil {
		respondError(c, err, "Failed to add item to cart")
		return
	}
	h.respondWithCart(c, "Item added to cart successfully")
}

// UpdateItem handles PATCH /cart/items/:id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req UpdateItemRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.cart.UpdateQuantity(c.Request.Context(), c.Param("id"), *req.Quantity); err != nil {
		respondError(c, err, "Failed to update cart item")
		return
	}
	h.respondWithCart(c, "Cart item updated successfully")
}

// RemoveItem handles DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	if err := h.cart.RemoveItem(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to remove cart item")
		return
	}
	h.respondWithCart(c, "Item removed from cart successfully")
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cart.Clear(c.Request.Context()); err != nil {
		respondError(c, err, "Failed to clear cart")
		return
	}
	h.respondWithCart(c, "Cart cleared successfully")
}

func (h *CartHandler) respondWithCart(c *gin.Context, message string) {
	snap, err := h.cart.Snapshot(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    snap,
	})
}
