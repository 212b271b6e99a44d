// internal/interfaces/http/handlers/product.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/gurukul-storefront/internal/domain/product"
)

// ProductHandler handles catalog endpoints
type ProductHandler struct {
	products *product.Service
}

// NewProductHandler creates a new product handler
func NewProductHandler(products *product.Service) *ProductHandler {
	return &ProductHandler{products: products}
}

// GetProducts handles GET /products?type=
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var (
		products []product.Product
		err      error
	)
	if productType := c.Query("type"); productType != "" {
		products, err = h.products.List(c.Request.Context(), productType)
	} else {
		products, err = h.products.ListAll(c.Request.Context())
	}
	if err != nil {
		respondError(c, err, "Failed to retrieve products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    products,
	})
}

// GetProductTypes handles GET /products/types
func (h *ProductHandler) GetProductTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Product types retrieved successfully",
		"data":    product.Types,
	})
}

// CreateProduct handles POST /admin/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req product.ProductRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.products.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"data":    created,
	})
}

// UpdateProduct handles PATCH /admin/products/:type/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req product.ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Type = c.Param("type")

	updated, err := h.products.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"data":    updated,
	})
}

// DeleteProduct handles DELETE /admin/products/:type/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("type"), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}
