package handler

import (
	"bytes"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	catalogapp "github.com/maroccart/backend/internal/application/catalog"
)

const productNotFound = "Product not found"

// ProductHandler handles product-related API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// List handles GET /api/products
func (h *ProductHandler) List(c *gin.Context) {
	var query catalogapp.ListProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.ValidationError(c, err)
		return
	}

	products, err := h.productService.List(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// Top handles GET /api/products/top
func (h *ProductHandler) Top(c *gin.Context) {
	products, err := h.productService.Top(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// Categories handles GET /api/products/categories
func (h *ProductHandler) Categories(c *gin.Context) {
	categories, err := h.productService.Categories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// GetByID handles GET /api/products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id", productNotFound)
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Create handles POST /api/products. An empty body creates the sample
// product for the admin to edit.
func (h *ProductHandler) Create(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	var req *catalogapp.CreateProductRequest
	if len(bytes.TrimSpace(raw)) > 0 {
		req = &catalogapp.CreateProductRequest{}
		if err := binding.JSON.BindBody(raw, req); err != nil {
			h.ValidationError(c, err)
			return
		}
	}

	userID, _ := currentUser(c)
	product, err := h.productService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update handles PUT /api/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id", productNotFound)
	if !ok {
		return
	}

	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete handles DELETE /api/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id", productNotFound)
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Product removed")
}

// AddReview handles POST /api/products/:id/reviews, the simple review
// without purchase verification
func (h *ProductHandler) AddReview(c *gin.Context) {
	id, ok := h.pathID(c, "id", productNotFound)
	if !ok {
		return
	}

	var req catalogapp.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	userID, _ := currentUser(c)
	if err := h.productService.AddReview(c.Request.Context(), id, userID, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, catalogapp.MessageResponse{Message: "Review added"})
}
