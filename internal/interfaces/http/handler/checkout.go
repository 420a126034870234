package handler

import (
	"github.com/gin-gonic/gin"
	tradeapp "github.com/maroccart/backend/internal/application/trade"
)

// CheckoutHandler handles cart checkout, pricing and shipping endpoints
type CheckoutHandler struct {
	BaseHandler
	checkoutService *tradeapp.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *tradeapp.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Process handles POST /api/checkout/process: reserve stock and place the order
func (h *CheckoutHandler) Process(c *gin.Context) {
	var req tradeapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	userID, _ := currentUser(c)
	order, err := h.checkoutService.Process(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Validate handles POST /api/checkout/validate
func (h *CheckoutHandler) Validate(c *gin.Context) {
	var req tradeapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.checkoutService.Validate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ShippingOptions handles GET /api/checkout/shipping-options
func (h *CheckoutHandler) ShippingOptions(c *gin.Context) {
	h.Success(c, h.checkoutService.ShippingOptions(c.Query("city")))
}

// Tax handles GET /api/checkout/tax
func (h *CheckoutHandler) Tax(c *gin.Context) {
	tax, err := h.checkoutService.Tax(c.Query("amount"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tax)
}
