package handler

import (
	"github.com/gin-gonic/gin"
	tradeapp "github.com/maroccart/backend/internal/application/trade"
)

const orderNotFound = "Order not found"

// OrderHandler handles order lifecycle endpoints
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create handles POST /api/orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req tradeapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	userID, _ := currentUser(c)
	order, err := h.orderService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// MyOrders handles GET /api/orders/myorders
func (h *OrderHandler) MyOrders(c *gin.Context) {
	userID, _ := currentUser(c)
	orders, err := h.orderService.MyOrders(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// GetByID handles GET /api/orders/:id
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "id", orderNotFound)
	if !ok {
		return
	}

	userID, isAdmin := currentUser(c)
	order, err := h.orderService.GetByID(c.Request.Context(), id, userID, isAdmin)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Pay handles PUT /api/orders/:id/pay. The body is the payment provider result.
func (h *OrderHandler) Pay(c *gin.Context) {
	id, ok := h.pathID(c, "id", orderNotFound)
	if !ok {
		return
	}

	var req tradeapp.PayOrderRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.ValidationError(c, err)
			return
		}
	}

	userID, isAdmin := currentUser(c)
	order, err := h.orderService.Pay(c.Request.Context(), id, userID, isAdmin, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Deliver handles PUT /api/orders/:id/deliver
func (h *OrderHandler) Deliver(c *gin.Context) {
	id, ok := h.pathID(c, "id", orderNotFound)
	if !ok {
		return
	}

	order, err := h.orderService.Deliver(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Cancel handles PUT /api/orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := h.pathID(c, "id", orderNotFound)
	if !ok {
		return
	}

	userID, isAdmin := currentUser(c)
	order, err := h.orderService.Cancel(c.Request.Context(), id, userID, isAdmin)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// UpdateStatus handles PUT /api/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.pathID(c, "id", orderNotFound)
	if !ok {
		return
	}

	var req tradeapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// AddDeliveryAttempt handles POST /api/orders/:id/delivery-attempts
func (h *OrderHandler) AddDeliveryAttempt(c *gin.Context) {
	id, ok := h.pathID(c, "id", orderNotFound)
	if !ok {
		return
	}

	var req tradeapp.DeliveryAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	order, err := h.orderService.AddDeliveryAttempt(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// List handles GET /api/orders for admins
func (h *OrderHandler) List(c *gin.Context) {
	var query tradeapp.ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.ValidationError(c, err)
		return
	}

	orders, err := h.orderService.ListAll(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}
