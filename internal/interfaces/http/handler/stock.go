package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/maroccart/backend/internal/application/inventory"
	"github.com/maroccart/backend/internal/interfaces/http/dto"
)

// StockHandler handles stock checks, reservations and alerts
type StockHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *inventoryapp.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// Check handles POST /api/stock/check
func (h *StockHandler) Check(c *gin.Context) {
	var req inventoryapp.CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Items == nil {
		h.Error(c, dto.ErrCodeValidation, "Items array is required")
		return
	}

	result, err := h.stockService.Check(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Reserve handles POST /api/stock/reserve
func (h *StockHandler) Reserve(c *gin.Context) {
	h.orderMove(c, h.stockService.Reserve)
}

// Release handles POST /api/stock/release
func (h *StockHandler) Release(c *gin.Context) {
	h.orderMove(c, h.stockService.Release)
}

// Complete handles POST /api/stock/complete
func (h *StockHandler) Complete(c *gin.Context) {
	h.orderMove(c, h.stockService.Complete)
}

type stockMove func(ctx context.Context, orderID uuid.UUID) (*inventoryapp.OrderStockResponse, error)

func (h *StockHandler) orderMove(c *gin.Context, move stockMove) {
	var req inventoryapp.OrderStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := move(c.Request.Context(), req.OrderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Alerts handles GET /api/stock/alerts
func (h *StockHandler) Alerts(c *gin.Context) {
	alerts, err := h.stockService.Alerts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, alerts)
}

// Set handles PUT /api/stock/:productId
func (h *StockHandler) Set(c *gin.Context) {
	productID, ok := h.pathID(c, "productId", productNotFound)
	if !ok {
		return
	}

	var req inventoryapp.SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.stockService.Set(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
