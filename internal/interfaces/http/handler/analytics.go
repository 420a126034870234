package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/maroccart/backend/internal/application/report"
)

// AnalyticsHandler serves the admin dashboards
type AnalyticsHandler struct {
	BaseHandler
	analyticsService *reportapp.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService *reportapp.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Sales handles GET /api/analytics/sales
func (h *AnalyticsHandler) Sales(c *gin.Context) {
	var query reportapp.SalesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.ValidationError(c, err)
		return
	}

	sales, err := h.analyticsService.Sales(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sales)
}

// Users handles GET /api/analytics/users
func (h *AnalyticsHandler) Users(c *gin.Context) {
	result, err := h.analyticsService.Users(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Products handles GET /api/analytics/products
func (h *AnalyticsHandler) Products(c *gin.Context) {
	result, err := h.analyticsService.Products(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Conversion handles GET /api/analytics/conversion
func (h *AnalyticsHandler) Conversion(c *gin.Context) {
	result, err := h.analyticsService.Conversion(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Dashboard handles GET /api/analytics/dashboard
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	result, err := h.analyticsService.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
