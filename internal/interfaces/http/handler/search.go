package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/maroccart/backend/internal/application/catalog"
)

// SearchHandler handles catalog search endpoints
type SearchHandler struct {
	BaseHandler
	searchService *catalogapp.SearchService
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(searchService *catalogapp.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search handles GET /api/search
func (h *SearchHandler) Search(c *gin.Context) {
	var query catalogapp.SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.searchService.Search(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Suggestions handles GET /api/search/suggestions
func (h *SearchHandler) Suggestions(c *gin.Context) {
	suggestions, err := h.searchService.Suggestions(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, suggestions)
}

// Filters handles GET /api/search/filters
func (h *SearchHandler) Filters(c *gin.Context) {
	filters, err := h.searchService.Filters(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, filters)
}
