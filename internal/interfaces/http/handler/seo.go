package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maroccart/backend/internal/application/seo"
)

// SEOHandler serves page metadata, the sitemap and robots.txt
type SEOHandler struct {
	BaseHandler
	seoService *seo.Service
}

// NewSEOHandler creates a new SEOHandler
func NewSEOHandler(seoService *seo.Service) *SEOHandler {
	return &SEOHandler{seoService: seoService}
}

// Product handles GET /api/seo/product/:id
func (h *SEOHandler) Product(c *gin.Context) {
	id, ok := h.pathID(c, "id", productNotFound)
	if !ok {
		return
	}

	meta, err := h.seoService.Product(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, meta)
}

// Category handles GET /api/seo/category/:category
func (h *SEOHandler) Category(c *gin.Context) {
	meta, err := h.seoService.Category(c.Request.Context(), c.Param("category"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, meta)
}

// Sitemap handles GET /api/seo/sitemap. ?format=xml renders a sitemaps.org urlset.
func (h *SEOHandler) Sitemap(c *gin.Context) {
	ctx := c.Request.Context()
	if c.Query("format") == "xml" {
		body, err := h.seoService.SitemapXML(ctx)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/xml; charset=utf-8", body)
		return
	}

	sitemap, err := h.seoService.Sitemap(ctx)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sitemap)
}

// Robots handles GET /api/seo/robots
func (h *SEOHandler) Robots(c *gin.Context) {
	c.String(http.StatusOK, h.seoService.Robots())
}

// Meta handles POST /api/seo/meta
func (h *SEOHandler) Meta(c *gin.Context) {
	var req seo.MetaRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.ValidationError(c, err)
			return
		}
	}
	h.Success(c, h.seoService.Meta(req))
}
