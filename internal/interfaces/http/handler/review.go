package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/maroccart/backend/internal/application/catalog"
)

const reviewNotFound = "Review not found"

// ReviewHandler handles verified-purchase reviews
type ReviewHandler struct {
	BaseHandler
	reviewService *catalogapp.ReviewService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService *catalogapp.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// ReviewUpdatedResponse is the body of a successful review update
type ReviewUpdatedResponse struct {
	Message string                    `json:"message"`
	Review  catalogapp.ReviewResponse `json:"review"`
}

// ProductReviews handles GET /api/reviews/products/:id/reviews
func (h *ReviewHandler) ProductReviews(c *gin.Context) {
	productID, ok := h.pathID(c, "id", productNotFound)
	if !ok {
		return
	}

	reviews, err := h.reviewService.ProductReviews(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reviews)
}

// Helpful handles GET /api/reviews/products/:id/reviews/helpful
func (h *ReviewHandler) Helpful(c *gin.Context) {
	productID, ok := h.pathID(c, "id", productNotFound)
	if !ok {
		return
	}

	reviews, err := h.reviewService.Helpful(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reviews)
}

// UserReviews handles GET /api/reviews/reviews/user/:userId
func (h *ReviewHandler) UserReviews(c *gin.Context) {
	userID, ok := h.pathID(c, "userId", "User not found")
	if !ok {
		return
	}

	reviews, err := h.reviewService.UserReviews(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, reviews)
}

// Create handles POST /api/reviews/products/:id/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	productID, ok := h.pathID(c, "id", productNotFound)
	if !ok {
		return
	}

	var req catalogapp.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	userID, _ := currentUser(c)
	created, err := h.reviewService.Create(c.Request.Context(), productID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}

// Update handles PUT /api/reviews/products/:id/reviews/:reviewId
func (h *ReviewHandler) Update(c *gin.Context) {
	productID, ok := h.pathID(c, "id", productNotFound)
	if !ok {
		return
	}
	reviewID, ok := h.pathID(c, "reviewId", reviewNotFound)
	if !ok {
		return
	}

	var req catalogapp.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	userID, _ := currentUser(c)
	review, err := h.reviewService.Update(c.Request.Context(), productID, reviewID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ReviewUpdatedResponse{Message: "Review updated successfully", Review: *review})
}

// Delete handles DELETE /api/reviews/products/:id/reviews/:reviewId
func (h *ReviewHandler) Delete(c *gin.Context) {
	productID, ok := h.pathID(c, "id", productNotFound)
	if !ok {
		return
	}
	reviewID, ok := h.pathID(c, "reviewId", reviewNotFound)
	if !ok {
		return
	}

	userID, isAdmin := currentUser(c)
	if err := h.reviewService.Delete(c.Request.Context(), productID, reviewID, userID, isAdmin); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Review removed successfully")
}
