package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/maroccart/backend/internal/application/identity"
	"github.com/maroccart/backend/internal/interfaces/http/middleware"
)

// UserHandler handles account, wishlist and referral endpoints
type UserHandler struct {
	BaseHandler
	authService *identityapp.AuthService
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(authService *identityapp.AuthService, userService *identityapp.UserService) *UserHandler {
	return &UserHandler{
		authService: authService,
		userService: userService,
	}
}

// Register handles POST /api/users and POST /api/users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req identityapp.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// Login handles POST /api/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	user, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Logout handles POST /api/users/logout by revoking the presented token
func (h *UserHandler) Logout(c *gin.Context) {
	var session identityapp.Session
	if claims := middleware.GetJWTClaims(c); claims != nil {
		session.JTI = claims.ID
		if claims.ExpiresAt != nil {
			session.ExpiresAt = claims.ExpiresAt.Time
		}
	}

	if err := h.authService.Logout(c.Request.Context(), session); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Logged out successfully")
}

// Profile handles GET /api/users/profile
func (h *UserHandler) Profile(c *gin.Context) {
	userID, _ := currentUser(c)
	profile, err := h.userService.Profile(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// UpdateProfile handles PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req identityapp.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	userID, _ := currentUser(c)
	profile, err := h.userService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// Wishlist handles GET /api/users/wishlist
func (h *UserHandler) Wishlist(c *gin.Context) {
	userID, _ := currentUser(c)
	products, err := h.userService.Wishlist(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// AddToWishlist handles POST /api/users/wishlist
func (h *UserHandler) AddToWishlist(c *gin.Context) {
	var req identityapp.WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	userID, _ := currentUser(c)
	resp, err := h.userService.AddToWishlist(c.Request.Context(), userID, req.ProductID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveFromWishlist handles DELETE /api/users/wishlist/:id
func (h *UserHandler) RemoveFromWishlist(c *gin.Context) {
	productID, ok := h.pathID(c, "id", productNotFound)
	if !ok {
		return
	}

	userID, _ := currentUser(c)
	resp, err := h.userService.RemoveFromWishlist(c.Request.Context(), userID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Referral handles GET /api/users/referral
func (h *UserHandler) Referral(c *gin.Context) {
	userID, _ := currentUser(c)
	info, err := h.userService.Referral(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}
