package handlers

import (
	"net/http"

	"buildmart-storefront/internal/middleware"
	"buildmart-storefront/internal/services"

	"github.com/gin-gonic/gin"
)

type WishlistHandler struct {
	wishlistService WishlistServiceInterface
}

func NewWishlistHandler(wishlistService WishlistServiceInterface) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

func (h *WishlistHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	wishlist := router.Group("/wishlist", authMiddleware.AuthRequired())
	{
		wishlist.GET("", h.GetWishlist)
		wishlist.POST("/items", h.AddItem)
		wishlist.GET("/items/:productId", h.Contains)
		wishlist.DELETE("/items/:productId", h.RemoveItem)
		wishlist.DELETE("", h.ClearWishlist)
	}
}

func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	wishlist, err := h.wishlistService.GetWishlist(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, wishlist)
}

// AddItem is idempotent; adding a product twice keeps one entry.
func (h *WishlistHandler) AddItem(c *gin.Context) {
	var req services.AddToWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	wishlist, err := h.wishlistService.AddItem(c.Request.Context(), middleware.GetUserID(c), req.ProductID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, wishlist)
}

func (h *WishlistHandler) Contains(c *gin.Context) {
	in, err := h.wishlistService.IsInWishlist(c.Request.Context(), middleware.GetUserID(c), c.Param("productId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"inWishlist": in})
}

func (h *WishlistHandler) RemoveItem(c *gin.Context) {
	wishlist, err := h.wishlistService.RemoveItem(c.Request.Context(), middleware.GetUserID(c), c.Param("productId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, wishlist)
}

func (h *WishlistHandler) ClearWishlist(c *gin.Context) {
	wishlist, err := h.wishlistService.ClearWishlist(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, wishlist)
}
