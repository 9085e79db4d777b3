package handlers

import (
	"net/http"

	"buildmart-storefront/internal/middleware"
	"buildmart-storefront/internal/services"

	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	cartService  CartServiceInterface
	orderService OrderServiceInterface
}

func NewCartHandler(cartService CartServiceInterface, orderService OrderServiceInterface) *CartHandler {
	return &CartHandler{
		cartService:  cartService,
		orderService: orderService,
	}
}

// RegisterRoutes registers the routes for cart management
func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	// All cart routes require authentication
	cart := router.Group("/cart", authMiddleware.AuthRequired())
	{
		cart.GET("", h.GetCart)
		cart.POST("/items", h.AddToCart)
		cart.PUT("/items/:productId", h.UpdateCartItem)
		cart.DELETE("/items/:productId", h.RemoveFromCart)
		cart.DELETE("", h.ClearCart)
		cart.POST("/checkout", h.Checkout)
	}
}

// GetCart godoc
// @Summary Get user's cart
// @Description Lines, totals, shipping fee and final amount
// @Tags cart
// @Security BearerAuth
// @Produce json
// @Success 200 {object} Response{data=services.CartView}
// @Failure 401 {object} Response
// @Router /api/v1/cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.cartService.GetCart(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, cart)
}

// AddToCart godoc
// @Summary Add item to cart
// @Description Merges into an existing line. Rejected when the resulting
// @Description quantity exceeds stock.
// @Tags cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body services.AddToCartRequest true "Item"
// @Success 200 {object} Response{data=services.CartView}
// @Failure 404 {object} Response
// @Failure 409 {object} Response
// @Router /api/v1/cart/items [post]
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req services.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, cart, "장바구니에 추가되었습니다.")
}

func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req services.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	cart, err := h.cartService.UpdateQuantity(c.Request.Context(), middleware.GetUserID(c), c.Param("productId"), req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, cart)
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	cart, err := h.cartService.RemoveItem(c.Request.Context(), middleware.GetUserID(c), c.Param("productId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, cart)
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	cart, err := h.cartService.ClearCart(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, cart)
}

// Checkout godoc
// @Summary Checkout cart
// @Description Creates a pending order from the cart and clears it
// @Tags cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body services.CheckoutRequest true "Shipping and payment"
// @Success 201 {object} Response{data=models.Order}
// @Failure 400 {object} Response
// @Failure 409 {object} Response
// @Router /api/v1/cart/checkout [post]
func (h *CartHandler) Checkout(c *gin.Context) {
	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.orderService.Checkout(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, http.StatusCreated, order, "주문이 완료되었습니다.")
}
