package handlers

import (
	"net/http"

	"buildmart-storefront/internal/middleware"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService OrderServiceInterface
}

func NewOrderHandler(orderService OrderServiceInterface) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// RegisterRoutes registers order history routes. Orders are created through
// the cart checkout.
func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	orders := router.Group("/orders", authMiddleware.AuthRequired())
	{
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
	}
}

// ListOrders godoc
// @Summary List own orders
// @Tags orders
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page"
// @Param pageSize query int false "Page size, default 10"
// @Success 200 {object} Response
// @Router /api/v1/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, pageSize := pageParams(c)
	orders, err := h.orderService.ListOrders(c.Request.Context(), middleware.GetUserID(c), page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, order)
}
