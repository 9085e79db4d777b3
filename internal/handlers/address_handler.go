package handlers

import (
	"net/http"

	"buildmart-storefront/internal/middleware"
	"buildmart-storefront/internal/services"

	"github.com/gin-gonic/gin"
)

type AddressHandler struct {
	addressService AddressServiceInterface
}

func NewAddressHandler(addressService AddressServiceInterface) *AddressHandler {
	return &AddressHandler{
		addressService: addressService,
	}
}

// RegisterRoutes registers the routes for address management
func (h *AddressHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	addresses := router.Group("/addresses", authMiddleware.AuthRequired())
	{
		addresses.POST("", h.CreateAddress)
		addresses.GET("", h.GetAddresses)
		addresses.GET("/:id", h.GetAddressByID)
		addresses.PUT("/:id", h.UpdateAddress)
		addresses.DELETE("/:id", h.DeleteAddress)
		addresses.POST("/:id/default", h.SetDefaultAddress)
	}
}

// CreateAddress godoc
// @Summary Create a new address
// @Description The first address saved becomes the default
// @Tags addresses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param address body services.CreateAddressRequest true "Address details"
// @Success 201 {object} Response{data=models.Address}
// @Failure 400 {object} Response
// @Router /api/v1/addresses [post]
func (h *AddressHandler) CreateAddress(c *gin.Context) {
	var req services.CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	address, err := h.addressService.CreateAddress(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, address)
}

func (h *AddressHandler) GetAddresses(c *gin.Context) {
	page, pageSize := pageParams(c)
	addresses, err := h.addressService.GetAddresses(c.Request.Context(), middleware.GetUserID(c), page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, addresses)
}

func (h *AddressHandler) GetAddressByID(c *gin.Context) {
	address, err := h.addressService.GetAddressByID(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, address)
}

func (h *AddressHandler) UpdateAddress(c *gin.Context) {
	var req services.UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	address, err := h.addressService.UpdateAddress(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, address)
}

func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	if err := h.addressService.DeleteAddress(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, nil, "Address deleted successfully")
}

func (h *AddressHandler) SetDefaultAddress(c *gin.Context) {
	address, err := h.addressService.SetDefaultAddress(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, address)
}
