package handlers

import (
	"net/http"

	"buildmart-storefront/internal/middleware"
	"buildmart-storefront/internal/services"

	"github.com/gin-gonic/gin"
)

type InquiryHandler struct {
	inquiryService InquiryServiceInterface
}

func NewInquiryHandler(inquiryService InquiryServiceInterface) *InquiryHandler {
	return &InquiryHandler{inquiryService: inquiryService}
}

func (h *InquiryHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	inquiries := router.Group("/inquiries", authMiddleware.AuthRequired())
	{
		inquiries.GET("", h.ListInquiries)
		inquiries.POST("", h.CreateInquiry)
		inquiries.GET("/:id", h.GetInquiry)
	}
}

func (h *InquiryHandler) CreateInquiry(c *gin.Context) {
	var req services.CreateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	inquiry, err := h.inquiryService.CreateInquiry(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, http.StatusCreated, inquiry, "문의가 접수되었습니다.")
}

func (h *InquiryHandler) ListInquiries(c *gin.Context) {
	page, pageSize := pageParams(c)
	inquiries, err := h.inquiryService.ListInquiries(c.Request.Context(), middleware.GetUserID(c), page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, inquiries)
}

func (h *InquiryHandler) GetInquiry(c *gin.Context) {
	inquiry, err := h.inquiryService.GetInquiry(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, inquiry)
}
