package handlers

import (
	"net/http"

	"buildmart-storefront/internal/filters"
	"buildmart-storefront/internal/middleware"
	"buildmart-storefront/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FilterCookie names the cookie that remembers the last product listing.
type FilterCookie struct {
	Name string
	Days int
}

type ProductHandler struct {
	catalog CatalogServiceInterface
	reviews ReviewServiceInterface
	cookie  FilterCookie
	logger  *zap.Logger
}

func NewProductHandler(catalog CatalogServiceInterface, reviews ReviewServiceInterface, cookie FilterCookie, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		reviews: reviews,
		cookie:  cookie,
		logger:  logger,
	}
}

// RegisterRoutes registers catalog, category and review routes
func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware *middleware.AuthMiddleware) {
	// Public routes
	router.GET("/products", h.ListProducts)
	router.GET("/products/discount", h.ListDiscounted)
	router.GET("/products/:id", h.GetProduct)
	router.GET("/categories", h.ListCategories)
	router.GET("/categories/:id", h.GetCategory)
	router.GET("/reviews", h.ListReviews)

	// Protected routes
	router.POST("/reviews", authMiddleware.AuthRequired(), h.CreateReview)

	admin := router.Group("/admin", authMiddleware.AuthRequired(), authMiddleware.AdminRequired())
	admin.POST("/catalog/invalidate", h.InvalidateCatalog)
}

// ListProducts godoc
// @Summary List products
// @Description Filters come from the query string, then the product_filters
// @Description cookie, then defaults. The effective filters are written back
// @Description to the cookie.
// @Tags products
// @Produce json
// @Param categoryId query string false "Category"
// @Param search query string false "Search term"
// @Param minPrice query int false "Minimum price"
// @Param maxPrice query int false "Maximum price"
// @Param inStock query bool false "Only products in stock"
// @Param sortBy query string false "price, name, rating or createdAt"
// @Param sortOrder query string false "asc or desc"
// @Param page query int false "Page"
// @Success 200 {object} Response{data=filters.Result}
// @Router /api/v1/products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	cookie := filters.NewCookieSource(c.Request, c.Writer, h.cookie.Name, h.cookie.Days, h.logger)
	spec := filters.Resolve(
		filters.Defaults(h.catalog.PageSize()),
		filters.NewQuerySource(c.Request.URL.Query()),
		cookie,
	)

	result, err := h.catalog.ListProducts(c.Request.Context(), spec)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := cookie.Save(spec); err != nil {
		h.logger.Warn("Failed to save filter cookie", zap.Error(err))
	}
	respond(c, http.StatusOK, result)
}

func (h *ProductHandler) ListDiscounted(c *gin.Context) {
	page, pageSize := pageParams(c)
	result, err := h.catalog.ListDiscounted(c.Request.Context(), page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

// GetProduct godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} Response{data=models.Product}
// @Failure 404 {object} Response
// @Router /api/v1/products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, product)
}

func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, categories)
}

func (h *ProductHandler) GetCategory(c *gin.Context) {
	category, err := h.catalog.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, category)
}

func (h *ProductHandler) ListReviews(c *gin.Context) {
	productID := c.Query("productId")
	if productID == "" {
		respondError(c, http.StatusBadRequest, "productId is required")
		return
	}

	page, pageSize := pageParams(c)
	reviews, err := h.reviews.ListReviews(c.Request.Context(), productID, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, reviews)
}

// CreateReview godoc
// @Summary Review a product
// @Tags reviews
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body services.CreateReviewRequest true "Review"
// @Success 201 {object} Response{data=models.Review}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /api/v1/reviews [post]
func (h *ProductHandler) CreateReview(c *gin.Context) {
	var req services.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	review, err := h.reviews.CreateReview(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, http.StatusCreated, review, "리뷰가 등록되었습니다.")
}

func (h *ProductHandler) InvalidateCatalog(c *gin.Context) {
	h.catalog.InvalidateCatalog(c.Request.Context())
	respondMessage(c, http.StatusOK, nil, "Catalog cache cleared")
}
