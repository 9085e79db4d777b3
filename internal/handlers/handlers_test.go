package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"buildmart-storefront/internal/filters"
	"buildmart-storefront/internal/middleware"
	"buildmart-storefront/internal/models"
	"buildmart-storefront/internal/services"
	"buildmart-storefront/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubCatalog struct {
	products    []models.Product
	pipeline    *filters.Pipeline
	lastSpec    filters.Spec
	invalidated bool
}

func (s *stubCatalog) PageSize() int { return s.pipeline.PageSize() }

func (s *stubCatalog) ListProducts(_ context.Context, spec filters.Spec) (filters.Result, error) {
	s.lastSpec = spec
	return s.pipeline.Apply(s.products, spec), nil
}

func (s *stubCatalog) ListDiscounted(_ context.Context, page, pageSize int) (filters.Result, error) {
	return filters.Result{Items: []models.Product{}, Page: page, PageSize: pageSize}, nil
}

func (s *stubCatalog) GetProduct(_ context.Context, id string) (*models.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, services.ErrProductNotFound
}

func (s *stubCatalog) ListCategories(context.Context) ([]models.Category, error) {
	return []models.Category{}, nil
}

func (s *stubCatalog) GetCategory(context.Context, string) (*models.Category, error) {
	return nil, services.ErrCategoryNotFound
}

func (s *stubCatalog) InvalidateCatalog(context.Context) { s.invalidated = true }

type stubReviews struct{}

func (stubReviews) ListReviews(_ context.Context, _ string, page, pageSize int) (*services.Page[models.Review], error) {
	return &services.Page[models.Review]{Items: []models.Review{}, Page: page, PageSize: pageSize}, nil
}

func (stubReviews) CreateReview(_ context.Context, userID string, req *services.CreateReviewRequest) (*models.Review, error) {
	if req.Rating > 5 {
		return nil, services.ErrInvalidRating
	}
	return &models.Review{ID: "r1", ProductID: req.ProductID, UserID: userID, Rating: req.Rating}, nil
}

func newCatalogRouter(t *testing.T) (*gin.Engine, *stubCatalog, *auth.JWTManager) {
	t.Helper()
	catalog := &stubCatalog{pipeline: filters.NewPipeline("ko", 2)}
	for i := 1; i <= 5; i++ {
		catalog.products = append(catalog.products, models.Product{
			ID:         fmt.Sprintf("p%d", i),
			Name:       fmt.Sprintf("자재 %d", i),
			Price:      int64(i * 1000),
			CategoryID: "cement",
			Stock:      i - 1,
			Status:     "active",
			CreatedAt:  time.Date(2024, 1, i, 0, 0, 0, 0, time.UTC),
		})
	}

	jwtManager := auth.NewJWTManager("handler-secret", 1, 30)
	router := gin.New()
	api := router.Group("/api/v1")
	NewProductHandler(catalog, stubReviews{}, FilterCookie{Name: "product_filters", Days: 30}, zap.NewNop()).
		RegisterRoutes(api, middleware.NewAuthMiddleware(jwtManager))
	return router, catalog, jwtManager
}

func decodeResult(t *testing.T, body *bytes.Buffer) filters.Result {
	t.Helper()
	var envelope struct {
		Success bool           `json:"success"`
		Data    filters.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	return envelope.Data
}

func filterCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "product_filters" {
			return c
		}
	}
	t.Fatal("product_filters cookie not set")
	return nil
}

func TestListProductsDefaults(t *testing.T) {
	router, catalog, _ := newCatalogRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeResult(t, rec.Body)
	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, "p5", result.Items[0].ID, "newest first by default")
	assert.Equal(t, filters.SortByCreatedAt, catalog.lastSpec.SortBy)

	cookie := filterCookie(t, rec)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 30*24*60*60, cookie.MaxAge)
}

func TestListProductsQueryBeatsCookie(t *testing.T) {
	router, catalog, _ := newCatalogRouter(t)

	saved, err := filters.EncodeCookieValue(filters.Spec{
		CategoryID: "cement",
		InStock:    true,
		SortBy:     filters.SortByPrice,
		SortOrder:  filters.Desc,
		Page:       2,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?sortOrder=asc&page=1", nil)
	req.AddCookie(&http.Cookie{Name: "product_filters", Value: saved})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	spec := catalog.lastSpec
	assert.Equal(t, "cement", spec.CategoryID)
	assert.True(t, spec.InStock)
	assert.Equal(t, filters.SortByPrice, spec.SortBy)
	assert.Equal(t, filters.Asc, spec.SortOrder)
	assert.Equal(t, 1, spec.Page)

	result := decodeResult(t, rec.Body)
	assert.Equal(t, 4, result.Total)
	assert.Equal(t, "p2", result.Items[0].ID)

	written, err := filters.DecodeCookieValue(filterCookie(t, rec).Value)
	require.NoError(t, err)
	require.NotNil(t, written.SortOrder)
	assert.Equal(t, filters.Asc, *written.SortOrder)
}

func TestListProductsCorruptCookie(t *testing.T) {
	router, catalog, _ := newCatalogRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.AddCookie(&http.Cookie{Name: "product_filters", Value: "%7Bnot-json"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, filters.Defaults(2), catalog.lastSpec)
}

func TestListProductsPagePastEnd(t *testing.T) {
	router, _, _ := newCatalogRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products?page=1000000000000000000", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeResult(t, rec.Body)
	assert.Empty(t, result.Items)
	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 3, result.TotalPages)
}

func TestGetProductNotFound(t *testing.T) {
	router, _, _ := newCatalogRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, services.ErrProductNotFound.Error(), body.Error)
}

func bearer(t *testing.T, jwtManager *auth.JWTManager, role string) string {
	t.Helper()
	pair, err := jwtManager.GenerateTokenPair(auth.Identity{
		UserID: "3f1c2a4e-5b6d-4e7f-8a9b-0c1d2e3f4a5b",
		Role:   role,
		Email:  "a@b.kr",
	})
	require.NoError(t, err)
	return "Bearer " + pair.AccessToken
}

func TestCreateReviewRequiresAuth(t *testing.T) {
	router, _, jwtManager := newCatalogRouter(t)
	body := `{"productId":"p1","rating":4,"content":"좋아요"}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reviews", bytes.NewBufferString(body)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews", bytes.NewBufferString(body))
	req.Header.Set("Authorization", bearer(t, jwtManager, "user"))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/reviews", bytes.NewBufferString(`{"productId":"p1","rating":9,"content":"x"}`))
	req.Header.Set("Authorization", bearer(t, jwtManager, "user"))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	router, _, jwtManager := newCatalogRouter(t)
	pair, err := jwtManager.GenerateTokenPair(auth.Identity{UserID: "u", Role: "user"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews", bytes.NewBufferString(`{}`))
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminInvalidate(t *testing.T) {
	router, catalog, jwtManager := newCatalogRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/catalog/invalidate", nil)
	req.Header.Set("Authorization", bearer(t, jwtManager, "user"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, catalog.invalidated)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/catalog/invalidate", nil)
	req.Header.Set("Authorization", bearer(t, jwtManager, "admin"))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, catalog.invalidated)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{services.ErrOrderNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: cement has 2 left", services.ErrInsufficientStock), http.StatusConflict},
		{services.ErrEmailTaken, http.StatusConflict},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrEmptyCart, http.StatusBadRequest},
		{services.ErrAddressRequired, http.StatusBadRequest},
		{errors.New("pq: connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}
