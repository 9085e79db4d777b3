package handlers

import (
	"context"

	"buildmart-storefront/internal/filters"
	"buildmart-storefront/internal/models"
	"buildmart-storefront/internal/services"
)

// CatalogServiceInterface defines the contract for product and category reads
type CatalogServiceInterface interface {
	PageSize() int
	ListProducts(ctx context.Context, spec filters.Spec) (filters.Result, error)
	ListDiscounted(ctx context.Context, page, pageSize int) (filters.Result, error)
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, categoryID string) (*models.Category, error)
	InvalidateCatalog(ctx context.Context)
}

// ReviewServiceInterface defines the contract for product reviews
type ReviewServiceInterface interface {
	ListReviews(ctx context.Context, productID string, page, pageSize int) (*services.Page[models.Review], error)
	CreateReview(ctx context.Context, userID string, req *services.CreateReviewRequest) (*models.Review, error)
}
