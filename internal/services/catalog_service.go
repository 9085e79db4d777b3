package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"buildmart-storefront/internal/filters"
	"buildmart-storefront/internal/models"
	"buildmart-storefront/internal/repositories"
	"buildmart-storefront/pkg/messaging"

	"go.uber.org/zap"
)

const (
	productsCacheKey   = "catalog:products"
	categoriesCacheKey = "catalog:categories"
)

// CatalogService serves products and categories. The full product list is
// small enough to filter in process, so it is cached whole and run through
// the filter pipeline on every listing request.
type CatalogService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	cache        Cache
	pipeline     *filters.Pipeline
	cacheTTL     time.Duration
	logger       *zap.Logger
}

func NewCatalogService(
	productRepo repositories.ProductRepository,
	categoryRepo repositories.CategoryRepository,
	cache Cache,
	pipeline *filters.Pipeline,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
		pipeline:     pipeline,
		cacheTTL:     cacheTTL,
		logger:       logger,
	}
}

func (s *CatalogService) PageSize() int { return s.pipeline.PageSize() }

// ListProducts runs the filter pipeline over the whole catalog.
func (s *CatalogService) ListProducts(ctx context.Context, spec filters.Spec) (filters.Result, error) {
	products, err := s.allProducts(ctx)
	if err != nil {
		return filters.Result{}, err
	}
	return s.pipeline.Apply(products, spec), nil
}

// ListDiscounted returns products offering a business price, newest first.
func (s *CatalogService) ListDiscounted(ctx context.Context, page, pageSize int) (filters.Result, error) {
	products, err := s.allProducts(ctx)
	if err != nil {
		return filters.Result{}, err
	}

	discounted := make([]models.Product, 0, len(products))
	for i := range products {
		if products[i].HasBusinessPrice() {
			discounted = append(discounted, products[i])
		}
	}

	page, pageSize = normalizePage(page, pageSize, s.pipeline.PageSize())
	spec := filters.Defaults(pageSize)
	spec.Page = page
	return s.pipeline.Apply(discounted, spec), nil
}

func (s *CatalogService) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", productID, err)
	}

	if categories, err := s.categoryIndex(ctx); err == nil {
		if c, ok := categories[product.CategoryID]; ok {
			product.Category = &c
		}
	}
	return product, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if s.cache != nil {
		if err := s.cache.Get(ctx, categoriesCacheKey, &categories); err == nil {
			return categories, nil
		}
	}

	categories, err := s.categoryRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if categories == nil {
		categories = []models.Category{}
	}

	s.store(ctx, categoriesCacheKey, categories)
	return categories, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, categoryID string) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category %s: %w", categoryID, err)
	}
	return category, nil
}

// InvalidateCatalog drops the cached product and category lists.
func (s *CatalogService) InvalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	for _, key := range []string{productsCacheKey, categoriesCacheKey} {
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.Warn("Failed to invalidate catalog cache", zap.String("key", key), zap.Error(err))
		}
	}
}

// Warm replaces the cached catalog with a fresh load from MongoDB.
func (s *CatalogService) Warm(ctx context.Context) error {
	s.InvalidateCatalog(ctx)
	_, err := s.allProducts(ctx)
	return err
}

// HandleCatalogEvent is the consumer for the catalog topic.
func (s *CatalogService) HandleCatalogEvent(ctx context.Context, payload []byte) error {
	var event messaging.CatalogEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("decode catalog event: %w", err)
	}
	s.logger.Debug("Catalog changed", zap.String("type", event.Type), zap.String("product_id", event.ProductID))
	s.InvalidateCatalog(ctx)
	return nil
}

// allProducts returns the cached catalog with categories attached, loading
// it from MongoDB on a miss. Cache errors fall back to the database.
func (s *CatalogService) allProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if s.cache != nil {
		if err := s.cache.Get(ctx, productsCacheKey, &products); err == nil {
			return products, nil
		}
	}

	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	categories, err := s.categoryIndex(ctx)
	if err != nil {
		s.logger.Warn("Listing products without categories", zap.Error(err))
	}
	for i := range products {
		if c, ok := categories[products[i].CategoryID]; ok {
			c := c
			products[i].Category = &c
		}
	}

	s.store(ctx, productsCacheKey, products)
	return products, nil
}

func (s *CatalogService) categoryIndex(ctx context.Context) (map[string]models.Category, error) {
	categories, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		index[c.ID] = c
	}
	return index, nil
}

func (s *CatalogService) store(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache catalog", zap.String("key", key), zap.Error(err))
	}
}
