package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"buildmart-storefront/internal/models"
	"buildmart-storefront/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateReviewRequest struct {
	ProductID string   `json:"productId" binding:"required"`
	OrderID   string   `json:"orderId"`
	Rating    int      `json:"rating" binding:"required"`
	Title     string   `json:"title"`
	Content   string   `json:"content" binding:"required"`
	Images    []string `json:"images"`
}

// ReviewService writes product reviews and keeps the product's rating
// aggregate in step with them.
type ReviewService struct {
	reviewRepo  repositories.ReviewRepository
	productRepo repositories.ProductRepository
	orderRepo   repositories.OrderRepository
	userRepo    repositories.UserRepository
	catalog     *CatalogService
	logger      *zap.Logger
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	productRepo repositories.ProductRepository,
	orderRepo repositories.OrderRepository,
	userRepo repositories.UserRepository,
	catalog *CatalogService,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		catalog:     catalog,
		logger:      logger,
	}
}

// ListReviews returns a product's reviews, newest first.
func (s *ReviewService) ListReviews(ctx context.Context, productID string, page, pageSize int) (*Page[models.Review], error) {
	page, pageSize = normalizePage(page, pageSize, 10)
	reviews, total, err := s.reviewRepo.GetByProductID(ctx, productID, pageOffset(page, pageSize), pageSize)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return newPage(reviews, total, page, pageSize), nil
}

// CreateReview stores a review and recomputes the product's average rating
// and review count. A review naming one of the author's orders that
// contains the product is marked verified.
func (s *ReviewService) CreateReview(ctx context.Context, userID string, req *CreateReviewRequest) (*models.Review, error) {
	userUUID, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.productRepo.GetByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	var userName string
	if user, err := s.userRepo.GetByID(ctx, userUUID); err == nil {
		userName = user.Name
	}

	now := time.Now()
	review := &models.Review{
		ID:         uuid.NewString(),
		ProductID:  req.ProductID,
		UserID:     userID,
		UserName:   userName,
		OrderID:    req.OrderID,
		Rating:     req.Rating,
		Title:      strings.TrimSpace(req.Title),
		Content:    strings.TrimSpace(req.Content),
		Images:     req.Images,
		IsVerified: s.purchased(ctx, userUUID, req.OrderID, req.ProductID),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if err := s.refreshRating(ctx, req.ProductID); err != nil {
		s.logger.Error("Failed to refresh product rating", zap.String("product_id", req.ProductID), zap.Error(err))
	}
	return review, nil
}

func (s *ReviewService) refreshRating(ctx context.Context, productID string) error {
	stats, err := s.reviewRepo.Stats(ctx, productID)
	if err != nil {
		return err
	}
	if err := s.productRepo.UpdateRating(ctx, productID, stats.Average, stats.Count); err != nil {
		return err
	}
	if s.catalog != nil {
		s.catalog.InvalidateCatalog(ctx)
	}
	return nil
}

func (s *ReviewService) purchased(ctx context.Context, userID uuid.UUID, orderID, productID string) bool {
	if orderID == "" {
		return false
	}
	id, err := uuid.Parse(orderID)
	if err != nil {
		return false
	}
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil || order.UserID != userID {
		return false
	}
	for _, item := range order.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}
