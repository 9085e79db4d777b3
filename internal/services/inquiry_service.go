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
)

type CreateInquiryRequest struct {
	Type      string `json:"type" binding:"required,oneof=general product order payment shipping"`
	ProductID string `json:"productId"`
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content" binding:"required"`
}

type InquiryService struct {
	inquiryRepo repositories.InquiryRepository
}

func NewInquiryService(inquiryRepo repositories.InquiryRepository) *InquiryService {
	return &InquiryService{inquiryRepo: inquiryRepo}
}

func (s *InquiryService) CreateInquiry(ctx context.Context, userID string, req *CreateInquiryRequest) (*models.Inquiry, error) {
	userUUID, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	inquiry := &models.Inquiry{
		ID:        uuid.New(),
		UserID:    userUUID,
		Type:      req.Type,
		Title:     strings.TrimSpace(req.Title),
		Content:   strings.TrimSpace(req.Content),
		Status:    "pending",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.ProductID != "" {
		productID := req.ProductID
		inquiry.ProductID = &productID
	}

	if err := s.inquiryRepo.Create(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("create inquiry: %w", err)
	}
	return inquiry, nil
}

func (s *InquiryService) ListInquiries(ctx context.Context, userID string, page, pageSize int) (*Page[models.Inquiry], error) {
	userUUID, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	page, pageSize = normalizePage(page, pageSize, 10)

	inquiries, total, err := s.inquiryRepo.GetByUserID(ctx, userUUID, pageOffset(page, pageSize), pageSize)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	return newPage(inquiries, total, page, pageSize), nil
}

func (s *InquiryService) GetInquiry(ctx context.Context, userID, inquiryID string) (*models.Inquiry, error) {
	userUUID, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(inquiryID)
	if err != nil {
		return nil, ErrInquiryNotFound
	}

	inquiry, err := s.inquiryRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInquiryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get inquiry: %w", err)
	}
	if inquiry.UserID != userUUID {
		return nil, ErrInquiryNotFound
	}
	return inquiry, nil
}
