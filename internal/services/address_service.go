package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"buildmart-storefront/internal/models"
	"buildmart-storefront/internal/repositories"

	"github.com/google/uuid"
)

type AddressService struct {
	addressRepo repositories.AddressRepository
}

func NewAddressService(addressRepo repositories.AddressRepository) *AddressService {
	return &AddressService{
		addressRepo: addressRepo,
	}
}

// Request and Response types
type CreateAddressRequest struct {
	Name          string `json:"name" binding:"required"`
	Recipient     string `json:"recipient" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	ZipCode       string `json:"zipCode" binding:"required"`
	Address       string `json:"address" binding:"required"`
	DetailAddress string `json:"detailAddress"`
	IsDefault     bool   `json:"isDefault"`
}

type UpdateAddressRequest struct {
	Name          string `json:"name"`
	Recipient     string `json:"recipient"`
	Phone         string `json:"phone"`
	ZipCode       string `json:"zipCode"`
	Address       string `json:"address"`
	DetailAddress string `json:"detailAddress"`
	IsDefault     *bool  `json:"isDefault"`
}

// CreateAddress stores a new address. The first address a user saves becomes
// the default even when not asked for.
func (s *AddressService) CreateAddress(ctx context.Context, userID string, req *CreateAddressRequest) (*models.Address, error) {
	userUUID, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	isDefault := req.IsDefault
	if !isDefault {
		if _, err := s.addressRepo.GetDefault(ctx, userUUID); errors.Is(err, repositories.ErrNotFound) {
			isDefault = true
		}
	}
	if isDefault {
		if err := s.addressRepo.UnsetDefaultAddresses(ctx, userUUID); err != nil {
			return nil, fmt.Errorf("unset default addresses: %w", err)
		}
	}

	now := time.Now()
	address := &models.Address{
		ID:            uuid.New(),
		UserID:        userUUID,
		Name:          req.Name,
		Recipient:     req.Recipient,
		Phone:         req.Phone,
		ZipCode:       req.ZipCode,
		Address:       req.Address,
		DetailAddress: req.DetailAddress,
		IsDefault:     isDefault,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.addressRepo.Create(ctx, address); err != nil {
		return nil, fmt.Errorf("create address: %w", err)
	}
	return address, nil
}

func (s *AddressService) GetAddresses(ctx context.Context, userID string, page, pageSize int) (*Page[models.Address], error) {
	userUUID, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	page, pageSize = normalizePage(page, pageSize, 20)

	addresses, total, err := s.addressRepo.GetByUserID(ctx, userUUID, pageOffset(page, pageSize), pageSize)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return newPage(addresses, total, page, pageSize), nil
}

func (s *AddressService) GetAddressByID(ctx context.Context, userID, addressID string) (*models.Address, error) {
	userUUID, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.owned(ctx, userUUID, addressID)
}

func (s *AddressService) UpdateAddress(ctx context.Context, userID, addressID string, req *UpdateAddressRequest) (*models.Address, error) {
	userUUID, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	address, err := s.owned(ctx, userUUID, addressID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		address.Name = req.Name
	}
	if req.Recipient != "" {
		address.Recipient = req.Recipient
	}
	if req.Phone != "" {
		address.Phone = req.Phone
	}
	if req.ZipCode != "" {
		address.ZipCode = req.ZipCode
	}
	if req.Address != "" {
		address.Address = req.Address
	}
	if req.DetailAddress != "" {
		address.DetailAddress = req.DetailAddress
	}
	if req.IsDefault != nil {
		if *req.IsDefault {
			if err := s.addressRepo.UnsetDefaultAddresses(ctx, userUUID); err != nil {
				return nil, fmt.Errorf("unset default addresses: %w", err)
			}
		}
		address.IsDefault = *req.IsDefault
	}
	address.UpdatedAt = time.Now()

	if err := s.addressRepo.Update(ctx, address); err != nil {
		return nil, fmt.Errorf("update address: %w", err)
	}
	return address, nil
}

func (s *AddressService) DeleteAddress(ctx context.Context, userID, addressID string) error {
	userUUID, err := parseUserID(userID)
	if err != nil {
		return err
	}

	address, err := s.owned(ctx, userUUID, addressID)
	if err != nil {
		return err
	}
	return s.addressRepo.Delete(ctx, address.ID)
}

func (s *AddressService) SetDefaultAddress(ctx context.Context, userID, addressID string) (*models.Address, error) {
	userUUID, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	address, err := s.owned(ctx, userUUID, addressID)
	if err != nil {
		return nil, err
	}

	if err := s.addressRepo.UnsetDefaultAddresses(ctx, userUUID); err != nil {
		return nil, fmt.Errorf("unset default addresses: %w", err)
	}

	address.IsDefault = true
	address.UpdatedAt = time.Now()
	if err := s.addressRepo.Update(ctx, address); err != nil {
		return nil, fmt.Errorf("update address: %w", err)
	}
	return address, nil
}

// owned loads an address and hides addresses of other users behind
// ErrAddressNotFound.
func (s *AddressService) owned(ctx context.Context, userID uuid.UUID, addressID string) (*models.Address, error) {
	id, err := uuid.Parse(addressID)
	if err != nil {
		return nil, ErrAddressNotFound
	}

	address, err := s.addressRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get address: %w", err)
	}
	if address.UserID != userID {
		return nil, ErrAddressNotFound
	}
	return address, nil
}
