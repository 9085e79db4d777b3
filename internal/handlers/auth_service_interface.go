package handlers

import (
	"context"

	"buildmart-storefront/internal/models"
	"buildmart-storefront/internal/services"
)

// AuthServiceInterface defines the interface for auth service operations
type AuthServiceInterface interface {
	Register(ctx context.Context, req *services.RegisterRequest) (*services.AuthResponse, error)
	Login(ctx context.Context, req *services.LoginRequest) (*services.AuthResponse, error)
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req *services.UpdateProfileRequest) (*models.User, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (*services.AuthResponse, error)
	Logout(ctx context.Context, userID string) error
}

// AddressServiceInterface defines the contract for the address book
type AddressServiceInterface interface {
	CreateAddress(ctx context.Context, userID string, req *services.CreateAddressRequest) (*models.Address, error)
	GetAddresses(ctx context.Context, userID string, page, pageSize int) (*services.Page[models.Address], error)
	GetAddressByID(ctx context.Context, userID, addressID string) (*models.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID string, req *services.UpdateAddressRequest) (*models.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID string) error
	SetDefaultAddress(ctx context.Context, userID, addressID string) (*models.Address, error)
}

// InquiryServiceInterface defines the contract for customer inquiries
type InquiryServiceInterface interface {
	CreateInquiry(ctx context.Context, userID string, req *services.CreateInquiryRequest) (*models.Inquiry, error)
	ListInquiries(ctx context.Context, userID string, page, pageSize int) (*services.Page[models.Inquiry], error)
	GetInquiry(ctx context.Context, userID, inquiryID string) (*models.Inquiry, error)
}
