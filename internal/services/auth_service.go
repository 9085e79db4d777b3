package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"buildmart-storefront/internal/models"
	"buildmart-storefront/internal/repositories"
	"buildmart-storefront/pkg/auth"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo   repositories.UserRepository
	jwtManager *auth.JWTManager
	cache      Cache
	logger     *zap.Logger
}

func NewAuthService(userRepo repositories.UserRepository, jwtManager *auth.JWTManager, cache Cache, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		cache:      cache,
		logger:     logger,
	}
}

// Refresh token storage methods
func refreshTokenKey(userID string) string {
	return fmt.Sprintf("refresh_token:%s", userID)
}

func (s *AuthService) storeRefreshToken(ctx context.Context, userID, refreshToken string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Set(ctx, refreshTokenKey(userID), refreshToken, s.jwtManager.RefreshTTL())
}

// refreshTokenKnown reports whether token is the one last issued to the
// user. Without a cache every validly signed refresh token is accepted.
func (s *AuthService) refreshTokenKnown(ctx context.Context, userID, token string) bool {
	if s.cache == nil {
		return true
	}
	var stored string
	if err := s.cache.Get(ctx, refreshTokenKey(userID), &stored); err != nil {
		return false
	}
	return stored == token
}

type RegisterRequest struct {
	Email        string               `json:"email" binding:"required,email"`
	Password     string               `json:"password" binding:"required,min=6"`
	Name         string               `json:"name" binding:"required"`
	Phone        string               `json:"phone"`
	UserType     string               `json:"userType" binding:"omitempty,oneof=individual business"`
	BusinessInfo *models.BusinessInfo `json:"businessInfo"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type AuthResponse struct {
	User         models.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	_, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("look up email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	userType := req.UserType
	if userType == "" {
		userType = "individual"
	}
	role := "user"
	var business *models.BusinessInfo
	if userType == "business" {
		role = "business"
		if req.BusinessInfo != nil {
			info := *req.BusinessInfo
			info.Status = "pending"
			business = &info
		}
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         req.Name,
		Phone:        req.Phone,
		PasswordHash: string(hashedPassword),
		Role:         role,
		UserType:     userType,
		BusinessInfo: business,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()), zap.String("user_type", userType))
	return s.issue(ctx, user)
}

// Login answers unknown emails and wrong passwords with the same error.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("look up email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(ctx, user)
}

// RefreshAccessToken validates refresh token and generates new access token
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	accessToken, claims, err := s.jwtManager.RefreshAccessToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if !s.refreshTokenKnown(ctx, claims.UserID, refreshToken) {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.GetProfile(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	return &AuthResponse{
		User:         *user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	uid, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, uid)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// UpdateProfile changes name and phone; empty fields are left alone.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		user.Phone = phone
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// Logout invalidates the refresh token
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, refreshTokenKey(userID))
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*AuthResponse, error) {
	tokenPair, err := s.jwtManager.GenerateTokenPair(auth.Identity{
		UserID:   user.ID.String(),
		Role:     user.Role,
		UserType: user.UserType,
		Email:    user.Email,
	})
	if err != nil {
		return nil, err
	}

	if err := s.storeRefreshToken(ctx, user.ID.String(), tokenPair.RefreshToken); err != nil {
		s.logger.Warn("Failed to store refresh token", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	return &AuthResponse{
		User:         *user,
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
	}, nil
}
