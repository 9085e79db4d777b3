package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("invalid token type: expected refresh token")
)

type JWTManager struct {
	secretKey         string
	accessExpiryHours int
	refreshExpiryDays int
}

type Claims struct {
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	UserType  string    `json:"user_type"`
	Email     string    `json:"email"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Identity is the subject a token is issued for.
type Identity struct {
	UserID   string
	Role     string
	UserType string
	Email    string
}

func NewJWTManager(secretKey string, accessExpiryHours, refreshExpiryDays int) *JWTManager {
	return &JWTManager{
		secretKey:         secretKey,
		accessExpiryHours: accessExpiryHours,
		refreshExpiryDays: refreshExpiryDays,
	}
}

// RefreshTTL is how long a refresh token stays valid.
func (j *JWTManager) RefreshTTL() time.Duration {
	return time.Hour * 24 * time.Duration(j.refreshExpiryDays)
}

func (j *JWTManager) generateToken(id Identity, tokenType TokenType) (string, error) {
	now := time.Now()
	var expiryTime time.Time
	if tokenType == AccessToken {
		expiryTime = now.Add(time.Hour * time.Duration(j.accessExpiryHours))
	} else {
		expiryTime = now.Add(j.RefreshTTL())
	}

	claims := &Claims{
		UserID:    id.UserID,
		Role:      id.Role,
		UserType:  id.UserType,
		Email:     id.Email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			ExpiresAt: jwt.NewNumericDate(expiryTime),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

func (j *JWTManager) GenerateTokenPair(id Identity) (*TokenPair, error) {
	accessToken, err := j.generateToken(id, AccessToken)
	if err != nil {
		return nil, err
	}

	refreshToken, err := j.generateToken(id, RefreshToken)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(j.secretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// RefreshAccessToken validates a refresh token and issues a new access token
// for the same identity.
func (j *JWTManager) RefreshAccessToken(refreshTokenString string) (string, *Claims, error) {
	claims, err := j.ValidateToken(refreshTokenString)
	if err != nil {
		return "", nil, err
	}

	if claims.TokenType != RefreshToken {
		return "", nil, ErrWrongTokenType
	}

	token, err := j.generateToken(Identity{
		UserID:   claims.UserID,
		Role:     claims.Role,
		UserType: claims.UserType,
		Email:    claims.Email,
	}, AccessToken)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}
