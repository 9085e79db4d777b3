package services

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidUserID       = errors.New("invalid user ID")
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("user with this email already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

	ErrProductNotFound     = errors.New("product not found")
	ErrProductUnavailable  = errors.New("product is not on sale")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrOrderNotFound       = errors.New("order not found")
	ErrAddressNotFound     = errors.New("address not found")
	ErrAddressRequired     = errors.New("shipping address is required")
	ErrInquiryNotFound     = errors.New("inquiry not found")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrInvalidID           = errors.New("invalid ID")
)

// Cache is the slice of pkg/cache.RedisCache the services use.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

// EventPublisher is implemented by pkg/messaging.KafkaProducer.
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Page is a paginated list in the API envelope shape.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

func newPage[T any](items []T, total int64, page, pageSize int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}
}

// normalizePage clamps page to ≥1 and pageSize to [1, 100], using def when
// pageSize is unset.
func normalizePage(page, pageSize, def int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = def
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

// maxOffset bounds repository offsets; no listing holds that many rows.
const maxOffset = math.MaxInt32

// pageOffset is (page-1)*pageSize, clamped to maxOffset without overflowing.
func pageOffset(page, pageSize int) int {
	if page <= 1 || pageSize <= 0 {
		return 0
	}
	if page-1 > maxOffset/pageSize {
		return maxOffset
	}
	return (page - 1) * pageSize
}

func parseUserID(userID string) (uuid.UUID, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, ErrInvalidUserID
	}
	return id, nil
}

const lockStripes = 64

// profileLocks serialises cart and wishlist mutations per profile. A fixed
// set of stripes keeps memory bounded; unrelated profiles may share one.
type profileLocks struct {
	stripes [lockStripes]sync.Mutex
}

func (l *profileLocks) lock(profileID uuid.UUID) func() {
	h := fnv.New32a()
	h.Write(profileID[:])
	m := &l.stripes[h.Sum32()%lockStripes]
	m.Lock()
	return m.Unlock
}
