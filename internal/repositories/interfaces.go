package repositories

import (
	"context"
	"errors"

	"buildmart-storefront/internal/models"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by every repository when no row or document
	// matches.
	ErrNotFound = errors.New("record not found")
	// ErrStockUnavailable is returned when a reservation exceeds remaining stock.
	ErrStockUnavailable = errors.New("insufficient stock")
)

// UserRepository interface for PostgreSQL user operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// AddressRepository interface for PostgreSQL address operations
type AddressRepository interface {
	Create(ctx context.Context, address *models.Address) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Address, int64, error)
	GetDefault(ctx context.Context, userID uuid.UUID) (*models.Address, error)
	Update(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, id uuid.UUID) error
	UnsetDefaultAddresses(ctx context.Context, userID uuid.UUID) error
}

// OrderRepository interface for PostgreSQL order operations
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Order, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// InquiryRepository interface for PostgreSQL inquiry operations
type InquiryRepository interface {
	Create(ctx context.Context, inquiry *models.Inquiry) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Inquiry, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Inquiry, int64, error)
}

// StateRepository persists cart and wishlist records per profile.
type StateRepository interface {
	// Load returns nil data and no error when nothing was saved yet.
	Load(ctx context.Context, profileID uuid.UUID, name string) ([]byte, error)
	Save(ctx context.Context, profileID uuid.UUID, name string, payload []byte) error
}

// ProductRepository interface for MongoDB product operations
type ProductRepository interface {
	Upsert(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	ListAll(ctx context.Context) ([]models.Product, error)
	UpdateRating(ctx context.Context, id string, average float64, count int) error
	ReserveStock(ctx context.Context, id string, quantity int) error
	ReleaseStock(ctx context.Context, id string, quantity int) error
}

// CategoryRepository interface for MongoDB category operations
type CategoryRepository interface {
	Upsert(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	ListAll(ctx context.Context) ([]models.Category, error)
}

// ReviewStats is the aggregate rating of one product.
type ReviewStats struct {
	Average float64 `bson:"average"`
	Count   int     `bson:"count"`
}

// ReviewRepository interface for MongoDB review operations
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByProductID(ctx context.Context, productID string, offset, limit int) ([]models.Review, int64, error)
	Stats(ctx context.Context, productID string) (ReviewStats, error)
}
