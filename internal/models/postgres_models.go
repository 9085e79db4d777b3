package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// scanBytes accepts both []byte and string, pgx hands back either depending
// on the column type.
func scanBytes(value interface{}) []byte {
	switch v := value.(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	}
	return nil
}

var errScanType = errors.New("type assertion to []byte failed")

// User model - PostgreSQL
type User struct {
	ID           uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string        `gorm:"uniqueIndex;not null" json:"email"`
	Name         string        `gorm:"not null" json:"name"`
	Phone        string        `json:"phone,omitempty"`
	PasswordHash string        `gorm:"not null" json:"-"`
	Role         string        `gorm:"default:user" json:"role"`           // user, business, admin
	UserType     string        `gorm:"default:individual" json:"userType"` // individual, business
	BusinessInfo *BusinessInfo `gorm:"type:jsonb" json:"businessInfo,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// BusinessInfo is stored as a jsonb column on users.
type BusinessInfo struct {
	BusinessNumber     string `json:"businessNumber"`
	BusinessName       string `json:"businessName"`
	RepresentativeName string `json:"representativeName"`
	Address            string `json:"address"`
	Status             string `json:"status"` // pending, approved, rejected
}

func (b BusinessInfo) Value() (driver.Value, error) {
	return json.Marshal(b)
}

func (b *BusinessInfo) Scan(value interface{}) error {
	data := scanBytes(value)
	if data == nil {
		return errScanType
	}
	return json.Unmarshal(data, b)
}

// Address model - PostgreSQL (shipping address book)
type Address struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	Name          string    `gorm:"not null" json:"name"` // label, e.g. "현장" or "사무실"
	Recipient     string    `gorm:"not null" json:"recipient"`
	Phone         string    `gorm:"not null" json:"phone"`
	ZipCode       string    `gorm:"not null" json:"zipCode"`
	Address       string    `gorm:"not null" json:"address"`
	DetailAddress string    `json:"detailAddress"`
	IsDefault     bool      `gorm:"default:false" json:"isDefault"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// AddressSnapshot freezes the shipping address on an order.
type AddressSnapshot struct {
	Name          string `json:"name"`
	Recipient     string `json:"recipient"`
	Phone         string `json:"phone"`
	ZipCode       string `json:"zipCode"`
	Address       string `json:"address"`
	DetailAddress string `json:"detailAddress"`
}

func (a AddressSnapshot) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *AddressSnapshot) Scan(value interface{}) error {
	data := scanBytes(value)
	if data == nil {
		return errScanType
	}
	return json.Unmarshal(data, a)
}

// OrderItem is one purchased line. Product holds the catalog snapshot taken
// when the line entered the cart.
type OrderItem struct {
	ID         string  `json:"id"`
	ProductID  string  `json:"productId"`
	Product    Product `json:"product"`
	Quantity   int     `json:"quantity"`
	Price      int64   `json:"price"`
	TotalPrice int64   `json:"totalPrice"`
}

// OrderItemList type for the jsonb items column
type OrderItemList []OrderItem

func (l OrderItemList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]OrderItem{})
	}
	return json.Marshal(l)
}

func (l *OrderItemList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	data := scanBytes(value)
	if data == nil {
		return errScanType
	}
	return json.Unmarshal(data, l)
}

// Order model - PostgreSQL (critical transactional data)
type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderNumber     string          `gorm:"uniqueIndex;not null" json:"orderNumber"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"userId"`
	Items           OrderItemList   `gorm:"type:jsonb" json:"items"`
	TotalAmount     int64           `json:"totalAmount"`
	ShippingFee     int64           `json:"shippingFee"`
	DiscountAmount  int64           `json:"discountAmount"`
	FinalAmount     int64           `json:"finalAmount"`
	ShippingAddress AddressSnapshot `gorm:"type:jsonb" json:"shippingAddress"`
	ShippingMethod  string          `gorm:"not null" json:"shippingMethod"`       // standard, express, site_delivery
	PaymentMethod   string          `gorm:"not null" json:"paymentMethod"`        // card, bank_transfer, virtual_account, credit_purchase
	PaymentStatus   string          `gorm:"default:pending" json:"paymentStatus"` // pending, completed, failed, refunded
	OrderStatus     string          `gorm:"default:pending" json:"orderStatus"`   // pending, confirmed, preparing, shipping, delivered, cancelled
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Inquiry model - PostgreSQL (customer support questions)
type Inquiry struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"`
	ProductID  *string    `json:"productId,omitempty"` // MongoDB reference
	Type       string     `gorm:"not null" json:"type"` // general, product, order, payment, shipping
	Title      string     `gorm:"not null" json:"title"`
	Content    string     `gorm:"not null" json:"content"`
	Status     string     `gorm:"default:pending" json:"status"` // pending, answered, closed
	Answer     *string    `json:"answer,omitempty"`
	AnsweredAt *time.Time `json:"answeredAt,omitempty"`
	AnsweredBy *string    `json:"answeredBy,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// StateRecord holds a persisted cart or wishlist for one profile, keyed by
// storage name.
type StateRecord struct {
	ProfileID uuid.UUID `gorm:"type:uuid;primaryKey" json:"profileId"`
	Name      string    `gorm:"primaryKey" json:"name"`
	Payload   []byte    `gorm:"type:jsonb;not null" json:"-"`
	UpdatedAt time.Time `json:"updatedAt"`
}
