package models

import (
	"time"
)

// Product model - MongoDB (catalog data)
type Product struct {
	ID             string            `bson:"_id" json:"id"`
	Name           string            `bson:"name" json:"name"`
	Description    string            `bson:"description" json:"description"`
	Price          int64             `bson:"price" json:"price"`
	BusinessPrice  *int64            `bson:"business_price,omitempty" json:"businessPrice,omitempty"`
	Images         []string          `bson:"images" json:"images"`
	CategoryID     string            `bson:"category_id" json:"categoryId"`
	Category       *Category         `bson:"-" json:"category,omitempty"`
	Manufacturer   string            `bson:"manufacturer,omitempty" json:"manufacturer,omitempty"`
	Specifications map[string]string `bson:"specifications,omitempty" json:"specifications,omitempty"`
	Weight         *float64          `bson:"weight,omitempty" json:"weight,omitempty"`
	Dimensions     *Dimensions       `bson:"dimensions,omitempty" json:"dimensions,omitempty"`
	Stock          int               `bson:"stock" json:"stock"`
	Status         string            `bson:"status" json:"status"` // active, inactive, out_of_stock
	AverageRating  *float64          `bson:"average_rating,omitempty" json:"averageRating,omitempty"`
	ReviewCount    *int              `bson:"review_count,omitempty" json:"reviewCount,omitempty"`
	CreatedAt      time.Time         `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time         `bson:"updated_at" json:"updatedAt"`
}

type Dimensions struct {
	Width  float64 `bson:"width" json:"width"`
	Height float64 `bson:"height" json:"height"`
	Depth  float64 `bson:"depth" json:"depth"`
}

// Rating returns the average rating, 0 when the product has no reviews yet.
func (p *Product) Rating() float64 {
	if p.AverageRating == nil {
		return 0
	}
	return *p.AverageRating
}

// HasBusinessPrice reports whether a discounted business price is offered.
func (p *Product) HasBusinessPrice() bool {
	return p.BusinessPrice != nil && *p.BusinessPrice > 0
}

// Category model - MongoDB
type Category struct {
	ID          string    `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Slug        string    `bson:"slug" json:"slug"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	ParentID    string    `bson:"parent_id,omitempty" json:"parentId,omitempty"`
	ImageURL    string    `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	Order       int       `bson:"order" json:"order"`
	Level       int       `bson:"level" json:"level"`
	CreatedAt   time.Time `bson:"created_at" json:"-"`
}

// Review model - MongoDB
type Review struct {
	ID           string    `bson:"_id" json:"id"`
	ProductID    string    `bson:"product_id" json:"productId"`
	UserID       string    `bson:"user_id" json:"userId"`
	UserName     string    `bson:"user_name,omitempty" json:"userName,omitempty"`
	OrderID      string    `bson:"order_id,omitempty" json:"orderId,omitempty"`
	Rating       int       `bson:"rating" json:"rating"`
	Title        string    `bson:"title,omitempty" json:"title,omitempty"`
	Content      string    `bson:"content" json:"content"`
	Images       []string  `bson:"images,omitempty" json:"images,omitempty"`
	HelpfulCount int       `bson:"helpful_count" json:"helpfulCount"`
	IsVerified   bool      `bson:"is_verified" json:"isVerified"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

// Clone returns a deep copy so later catalog changes cannot leak into a
// snapshot held by a cart or wishlist.
func (p *Product) Clone() Product {
	c := *p
	if p.BusinessPrice != nil {
		v := *p.BusinessPrice
		c.BusinessPrice = &v
	}
	if p.Weight != nil {
		v := *p.Weight
		c.Weight = &v
	}
	if p.Dimensions != nil {
		v := *p.Dimensions
		c.Dimensions = &v
	}
	if p.AverageRating != nil {
		v := *p.AverageRating
		c.AverageRating = &v
	}
	if p.ReviewCount != nil {
		v := *p.ReviewCount
		c.ReviewCount = &v
	}
	if p.Category != nil {
		v := *p.Category
		c.Category = &v
	}
	if p.Images != nil {
		c.Images = append([]string(nil), p.Images...)
	}
	if p.Specifications != nil {
		c.Specifications = make(map[string]string, len(p.Specifications))
		for k, v := range p.Specifications {
			c.Specifications[k] = v
		}
	}
	return c
}
