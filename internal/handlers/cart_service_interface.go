package handlers

import (
	"context"

	"buildmart-storefront/internal/models"
	"buildmart-storefront/internal/services"
)

// CartServiceInterface defines the contract for cart service
type CartServiceInterface interface {
	GetCart(ctx context.Context, userID string) (*services.CartView, error)
	AddItem(ctx context.Context, userID string, req *services.AddToCartRequest) (*services.CartView, error)
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*services.CartView, error)
	RemoveItem(ctx context.Context, userID, productID string) (*services.CartView, error)
	ClearCart(ctx context.Context, userID string) (*services.CartView, error)
}

// WishlistServiceInterface defines the contract for wishlist service
type WishlistServiceInterface interface {
	GetWishlist(ctx context.Context, userID string) (*services.WishlistView, error)
	AddItem(ctx context.Context, userID, productID string) (*services.WishlistView, error)
	RemoveItem(ctx context.Context, userID, productID string) (*services.WishlistView, error)
	ClearWishlist(ctx context.Context, userID string) (*services.WishlistView, error)
	IsInWishlist(ctx context.Context, userID, productID string) (bool, error)
}

// OrderServiceInterface defines the contract for checkout and order history
type OrderServiceInterface interface {
	Checkout(ctx context.Context, userID string, req *services.CheckoutRequest) (*models.Order, error)
	ListOrders(ctx context.Context, userID string, page, pageSize int) (*services.Page[models.Order], error)
	GetOrder(ctx context.Context, userID, orderID string) (*models.Order, error)
}
