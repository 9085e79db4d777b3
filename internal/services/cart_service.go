package services

import (
	"context"
	"fmt"
	"time"

	"buildmart-storefront/internal/models"
	"buildmart-storefront/internal/repositories"
	"buildmart-storefront/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductCatalog looks up live catalog products.
type ProductCatalog interface {
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
}

// ShippingPolicy prices delivery for a cart total.
type ShippingPolicy struct {
	Fee                   int64
	FreeShippingThreshold int64
}

// FeeFor is Fee, or 0 once total reaches the free shipping threshold.
// An empty cart ships nothing and costs nothing.
func (p ShippingPolicy) FeeFor(total int64) int64 {
	if total <= 0 || (p.FreeShippingThreshold > 0 && total >= p.FreeShippingThreshold) {
		return 0
	}
	return p.Fee
}

type CartView struct {
	Items       []store.CartLine `json:"items"`
	TotalAmount int64            `json:"totalAmount"`
	ItemCount   int              `json:"itemCount"`
	ShippingFee int64            `json:"shippingFee"`
	FinalAmount int64            `json:"finalAmount"`
}

type AddToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartService owns one store.CartStore per profile, restored from and saved
// to the state repository around every call.
type CartService struct {
	stateRepo repositories.StateRepository
	catalog   ProductCatalog
	cache     Cache
	shipping  ShippingPolicy
	locks     profileLocks
	logger    *zap.Logger
}

func NewCartService(
	stateRepo repositories.StateRepository,
	catalog ProductCatalog,
	cache Cache,
	shipping ShippingPolicy,
	logger *zap.Logger,
) *CartService {
	return &CartService{
		stateRepo: stateRepo,
		catalog:   catalog,
		cache:     cache,
		shipping:  shipping,
		logger:    logger,
	}
}

func cartCacheKey(profileID uuid.UUID) string {
	return "cart:" + profileID.String()
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*CartView, error) {
	profileID, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		var view CartView
		if err := s.cache.Get(ctx, cartCacheKey(profileID), &view); err == nil {
			return &view, nil
		}
	}

	unlock := s.locks.lock(profileID)
	defer unlock()

	cart, err := s.load(ctx, profileID)
	if err != nil {
		return nil, err
	}
	view := s.view(cart.Snapshot())
	s.cacheView(ctx, profileID, view)
	return view, nil
}

// AddItem checks stock against the quantity already in the cart before
// handing the product to the store. A quantity below 1 adds one.
func (s *CartService) AddItem(ctx context.Context, userID string, req *AddToCartRequest) (*CartView, error) {
	product, err := s.saleableProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	return s.Update(ctx, userID, func(cart *store.CartStore) error {
		if cart.QuantityOf(product.ID)+quantity > product.Stock {
			return fmt.Errorf("%w: %s has %d left", ErrInsufficientStock, product.Name, product.Stock)
		}
		cart.AddItem(*product, quantity)
		return nil
	})
}

// UpdateQuantity sets a line's quantity; zero or less removes it. Unknown
// products are ignored.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*CartView, error) {
	return s.Update(ctx, userID, func(cart *store.CartStore) error {
		if quantity > 0 && cart.QuantityOf(productID) > 0 {
			product, err := s.catalog.GetProduct(ctx, productID)
			if err != nil {
				return err
			}
			if quantity > product.Stock {
				return fmt.Errorf("%w: %s has %d left", ErrInsufficientStock, product.Name, product.Stock)
			}
		}
		cart.UpdateQuantity(productID, quantity)
		return nil
	})
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*CartView, error) {
	return s.Update(ctx, userID, func(cart *store.CartStore) error {
		cart.RemoveItem(productID)
		return nil
	})
}

func (s *CartService) ClearCart(ctx context.Context, userID string) (*CartView, error) {
	return s.Update(ctx, userID, func(cart *store.CartStore) error {
		cart.ClearCart()
		return nil
	})
}

// Update runs fn against the profile's cart while holding the profile lock.
// The cart is saved only when fn succeeds and the store reported a change;
// the cached view is dropped before that save.
func (s *CartService) Update(ctx context.Context, userID string, fn func(cart *store.CartStore) error) (*CartView, error) {
	profileID, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(profileID)
	defer unlock()

	cart, err := s.load(ctx, profileID)
	if err != nil {
		return nil, err
	}

	changed := false
	unsubscribe := cart.Subscribe(func(store.CartSnapshot) { changed = true })
	err = fn(cart)
	unsubscribe()
	if err != nil {
		return nil, err
	}

	if changed {
		s.dropView(ctx, profileID)
		data, err := cart.Persist()
		if err != nil {
			return nil, fmt.Errorf("encode cart: %w", err)
		}
		if err := s.stateRepo.Save(ctx, profileID, store.CartStorageName, data); err != nil {
			return nil, fmt.Errorf("save cart: %w", err)
		}
	}

	view := s.view(cart.Snapshot())
	s.cacheView(ctx, profileID, view)
	return view, nil
}

// ShippingFee prices delivery for a cart total.
func (s *CartService) ShippingFee(total int64) int64 {
	return s.shipping.FeeFor(total)
}

func (s *CartService) load(ctx context.Context, profileID uuid.UUID) (*store.CartStore, error) {
	data, err := s.stateRepo.Load(ctx, profileID, store.CartStorageName)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return store.RestoreCart(data, s.logger.With(zap.String("profile_id", profileID.String()))), nil
}

func (s *CartService) saleableProduct(ctx context.Context, productID string) (*models.Product, error) {
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Status == "inactive" {
		return nil, ErrProductUnavailable
	}
	return product, nil
}

func (s *CartService) view(snap store.CartSnapshot) *CartView {
	fee := s.shipping.FeeFor(snap.TotalAmount)
	return &CartView{
		Items:       snap.Items,
		TotalAmount: snap.TotalAmount,
		ItemCount:   snap.ItemCount,
		ShippingFee: fee,
		FinalAmount: snap.TotalAmount + fee,
	}
}

func (s *CartService) cacheView(ctx context.Context, profileID uuid.UUID, view *CartView) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, cartCacheKey(profileID), view, 10*time.Minute); err != nil {
		s.logger.Debug("Failed to cache cart", zap.Error(err))
		s.dropView(ctx, profileID)
	}
}

// dropView removes the cached cart view so reads go to the saved record.
func (s *CartService) dropView(ctx context.Context, profileID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cartCacheKey(profileID)); err != nil {
		s.logger.Warn("Failed to drop cached cart", zap.String("profile_id", profileID.String()), zap.Error(err))
	}
}
