package services

import (
	"context"
	"fmt"

	"buildmart-storefront/internal/models"
	"buildmart-storefront/internal/repositories"
	"buildmart-storefront/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WishlistView struct {
	Items []models.Product `json:"items"`
	Count int              `json:"count"`
}

type AddToWishlistRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type WishlistService struct {
	stateRepo repositories.StateRepository
	catalog   ProductCatalog
	locks     profileLocks
	logger    *zap.Logger
}

func NewWishlistService(stateRepo repositories.StateRepository, catalog ProductCatalog, logger *zap.Logger) *WishlistService {
	return &WishlistService{
		stateRepo: stateRepo,
		catalog:   catalog,
		logger:    logger,
	}
}

func (s *WishlistService) GetWishlist(ctx context.Context, userID string) (*WishlistView, error) {
	profileID, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(profileID)
	defer unlock()

	w, err := s.load(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return wishlistView(w), nil
}

// AddItem snapshots the product into the wishlist. Adding twice is a no-op.
func (s *WishlistService) AddItem(ctx context.Context, userID, productID string) (*WishlistView, error) {
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, userID, func(w *store.WishlistStore) {
		w.AddItem(*product)
	})
}

func (s *WishlistService) RemoveItem(ctx context.Context, userID, productID string) (*WishlistView, error) {
	return s.update(ctx, userID, func(w *store.WishlistStore) {
		w.RemoveItem(productID)
	})
}

func (s *WishlistService) ClearWishlist(ctx context.Context, userID string) (*WishlistView, error) {
	return s.update(ctx, userID, func(w *store.WishlistStore) {
		w.ClearWishlist()
	})
}

func (s *WishlistService) IsInWishlist(ctx context.Context, userID, productID string) (bool, error) {
	profileID, err := parseUserID(userID)
	if err != nil {
		return false, err
	}

	unlock := s.locks.lock(profileID)
	defer unlock()

	w, err := s.load(ctx, profileID)
	if err != nil {
		return false, err
	}
	return w.IsInWishlist(productID), nil
}

func (s *WishlistService) update(ctx context.Context, userID string, fn func(w *store.WishlistStore)) (*WishlistView, error) {
	profileID, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(profileID)
	defer unlock()

	w, err := s.load(ctx, profileID)
	if err != nil {
		return nil, err
	}

	changed := false
	unsubscribe := w.Subscribe(func([]models.Product) { changed = true })
	fn(w)
	unsubscribe()

	if changed {
		data, err := w.Persist()
		if err != nil {
			return nil, fmt.Errorf("encode wishlist: %w", err)
		}
		if err := s.stateRepo.Save(ctx, profileID, store.WishlistStorageName, data); err != nil {
			return nil, fmt.Errorf("save wishlist: %w", err)
		}
	}
	return wishlistView(w), nil
}

func (s *WishlistService) load(ctx context.Context, profileID uuid.UUID) (*store.WishlistStore, error) {
	data, err := s.stateRepo.Load(ctx, profileID, store.WishlistStorageName)
	if err != nil {
		return nil, fmt.Errorf("load wishlist: %w", err)
	}
	return store.RestoreWishlist(data, s.logger.With(zap.String("profile_id", profileID.String()))), nil
}

func wishlistView(w *store.WishlistStore) *WishlistView {
	return &WishlistView{Items: w.Items(), Count: w.Len()}
}
