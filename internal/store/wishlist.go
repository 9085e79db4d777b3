package store

import (
	"buildmart-storefront/internal/models"
)

// WishlistStorageName is the storage key of the persisted wishlist record.
const WishlistStorageName = "wishlist-storage"

// WishlistStore is an insertion-ordered set of product snapshots keyed by id.
type WishlistStore struct {
	items     []models.Product
	listeners listeners[[]models.Product]
}

func NewWishlistStore() *WishlistStore {
	return &WishlistStore{}
}

// AddItem inserts a snapshot of product unless its id is already present.
func (w *WishlistStore) AddItem(product models.Product) {
	if w.IsInWishlist(product.ID) {
		return
	}
	w.items = append(w.items, product.Clone())
	w.changed()
}

func (w *WishlistStore) RemoveItem(productID string) {
	for i := range w.items {
		if w.items[i].ID == productID {
			w.items = append(w.items[:i:i], w.items[i+1:]...)
			w.changed()
			return
		}
	}
}

func (w *WishlistStore) IsInWishlist(productID string) bool {
	for i := range w.items {
		if w.items[i].ID == productID {
			return true
		}
	}
	return false
}

func (w *WishlistStore) ClearWishlist() {
	w.items = nil
	w.changed()
}

func (w *WishlistStore) Items() []models.Product {
	out := make([]models.Product, len(w.items))
	for i := range w.items {
		out[i] = w.items[i].Clone()
	}
	return out
}

func (w *WishlistStore) Len() int { return len(w.items) }

func (w *WishlistStore) Subscribe(fn func([]models.Product)) func() {
	return w.listeners.add(fn)
}

func (w *WishlistStore) changed() {
	if w.listeners.empty() {
		return
	}
	w.listeners.notify(w.Items())
}
