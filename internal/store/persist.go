package store

import (
	"encoding/json"

	"buildmart-storefront/internal/models"

	"go.uber.org/zap"
)

type cartRecord struct {
	Items []CartLine `json:"items"`
}

type wishlistRecord struct {
	Items []models.Product `json:"items"`
}

// Persist encodes the cart as {"items":[{productId,product,quantity,price}]}.
func (c *CartStore) Persist() ([]byte, error) {
	items := c.items
	if items == nil {
		items = []CartLine{}
	}
	return json.Marshal(cartRecord{Items: items})
}

// RestoreCart rebuilds a cart from a persisted record. Empty or corrupt data
// yields an empty cart; corruption is logged, never returned. Lines with a
// quantity below 1 are dropped and repeated product ids are merged.
func RestoreCart(data []byte, logger *zap.Logger) *CartStore {
	c := NewCartStore()
	if len(data) == 0 {
		return c
	}

	var rec cartRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		loggerOrNop(logger).Warn("Discarding corrupt cart record",
			zap.String("storage", CartStorageName), zap.Error(err))
		return c
	}

	for _, line := range rec.Items {
		if line.Quantity < 1 {
			continue
		}
		if line.ProductID == "" {
			line.ProductID = line.Product.ID
		}
		if i := c.indexOf(line.ProductID); i >= 0 {
			c.items[i].Quantity += line.Quantity
			continue
		}
		c.items = append(c.items, line)
	}
	c.recalculate()
	return c
}

// Persist encodes the wishlist as {"items":[<product>...]}.
func (w *WishlistStore) Persist() ([]byte, error) {
	items := w.items
	if items == nil {
		items = []models.Product{}
	}
	return json.Marshal(wishlistRecord{Items: items})
}

// RestoreWishlist is the wishlist counterpart of RestoreCart.
func RestoreWishlist(data []byte, logger *zap.Logger) *WishlistStore {
	w := NewWishlistStore()
	if len(data) == 0 {
		return w
	}

	var rec wishlistRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		loggerOrNop(logger).Warn("Discarding corrupt wishlist record",
			zap.String("storage", WishlistStorageName), zap.Error(err))
		return w
	}

	for _, p := range rec.Items {
		if p.ID == "" || w.IsInWishlist(p.ID) {
			continue
		}
		w.items = append(w.items, p)
	}
	return w
}

func loggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

type listener[T any] struct {
	id int
	fn func(T)
}

// listeners is the subscriber list shared by both stores.
type listeners[T any] struct {
	next int
	list []listener[T]
}

func (l *listeners[T]) add(fn func(T)) func() {
	l.next++
	id := l.next
	l.list = append(l.list, listener[T]{id: id, fn: fn})
	return func() {
		for i := range l.list {
			if l.list[i].id == id {
				l.list = append(l.list[:i:i], l.list[i+1:]...)
				return
			}
		}
	}
}

func (l *listeners[T]) empty() bool { return len(l.list) == 0 }

func (l *listeners[T]) notify(v T) {
	for _, s := range append([]listener[T](nil), l.list...) {
		s.fn(v)
	}
}
