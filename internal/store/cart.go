// Package store holds the per-profile cart and wishlist state containers.
//
// The stores are plain values owned by whoever creates them. They are not
// safe for concurrent use; the cart and wishlist services serialise access
// per profile.
package store

import (
	"buildmart-storefront/internal/models"
)

// CartStorageName is the storage key of the persisted cart record.
const CartStorageName = "cart-storage"

// CartLine is one product in the cart. Product and Price are captured when
// the line is created and do not follow later catalog changes.
type CartLine struct {
	ProductID string         `json:"productId"`
	Product   models.Product `json:"product"`
	Quantity  int            `json:"quantity"`
	Price     int64          `json:"price"`
}

// Subtotal is price × quantity for the line.
func (l CartLine) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}

// CartSnapshot is the state handed to subscribers and readers.
type CartSnapshot struct {
	Items       []CartLine `json:"items"`
	TotalAmount int64      `json:"totalAmount"`
	ItemCount   int        `json:"itemCount"`
}

type CartStore struct {
	items       []CartLine
	totalAmount int64
	itemCount   int
	listeners   listeners[CartSnapshot]
}

func NewCartStore() *CartStore {
	return &CartStore{}
}

// AddItem merges quantity into the line for product.ID, or appends a new line
// priced at product.Price. A quantity below 1 counts as 1.
func (c *CartStore) AddItem(product models.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	if i := c.indexOf(product.ID); i >= 0 {
		c.items[i].Quantity += quantity
	} else {
		c.items = append(c.items, CartLine{
			ProductID: product.ID,
			Product:   product.Clone(),
			Quantity:  quantity,
			Price:     product.Price,
		})
	}
	c.changed()
}

// RemoveItem drops the line for productID. Unknown ids are ignored.
func (c *CartStore) RemoveItem(productID string) {
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	c.items = append(c.items[:i:i], c.items[i+1:]...)
	c.changed()
}

// UpdateQuantity sets the line quantity exactly. Zero or less removes the line.
func (c *CartStore) UpdateQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	i := c.indexOf(productID)
	if i < 0 {
		return
	}
	c.items[i].Quantity = quantity
	c.changed()
}

func (c *CartStore) ClearCart() {
	c.items = nil
	c.changed()
}

// Line returns the line for productID, if any.
func (c *CartStore) Line(productID string) (CartLine, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.items[i], true
	}
	return CartLine{}, false
}

// QuantityOf is the current quantity for productID, 0 when absent.
func (c *CartStore) QuantityOf(productID string) int {
	if i := c.indexOf(productID); i >= 0 {
		return c.items[i].Quantity
	}
	return 0
}

func (c *CartStore) Items() []CartLine {
	out := make([]CartLine, len(c.items))
	for i, line := range c.items {
		line.Product = line.Product.Clone()
		out[i] = line
	}
	return out
}

func (c *CartStore) TotalAmount() int64 { return c.totalAmount }

func (c *CartStore) ItemCount() int { return c.itemCount }

func (c *CartStore) IsEmpty() bool { return len(c.items) == 0 }

func (c *CartStore) Snapshot() CartSnapshot {
	return CartSnapshot{
		Items:       c.Items(),
		TotalAmount: c.totalAmount,
		ItemCount:   c.itemCount,
	}
}

// Subscribe registers fn to be called after every mutation. The returned
// func removes the subscription.
func (c *CartStore) Subscribe(fn func(CartSnapshot)) func() {
	return c.listeners.add(fn)
}

func (c *CartStore) indexOf(productID string) int {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// recalculate derives the totals from the full line list.
func (c *CartStore) recalculate() {
	var total int64
	count := 0
	for _, line := range c.items {
		total += line.Subtotal()
		count += line.Quantity
	}
	c.totalAmount = total
	c.itemCount = count
}

func (c *CartStore) changed() {
	c.recalculate()
	if c.listeners.empty() {
		return
	}
	c.listeners.notify(c.Snapshot())
}
