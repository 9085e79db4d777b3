package store

import (
	"testing"

	"buildmart-storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistStore(t *testing.T) {
	t.Run("AddItemIsIdempotent", func(t *testing.T) {
		w := NewWishlistStore()
		p := testProduct("door", 150000)

		w.AddItem(p)
		w.AddItem(p)

		assert.Equal(t, 1, w.Len())
		assert.True(t, w.IsInWishlist("door"))
	})

	t.Run("PreservesInsertionOrder", func(t *testing.T) {
		w := NewWishlistStore()
		w.AddItem(testProduct("c", 1))
		w.AddItem(testProduct("a", 1))
		w.AddItem(testProduct("b", 1))

		var ids []string
		for _, p := range w.Items() {
			ids = append(ids, p.ID)
		}
		assert.Equal(t, []string{"c", "a", "b"}, ids)
	})

	t.Run("RemoveItem", func(t *testing.T) {
		w := NewWishlistStore()
		w.AddItem(testProduct("a", 1))
		w.AddItem(testProduct("b", 1))

		w.RemoveItem("a")
		w.RemoveItem("a")
		w.RemoveItem("missing")

		assert.False(t, w.IsInWishlist("a"))
		assert.True(t, w.IsInWishlist("b"))
		assert.Equal(t, 1, w.Len())
	})

	t.Run("ClearWishlist", func(t *testing.T) {
		w := NewWishlistStore()
		w.AddItem(testProduct("a", 1))
		w.ClearWishlist()
		assert.Zero(t, w.Len())
	})

	t.Run("Subscribe", func(t *testing.T) {
		w := NewWishlistStore()
		var sizes []int
		unsubscribe := w.Subscribe(func(items []models.Product) { sizes = append(sizes, len(items)) })

		w.AddItem(testProduct("a", 1))
		w.AddItem(testProduct("a", 1))
		w.AddItem(testProduct("b", 1))
		w.RemoveItem("a")
		unsubscribe()
		w.ClearWishlist()

		require.Equal(t, []int{1, 2, 1}, sizes)
	})
}
