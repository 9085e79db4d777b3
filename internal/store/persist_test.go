package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestCartPersistRoundTrip(t *testing.T) {
	cart := NewCartStore()
	rating := 4.5
	p := testProduct("cement", 8500)
	p.AverageRating = &rating
	cart.AddItem(p, 3)
	cart.AddItem(testProduct("sand", 1200), 1)

	data, err := cart.Persist()
	require.NoError(t, err)

	var raw map[string][]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw["items"], 2)
	for _, key := range []string{"productId", "product", "quantity", "price"} {
		assert.Contains(t, raw["items"][0], key)
	}

	restored := RestoreCart(data, zap.NewNop())
	assert.Equal(t, cart.Items(), restored.Items())
	assert.Equal(t, int64(26700), restored.TotalAmount())
	assert.Equal(t, 4, restored.ItemCount())
}

func TestEmptyCartPersistsEmptyList(t *testing.T) {
	data, err := NewCartStore().Persist()
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(data))
}

func TestRestoreCartCorruptData(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	cart := RestoreCart([]byte(`{"items":[{"productId":`), zap.New(core))

	assert.True(t, cart.IsEmpty())
	assert.Zero(t, cart.TotalAmount())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, CartStorageName, logs.All()[0].ContextMap()["storage"])
}

func TestRestoreCartRepairsTotals(t *testing.T) {
	data := []byte(`{"items":[
		{"productId":"a","product":{"id":"a"},"quantity":2,"price":100},
		{"productId":"b","product":{"id":"b"},"quantity":0,"price":999},
		{"productId":"a","product":{"id":"a"},"quantity":3,"price":100},
		{"product":{"id":"c"},"quantity":1,"price":50}
	]}`)

	cart := RestoreCart(data, nil)

	require.Len(t, cart.Items(), 2)
	assert.Equal(t, 5, cart.QuantityOf("a"))
	assert.Equal(t, 1, cart.QuantityOf("c"))
	assert.Equal(t, int64(550), cart.TotalAmount())
	assert.Equal(t, 6, cart.ItemCount())
}

func TestWishlistPersistRoundTrip(t *testing.T) {
	w := NewWishlistStore()
	w.AddItem(testProduct("a", 1))
	w.AddItem(testProduct("b", 2))

	data, err := w.Persist()
	require.NoError(t, err)

	restored := RestoreWishlist(data, nil)
	assert.Equal(t, w.Items(), restored.Items())
}

func TestRestoreWishlist(t *testing.T) {
	t.Run("CorruptData", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		w := RestoreWishlist([]byte("not json"), zap.New(core))
		assert.Zero(t, w.Len())
		assert.Equal(t, 1, logs.Len())
	})

	t.Run("DropsDuplicates", func(t *testing.T) {
		w := RestoreWishlist([]byte(`{"items":[{"id":"a"},{"id":"a"},{"id":""},{"id":"b"}]}`), nil)
		assert.Equal(t, 2, w.Len())
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Zero(t, RestoreWishlist(nil, nil).Len())
	})
}
