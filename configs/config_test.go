package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 12, cfg.Storefront.ProductPageSize)
	assert.Equal(t, "product_filters", cfg.Storefront.FilterCookieName)
	assert.Equal(t, 30, cfg.Storefront.FilterCookieDays)
	assert.Equal(t, int64(15000), cfg.Storefront.ShippingFee)
	assert.Equal(t, int64(50000), cfg.Storefront.FreeShippingThreshold)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("PRODUCT_PAGE_SIZE", "24")
	t.Setenv("SHIPPING_FEE", "not-a-number")

	cfg := LoadConfig()

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 24, cfg.Storefront.ProductPageSize)
	assert.Equal(t, int64(15000), cfg.Storefront.ShippingFee)
}
