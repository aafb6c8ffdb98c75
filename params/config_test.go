package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8080", cfg.API.Addr)
	assert.False(t, cfg.Feed.Enabled)
	assert.Equal(t, "matchbook.events", cfg.Feed.Topic)
	assert.Equal(t, []string{"BTC/USD", "ETH/USD"}, cfg.Markets)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("API_ADDR", ":9090")
	t.Setenv("API_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("FEED_ENABLED", "true")
	t.Setenv("FEED_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("FEED_TOPIC", "orders")
	t.Setenv("LOG_FILE", "/var/log/matchbook.log")
	t.Setenv("MARKETS", "SOL/USD")

	cfg := LoadFromEnv("")

	assert.Equal(t, ":9090", cfg.API.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.API.AllowedOrigins)
	assert.True(t, cfg.Feed.Enabled)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Feed.Brokers)
	assert.Equal(t, "orders", cfg.Feed.Topic)
	assert.Equal(t, "/var/log/matchbook.log", cfg.Log.File)
	assert.Equal(t, []string{"SOL/USD"}, cfg.Markets)
}

func TestSplitListTrimsAndDropsEmpty(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a , b ,, "))
}
