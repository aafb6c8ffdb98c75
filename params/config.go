package params

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type API struct {
	Addr           string
	AllowedOrigins []string
}

type Feed struct {
	Enabled bool
	Brokers []string
	Topic   string
}

type Log struct {
	// File, when non-empty, tees JSON logs to this path as well as
	// stdout.
	File string
}

type Config struct {
	API API
	Feed Feed
	Log Log

	// Markets registered at startup, as "BASE/QUOTE" strings.
	Markets []string
}

func Default() Config {
	return Config{
		API: API{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Feed: Feed{
			Enabled: false,
			Brokers: []string{"localhost:9092"},
			Topic:   "matchbook.events",
		},
		Markets: []string{"BTC/USD", "ETH/USD"},
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and the
// environment. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	if addr := os.Getenv("API_ADDR"); addr != "" {
		cfg.API.Addr = addr
	}
	if origins := os.Getenv("API_ALLOWED_ORIGINS"); origins != "" {
		cfg.API.AllowedOrigins = splitList(origins)
	}

	if enabled := os.Getenv("FEED_ENABLED"); enabled != "" {
		cfg.Feed.Enabled = enabled == "true"
	}
	if brokers := os.Getenv("FEED_BROKERS"); brokers != "" {
		cfg.Feed.Brokers = splitList(brokers)
	}
	if topic := os.Getenv("FEED_TOPIC"); topic != "" {
		cfg.Feed.Topic = topic
	}

	if file := os.Getenv("LOG_FILE"); file != "" {
		cfg.Log.File = file
	}

	// Example: MARKETS="BTC/USD,ETH/USD,SOL/USD"
	if markets := os.Getenv("MARKETS"); markets != "" {
		cfg.Markets = splitList(markets)
	}

	return cfg
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
