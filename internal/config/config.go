package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds every environment-driven setting the service needs. Values
// are read once at startup. Load fills in the defaults below and does not
// check that required values are set; of the components, only the
// ad-catalog client rejects an empty catalog id or token, on every call.
type Config struct {
	// Source store (component A)
	SourceBaseURL        string
	SourceConsumerKey    string
	SourceConsumerSecret string
	SourceHostname       string

	// Ad catalog (component B)
	AdCatalogBaseURL string
	AdCatalogID      string
	AdCatalogToken   string

	// Event processor (component G)
	WebhookSecret string
	KafkaBrokers  string

	// Mapper (component E)
	Brand           string
	CurrencySuffix  string
	ImageServiceURL string

	// Cache store (component C)
	CachePath string

	// Feed generator (component H)
	PublicDir string

	// Operator API / session glue
	AdminUser     string
	AdminPassword string
	Port          string

	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	godotenv.Load()

	return &Config{
		SourceBaseURL:        getEnv("SOURCE_BASE_URL", ""),
		SourceConsumerKey:    getEnv("SOURCE_CONSUMER_KEY", ""),
		SourceConsumerSecret: getEnv("SOURCE_CONSUMER_SECRET", ""),
		SourceHostname:       getEnv("SOURCE_HOSTNAME", ""),

		AdCatalogBaseURL: getEnv("AD_CATALOG_BASE_URL", "https://graph.facebook.com/v19.0"),
		AdCatalogID:      getEnv("AD_CATALOG_ID", ""),
		AdCatalogToken:   getEnv("AD_CATALOG_TOKEN", ""),

		WebhookSecret: getEnv("WEBHOOK_SECRET", ""),
		KafkaBrokers:  getEnv("KAFKA_BROKERS", "localhost:9092"),

		Brand:           getEnv("BRAND", "Store"),
		CurrencySuffix:  getEnv("CURRENCY_SUFFIX", "BAM"),
		ImageServiceURL: getEnv("IMAGE_SERVICE_URL", "https://images.example.com/render"),

		CachePath: getEnv("CACHE_PATH", "./data/cache.db"),
		PublicDir: getEnv("PUBLIC_DIR", "./public"),

		AdminUser:     getEnv("ADMIN_USER", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		Port:          getEnv("PORT", "8080"),

		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Require returns an error naming the missing variable if value is empty.
// No package in this module calls it; the source client and the webhook
// handler accept empty credentials.
func Require(name, value string) error {
	if value == "" {
		return fmt.Errorf("configuration error: %s is required but not set", name)
	}
	return nil
}
