package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort        string
	MongoURI        string
	MongoDBName     string
	RedisAddr       string
	RedisPassword   string
	KafkaBrokers    []string
	CatalogDBPath   string
	MigrationsPath  string
	RecommenderURL  string
	DiscountCode    string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	MaxUploadSize   int64
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPPort:        getenv("HTTP_PORT", "8080"),
		MongoURI:        getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getenv("MONGO_DB_NAME", "storefrontdb"),
		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getenv("REDIS_PASSWORD", ""),
		KafkaBrokers:    splitCSV(getenv("KAFKA_BROKERS", "localhost:9092")),
		CatalogDBPath:   getenv("CATALOG_DB_PATH", "catalog.db"),
		MigrationsPath:  getenv("MIGRATIONS_PATH", "internal/catalog/migrations"),
		RecommenderURL:  getenv("RECOMMENDER_URL", "http://localhost:5001"),
		DiscountCode:    getenv("DISCOUNT_CODE", ""),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		MaxUploadSize:   5 << 20, // 5MB
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
