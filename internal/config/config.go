package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	CatalogSourceMemory   = "memory"
	CatalogSourcePostgres = "postgres"
)

type Config struct {
	AppPort string
	AppEnv  string

	SessionSecret string
	SessionTTL    time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CatalogSource string
	DBHost        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBPort        string

	CORSOrigin string
	OTELTraces string
}

const devSessionSecret = "bumpbox-dev-secret"

var (
	ErrMissingDBConfig      = errors.New("CATALOG_SOURCE=postgres requires DB_HOST")
	ErrMissingSessionSecret = errors.New("APP_ENV=production requires SESSION_SECRET")
)

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:       getEnv("APP_PORT", "8080"),
		AppEnv:        getEnv("APP_ENV", "development"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionTTL:    getDuration("SESSION_TTL", 24*time.Hour),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),
		CatalogSource: getEnv("CATALOG_SOURCE", CatalogSourceMemory),
		DBHost:        os.Getenv("DB_HOST"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),
		DBPort:        getEnv("DB_PORT", "5432"),
		CORSOrigin:    getEnv("CORS_ORIGIN", "http://localhost:5173"),
		OTELTraces:    os.Getenv("OTEL_TRACES"),
	}

	if cfg.SessionSecret == "" {
		if cfg.AppEnv == "production" {
			return nil, ErrMissingSessionSecret
		}
		cfg.SessionSecret = devSessionSecret
	}

	if cfg.CatalogSource == CatalogSourcePostgres && cfg.DBHost == "" {
		return nil, ErrMissingDBConfig
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// getDuration accepts Go duration strings ("30m", "24h").
func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
