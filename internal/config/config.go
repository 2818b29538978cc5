package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// MongoDB
	MongoURI    string
	MongoDbName string

	// Redis
	RedisURL      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Sessions
	SessionSecret     string
	SessionTTL        time.Duration
	SessionCookieName string
	SecureCookies     bool

	// Server
	ApiPort string

	// AWS S3
	AwsAccessKeyID     string
	AwsSecretAccessKey string
	AwsRegion          string
	AwsS3Bucket        string
	ImageBaseS3URL     string
	ImageMaxDimension  int
	ImageMaxSizeMB     int

	// Geocoding
	GeocoderAPIKey  string
	GeocoderRegion  string
	GeocodeCacheTTL time.Duration

	// App Defaults
	AppName             string
	PlaceholderImageURL string
	ThumbnailWidth      int
}

// Load configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file, ignoring errors if it doesn't exist
	godotenv.Load()

	cfg := &Config{}

	var err error

	// Helper function to get env var or default
	getEnv := func(key, defaultValue string) string {
		if value, exists := os.LookupEnv(key); exists {
			return value
		}
		return defaultValue
	}

	// Helper function to get required env var
	getRequiredEnv := func(key string) (string, error) {
		value, exists := os.LookupEnv(key)
		if !exists || value == "" {
			return "", fmt.Errorf("missing required environment variable: %s", key)
		}
		return value, nil
	}

	cfg.MongoURI, err = getRequiredEnv("MONGO_URI")
	if err != nil {
		return nil, err
	}
	cfg.MongoDbName = getEnv("MONGO_DB_NAME", "wanderlust")
	cfg.RedisURL = getEnv("REDIS_URL", "")
	cfg.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.SessionSecret, err = getRequiredEnv("SESSION_SECRET")
	if err != nil {
		return nil, err
	}
	cfg.SessionCookieName = getEnv("SESSION_COOKIE_NAME", "session")
	cfg.ApiPort = getEnv("API_PORT", "8080")
	cfg.AwsAccessKeyID = getEnv("AWS_ACCESS_KEY_ID", "")
	cfg.AwsSecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", "")
	cfg.AwsRegion = getEnv("AWS_REGION", "")
	cfg.AwsS3Bucket = getEnv("AWS_S3_BUCKET", "")
	cfg.ImageBaseS3URL = getEnv("IMAGE_BASE_S3_URL", "")
	cfg.GeocoderAPIKey = getEnv("GEOCODER_API_KEY", "")
	cfg.GeocoderRegion = getEnv("GEOCODER_REGION", "")
	cfg.AppName = getEnv("APP_NAME", "WanderLust")
	cfg.PlaceholderImageURL = getEnv("PLACEHOLDER_IMAGE_URL", "")

	cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	sessionTTLDays, err := strconv.Atoi(getEnv("SESSION_TTL_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL_DAYS: %w", err)
	}
	cfg.SessionTTL = time.Duration(sessionTTLDays) * 24 * time.Hour

	cfg.SecureCookies, err = strconv.ParseBool(getEnv("SECURE_COOKIES", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SECURE_COOKIES: %w", err)
	}

	cfg.ImageMaxDimension, err = strconv.Atoi(getEnv("IMAGE_MAX_DIMENSION", "2048"))
	if err != nil {
		return nil, fmt.Errorf("invalid IMAGE_MAX_DIMENSION: %w", err)
	}

	cfg.ImageMaxSizeMB, err = strconv.Atoi(getEnv("IMAGE_MAX_SIZE_MB", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid IMAGE_MAX_SIZE_MB: %w", err)
	}

	cfg.ThumbnailWidth, err = strconv.Atoi(getEnv("THUMBNAIL_WIDTH", "250"))
	if err != nil {
		return nil, fmt.Errorf("invalid THUMBNAIL_WIDTH: %w", err)
	}

	geocodeCacheTTLSeconds, err := strconv.ParseInt(getEnv("GEOCODE_CACHE_TTL_SECONDS", "86400"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid GEOCODE_CACHE_TTL_SECONDS: %w", err)
	}
	cfg.GeocodeCacheTTL = time.Duration(geocodeCacheTTLSeconds) * time.Second

	return cfg, nil
}
