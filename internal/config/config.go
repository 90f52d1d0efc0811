package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	Environment string
	Port        string
	LogLevel    string

	MongoURI string
	DBName   string

	JWTSecret      string
	AccessTokenTTL time.Duration

	DefaultTenantSlug string
	AdminEmail        string
	AdminPassword     string

	SpacesRegion   string
	SpacesEndpoint string
	SpacesKey      string
	SpacesSecret   string
	SpacesBucket   string
	SpacesCDNURL   string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}

	region := getEnvOrDefault("SPACES_REGION", "sgp1")
	bucket := getEnvOrDefault("SPACES_BUCKET", "storefront")

	AppEnv = Config{
		Environment: getEnvOrDefault("APP_ENV", "development"),
		Port:        getEnvOrDefault("PORT", "8080"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),

		MongoURI: getEnvOrDefault("MONGO_URI", ""),
		DBName:   getEnvOrDefault("DB_NAME", "storefront"),

		JWTSecret:      getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL: getDurationEnv("ACCESS_TOKEN_TTL", 7, 24*time.Hour),

		DefaultTenantSlug: getEnvOrDefault("DEFAULT_TENANT_SLUG", "default"),
		AdminEmail:        getEnvOrDefault("ADMIN_EMAIL", ""),
		AdminPassword:     getEnvOrDefault("ADMIN_PASSWORD", ""),

		SpacesRegion:   region,
		SpacesEndpoint: getEnvOrDefault("SPACES_ENDPOINT", fmt.Sprintf("%s.digitaloceanspaces.com", region)),
		SpacesKey:      getEnvOrDefault("SPACES_KEY", ""),
		SpacesSecret:   getEnvOrDefault("SPACES_SECRET", ""),
		SpacesBucket:   bucket,
		SpacesCDNURL:   getEnvOrDefault("SPACES_CDN_URL", fmt.Sprintf("https://%s.%s.digitaloceanspaces.com", bucket, region)),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}
