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

type Config struct {
	Port          string
	RedisURL      string
	RedisPassword string
	JWTSecret     string
	GeminiAPIKey  string
	AdminEmail    string
	LoginDelay    time.Duration
	AppEnv        string
}

// DefaultAdminEmail is the administrator identity used when ADMIN_EMAIL is
// not configured. Login always forces the admin flag for this address.
const DefaultAdminEmail = "ailton21santos07@gmail.com"

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	jwtSecret, exists := os.LookupEnv("JWT_SECRET")
	if !exists || jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		JWTSecret:     jwtSecret,
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		AdminEmail:    strings.ToLower(getEnv("ADMIN_EMAIL", DefaultAdminEmail)),
		LoginDelay:    time.Duration(getEnvInt("LOGIN_DELAY_MS", 800)) * time.Millisecond,
		AppEnv:        normalizeEnv(getEnv("APP_ENV", "production")),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}
