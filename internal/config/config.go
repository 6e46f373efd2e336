package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Identity Provider
	IdentityAPIURL  string
	IdentityAPIKey  string
	IdentityTimeout time.Duration

	// Provisioning
	EmailDomain string

	// Rate Limit
	RateLimitGeneral   int
	RateLimitProvision int

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.IdentityAPIURL = os.Getenv("IDENTITY_API_URL")
	if cfg.IdentityAPIURL == "" {
		missing = append(missing, "IDENTITY_API_URL")
	}

	cfg.IdentityAPIKey = os.Getenv("IDENTITY_API_KEY")
	if cfg.IdentityAPIKey == "" {
		missing = append(missing, "IDENTITY_API_KEY")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.IdentityTimeout = getEnvDuration("IDENTITY_TIMEOUT", 10*time.Second)
	cfg.EmailDomain = getEnvString("EMAIL_DOMAIN", "arcade.dev")
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitProvision = getEnvInt("RATE_LIMIT_PROVISION", 30)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "*")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
