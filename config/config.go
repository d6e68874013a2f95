package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries everything the process needs, constructed once in main and
// passed by reference into the components that use it. Nothing reads the
// environment after startup.
type Config struct {
	Port      string
	PublicURL string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ResetTokenTTL   time.Duration

	RedisAddr string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailSender   string

	Storage *StorageConfig
	Google  *GoogleConfig
}

type StorageConfig struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
	Region          string
}

func Load() *Config {
	cfg := &Config{
		Port:      envOr("PORT", "8080"),
		PublicURL: envOr("PUBLIC_URL", "http://localhost:8080"),

		DBHost:     envOr("DB_HOST", "localhost"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     envOr("DB_PORT", "5432"),

		JWTSecret:       os.Getenv("JWT_SECRET"),
		AccessTokenTTL:  durationOr("ACCESS_TOKEN_TTL", 7*24*time.Hour),
		RefreshTokenTTL: durationOr("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		ResetTokenTTL:   durationOr("RESET_TOKEN_TTL", 10*time.Minute),

		RedisAddr: os.Getenv("REDIS_ADDR"),

		SMTPHost:     os.Getenv("MAIL_SERVER"),
		SMTPPort:     intOr("MAIL_PORT", 25),
		SMTPUsername: os.Getenv("MAIL_USERNAME"),
		SMTPPassword: os.Getenv("MAIL_PASSWORD"),
		MailSender:   envOr("MAIL_SENDER", "no-reply@microblog.local"),
	}

	if os.Getenv("STORAGE_ACCESS_KEY_ID") != "" {
		cfg.Storage = &StorageConfig{
			AccountID:       os.Getenv("STORAGE_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("STORAGE_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("STORAGE_SECRET_ACCESS_KEY"),
			BucketName:      os.Getenv("STORAGE_BUCKET_NAME"),
			PublicURL:       os.Getenv("STORAGE_PUBLIC_URL"),
			Region:          envOr("STORAGE_REGION", "auto"),
		}
	}

	if os.Getenv("GOOGLE_CLIENT_ID") != "" {
		cfg.Google = NewGoogleConfig(
			os.Getenv("GOOGLE_CLIENT_ID"),
			os.Getenv("GOOGLE_CLIENT_SECRET"),
			os.Getenv("GOOGLE_REDIRECT_URL"),
		)
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
