package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Env              string
	MongoURI         string
	MongoDB          string
	ServerAddr       string
	JWTSecret        string
	AccessTTLMinutes int
	EncryptionKey    string
	SMTPHost         string
	SMTPPort         int
	SMTPUser         string
	SMTPPass         string
	SMTPFrom         string
	CORSOrigins      []string
	RedisURL         string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	CacheTTLSeconds  int
	RateLimitAuth    int
	RateLimitWindow  int
	MailQueueSize    int
	AdminEmail       string
	AdminPassword    string
	AdminName        string
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		MongoURI:         getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:          getEnv("DB_NAME", "homebound"),
		ServerAddr:       getEnv("SERVER_ADDR", ":8080"),
		JWTSecret:        getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		AccessTTLMinutes: getEnvInt("ACCESS_TTL_MINUTES", 1440),
		EncryptionKey:    getEnv("ENCRYPTION_KEY", ""),
		SMTPHost:         getEnv("SMTP_HOST", "smtp.ethereal.email"),
		SMTPPort:         getEnvInt("SMTP_PORT", 587),
		SMTPUser:         getEnv("SMTP_USER", ""),
		SMTPPass:         getEnv("SMTP_PASS", ""),
		SMTPFrom:         getEnv("SMTP_FROM_EMAIL", "noreply@homeservices.com"),
		CORSOrigins:      splitOrigins(getEnv("CORS_ORIGINS", "*")),
		RedisURL:         getEnv("REDIS_URL", ""),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		CacheTTLSeconds:  getEnvInt("CACHE_TTL_SECONDS", 60),
		RateLimitAuth:    getEnvInt("RATE_LIMIT_AUTH", 10),
		RateLimitWindow:  getEnvInt("RATE_LIMIT_WINDOW_SEC", 60),
		MailQueueSize:    getEnvInt("MAIL_QUEUE_SIZE", 100),
		AdminEmail:       getEnv("ADMIN_EMAIL", "admin@homeservices.com"),
		AdminPassword:    getEnv("ADMIN_PASSWORD", ""),
		AdminName:        getEnv("ADMIN_NAME", "Admin"),
	}

	return cfg, nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
