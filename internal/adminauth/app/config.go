package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Token secrets. Each purpose gets its own secret so a leak of one never
	// compromises another.
	SessionSecret string // Required: HS256 key for session tokens
	ConfirmSecret string // Required: email confirmation token secret
	ResetSecret   string // Required: password reset token secret
	UnlockSecret  string // Required: account unlock token secret

	DatabaseFile string // Optional: path to SQLite database file (default: ./adminauth.db)

	RedisAddr     string // Optional: Redis address (default: localhost:6379)
	RedisPassword string // Optional: Redis password
	RedisDB       int    // Optional: Redis database number (default: 0)

	SMTPHost     string // Required for delivery: SMTP relay host
	SMTPPort     int    // Optional: SMTP port (default: 465)
	SMTPUsername string // Optional: SMTP username
	SMTPPassword string // Optional: SMTP password
	MailFrom     string // Required for delivery: From address

	BaseURL string // Optional: external base URL used in emailed links (default: http://localhost:8080)

	GeoURL          string // Optional: geolocation endpoint for the fingerprint collector
	BoardSerialPath string // Optional: override for the motherboard serial sysfs path

	// Bootstrap admin, applied only on an empty database.
	BootstrapName              string
	BootstrapEmail             string
	BootstrapPassword          string
	BootstrapSecondaryPassword string
	BootstrapTwoFactor         bool

	RateLimitThreshold int           // Optional: attempts per window (default: 5)
	RateLimitWindow    time.Duration // Optional: fixed window length (default: 5m)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
	CacheSweepInterval  time.Duration // Redis no-TTL sweep interval (default: 1h)
	FilingsInterval     time.Duration // Filings refresh interval (default: 24h)
}

func LoadConfig() Config {
	return Config{
		SessionSecret: os.Getenv("AUTH_SESSION_SECRET"),
		ConfirmSecret: os.Getenv("AUTH_CONFIRM_SECRET"),
		ResetSecret:   os.Getenv("AUTH_RESET_SECRET"),
		UnlockSecret:  os.Getenv("AUTH_UNLOCK_SECRET"),

		DatabaseFile: getEnvOrDefault("AUTH_DATABASE_FILE", "adminauth.db"),

		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("REDIS_DB", 0),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 465),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     os.Getenv("MAIL_FROM"),

		BaseURL: getEnvOrDefault("AUTH_BASE_URL", "http://localhost:8080"),

		GeoURL:          os.Getenv("AUTH_GEO_URL"),
		BoardSerialPath: os.Getenv("AUTH_BOARD_SERIAL_PATH"),

		BootstrapName:              os.Getenv("BOOTSTRAP_ADMIN_NAME"),
		BootstrapEmail:             os.Getenv("BOOTSTRAP_ADMIN_EMAIL"),
		BootstrapPassword:          os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
		BootstrapSecondaryPassword: os.Getenv("BOOTSTRAP_ADMIN_SECONDARY_PASSWORD"),
		BootstrapTwoFactor:         getEnvOrDefault("BOOTSTRAP_ADMIN_2FA", "true") == "true",

		RateLimitThreshold: getEnvIntOrDefault("AUTH_RATE_LIMIT_THRESHOLD", 5),
		RateLimitWindow:    getEnvDurationOrDefault("AUTH_RATE_LIMIT_WINDOW", 5*time.Minute),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		CacheSweepInterval:  getEnvDurationOrDefault("CACHE_SWEEP_INTERVAL", 1*time.Hour),
		FilingsInterval:     getEnvDurationOrDefault("FILINGS_REFRESH_INTERVAL", 24*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
