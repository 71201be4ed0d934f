package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// API Configuration
	APIPort        string
	APIHost        string
	APIEnvironment string

	// Database
	MongoURI      string
	MongoDatabase string

	// Redis
	RedisURL string

	// JWT & Security
	JWTSecret          string
	JWTExpirationHours int

	// CORS
	CORSAllowedOrigins []string

	// Rate Limiting
	RateLimitRequestsPerMinute int
	RateLimitBurst             int
	LoginRateLimitPerMinute    int

	// Logging
	LogLevel   string
	LogBackend string

	// Sentry
	SentryDSN         string
	SentryEnvironment string

	// Email
	SendGridAPIKey string
	EmailFrom      string
	EmailFromName  string
	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPassword   string

	// Messaging
	AMQPURL string

	// Dashboard
	DashboardCacheTTLSeconds int
	RecentBookingsLimit      int

	// Leads
	DefaultPhoneRegion string

	// Bootstrap Team Leader
	AdminName     string
	AdminEmail    string
	AdminPassword string

	// Report archive
	ReportArchiveBucket        string
	ReportArchiveRetentionDays int
	AWSRegion                  string
	AWSAccessKeyID             string
	AWSSecretAccessKey         string

	// Jobs
	CronEnabled bool
}

// Load loads configuration from environment variables.
// A .env file in the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		// API
		APIPort:        getEnv("API_PORT", "4000"),
		APIHost:        getEnv("API_HOST", "0.0.0.0"),
		APIEnvironment: getEnv("API_ENVIRONMENT", "development"),

		// Database
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "leadcrm"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		// JWT
		JWTSecret:          getEnv("JWT_SECRET", "change-this-in-production"),
		JWTExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 72),

		// CORS
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		// Rate Limiting
		RateLimitRequestsPerMinute: getEnvAsInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 120),
		RateLimitBurst:             getEnvAsInt("RATE_LIMIT_BURST", 20),
		LoginRateLimitPerMinute:    getEnvAsInt("LOGIN_RATE_LIMIT_PER_MINUTE", 10),

		// Logging
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogBackend: getEnv("LOG_BACKEND", "slog"),

		// Sentry
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", "development"),

		// Email
		SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailFrom:      getEnv("EMAIL_FROM", "noreply@leadcrm.local"),
		EmailFromName:  getEnv("EMAIL_FROM_NAME", "LeadCRM"),
		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:       getEnv("SMTP_USER", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),

		// Messaging
		AMQPURL: getEnv("AMQP_URL", ""),

		// Dashboard
		DashboardCacheTTLSeconds: getEnvAsInt("DASHBOARD_CACHE_TTL_SECONDS", 60),
		RecentBookingsLimit:      getEnvAsInt("RECENT_BOOKINGS_LIMIT", 20),

		// Leads
		DefaultPhoneRegion: getEnv("DEFAULT_PHONE_REGION", "US"),

		// Bootstrap
		AdminName:     getEnv("ADMIN_NAME", "Team Leader"),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		// Report archive
		ReportArchiveBucket:        getEnv("REPORT_ARCHIVE_BUCKET", ""),
		ReportArchiveRetentionDays: getEnvAsInt("REPORT_ARCHIVE_RETENTION_DAYS", 90),
		AWSRegion:                  getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:             getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:         getEnv("AWS_SECRET_ACCESS_KEY", ""),

		// Jobs
		CronEnabled: getEnvAsBool("CRON_ENABLED", true),
	}
}

// IsProduction reports whether the API runs in the production environment
func (c *Config) IsProduction() bool {
	return c.APIEnvironment == "production"
}

// Validate checks settings that must not fall back to development defaults
func (c *Config) Validate() error {
	if c.IsProduction() {
		if c.JWTSecret == "" || c.JWTSecret == "change-this-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters in production")
		}
	}
	if c.JWTExpirationHours <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be positive")
	}
	if c.MongoDatabase == "" {
		return fmt.Errorf("MONGO_DATABASE must not be empty")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
