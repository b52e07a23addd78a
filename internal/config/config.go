package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/lorrc/soc-metrics-backend/internal/core/domain"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Redis cache configuration
	Redis RedisConfig

	// Jira ticket source configuration
	Jira JiraConfig

	// JWT configuration
	JWT JWTConfig

	// Operator account for the reporting API
	Auth AuthConfig

	// Rate limiting configuration
	RateLimit RateLimitConfig

	// Metrics analysis configuration
	Analysis AnalysisConfig

	// Logging configuration
	Logging LoggingConfig

	// Application metadata
	App AppConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// RedisConfig holds the optional response cache configuration. An empty
// address disables caching.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// JiraConfig holds the ticket source configuration
type JiraConfig struct {
	BaseURL           string
	Username          string
	APIToken          string
	ProjectKey        string
	FirstActionStatus string
	PageSize          int
	RequestsPerSecond float64
	Timeout           time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
}

// AuthConfig holds the single operator account credentials. PasswordHash is
// a bcrypt hash, never the plaintext password.
type AuthConfig struct {
	Username     string
	PasswordHash string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
	AuthRPS           float64 // Stricter limit for auth endpoints
	AuthBurst         int
}

// AnalysisConfig holds the metrics engine parameters: the working-time
// calendar, SLA thresholds per priority and outlier detection settings.
type AnalysisConfig struct {
	BusinessDays     []string
	StartHour        int
	EndHour          int
	Holidays         []string
	Timezone         string
	SLAHours         map[domain.TicketPriority]int
	OutlierZ         float64
	WeekStartDay     string
	DefaultMaxIssues int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", ":8080"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:     getDurationOrDefault("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			AllowedOrigins:  getStringSliceOrDefault("CORS_ALLOWED_ORIGINS", []string{}),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getIntOrDefault("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntOrDefault("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationOrDefault("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: getDurationOrDefault("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getIntOrDefault("REDIS_DB", 0),
			TTL:      getDurationOrDefault("REDIS_CACHE_TTL", 5*time.Minute),
		},
		Jira: JiraConfig{
			BaseURL:           os.Getenv("JIRA_BASE_URL"),
			Username:          os.Getenv("JIRA_USERNAME"),
			APIToken:          os.Getenv("JIRA_API_TOKEN"),
			ProjectKey:        getEnvOrDefault("JIRA_PROJECT_KEY", "SOC"),
			FirstActionStatus: getEnvOrDefault("JIRA_FIRST_ACTION_STATUS", "In Progress"),
			PageSize:          getIntOrDefault("JIRA_PAGE_SIZE", 100),
			RequestsPerSecond: getFloatOrDefault("JIRA_RPS", 4),
			Timeout:           getDurationOrDefault("JIRA_TIMEOUT", 30*time.Second),
		},
		JWT: JWTConfig{
			Secret:         os.Getenv("JWT_SECRET"),
			AccessTokenTTL: getDurationOrDefault("JWT_ACCESS_TOKEN_TTL", 1*time.Hour),
		},
		Auth: AuthConfig{
			Username:     getEnvOrDefault("AUTH_USERNAME", "operator"),
			PasswordHash: os.Getenv("AUTH_PASSWORD_HASH"),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getBoolOrDefault("RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: getFloatOrDefault("RATE_LIMIT_RPS", 10),
			BurstSize:         getIntOrDefault("RATE_LIMIT_BURST", 20),
			AuthRPS:           getFloatOrDefault("RATE_LIMIT_AUTH_RPS", 1),
			AuthBurst:         getIntOrDefault("RATE_LIMIT_AUTH_BURST", 5),
		},
		Analysis: AnalysisConfig{
			BusinessDays: getStringSliceOrDefault("BUSINESS_DAYS", []string{"Mon", "Tue", "Wed", "Thu", "Fri"}),
			StartHour:    getIntOrDefault("BUSINESS_HOURS_START", 9),
			EndHour:      getIntOrDefault("BUSINESS_HOURS_END", 17),
			Holidays:     getStringSliceOrDefault("HOLIDAYS", []string{}),
			Timezone:     getEnvOrDefault("TIMEZONE", "UTC"),
			SLAHours: map[domain.TicketPriority]int{
				domain.PriorityCritical: getIntOrDefault("SLA_CRITICAL_HOURS", 4),
				domain.PriorityHigh:     getIntOrDefault("SLA_HIGH_HOURS", 8),
				domain.PriorityMedium:   getIntOrDefault("SLA_MEDIUM_HOURS", 24),
				domain.PriorityLow:      getIntOrDefault("SLA_LOW_HOURS", 48),
			},
			OutlierZ:         getFloatOrDefault("OUTLIER_Z_THRESHOLD", 2.0),
			WeekStartDay:     getEnvOrDefault("WEEK_START_DAY", "Mon"),
			DefaultMaxIssues: getIntOrDefault("MAX_ISSUES", 1000),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
		App: AppConfig{
			Name:        getEnvOrDefault("APP_NAME", "soc-metrics"),
			Version:     getEnvOrDefault("APP_VERSION", "dev"),
			Environment: getEnvOrDefault("APP_ENV", "development"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []string

	// Required fields
	if c.Database.URL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}

	if c.JWT.Secret == "" {
		errs = append(errs, "JWT_SECRET is required")
	}

	if c.Auth.PasswordHash == "" {
		errs = append(errs, "AUTH_PASSWORD_HASH is required")
	}

	if c.Jira.BaseURL == "" {
		errs = append(errs, "JIRA_BASE_URL is required")
	}

	// Security validations
	if c.App.Environment == "production" && len(c.JWT.Secret) < 32 {
		errs = append(errs, "JWT_SECRET must be at least 32 characters in production")
	}

	// Logical validations
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		errs = append(errs, "DB_MAX_IDLE_CONNS cannot be greater than DB_MAX_OPEN_CONNS")
	}

	if c.Analysis.EndHour <= c.Analysis.StartHour {
		errs = append(errs, "BUSINESS_HOURS_END must be after BUSINESS_HOURS_START")
	}

	if len(errs) > 0 {
		return errors.New("configuration errors:\n  - " + strings.Join(errs, "\n  - "))
	}

	return nil
}

// weekdayNames maps env-style day abbreviations to weekdays.
var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// WorkingHours builds the domain calendar from the analysis section. The
// timezone must resolve; the engine validates the rest.
func (c *Config) WorkingHours() (domain.WorkingHoursConfig, error) {
	loc, err := time.LoadLocation(c.Analysis.Timezone)
	if err != nil {
		return domain.WorkingHoursConfig{}, fmt.Errorf("invalid TIMEZONE %q: %w", c.Analysis.Timezone, err)
	}

	days := make(map[time.Weekday]bool, len(c.Analysis.BusinessDays))
	for _, name := range c.Analysis.BusinessDays {
		day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return domain.WorkingHoursConfig{}, fmt.Errorf("invalid BUSINESS_DAYS entry %q", name)
		}
		days[day] = true
	}

	holidays := make(map[string]bool, len(c.Analysis.Holidays))
	for _, date := range c.Analysis.Holidays {
		date = strings.TrimSpace(date)
		if _, err := time.Parse(domain.HolidayDateLayout, date); err != nil {
			return domain.WorkingHoursConfig{}, fmt.Errorf("invalid HOLIDAYS entry %q: %w", date, err)
		}
		holidays[date] = true
	}

	return domain.WorkingHoursConfig{
		BusinessDays: days,
		StartHour:    c.Analysis.StartHour,
		EndHour:      c.Analysis.EndHour,
		Holidays:     holidays,
		Location:     loc,
	}, nil
}

// SLAThresholds converts the per-priority hour limits to working seconds.
func (c *Config) SLAThresholds() domain.SLAThresholds {
	thresholds := make(domain.SLAThresholds, len(c.Analysis.SLAHours))
	for priority, hours := range c.Analysis.SLAHours {
		if hours > 0 {
			thresholds[priority] = int64(hours) * 3600
		}
	}
	return thresholds
}

// WeekStart resolves the configured week-start day, defaulting to Monday.
func (c *Config) WeekStart() time.Weekday {
	if day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(c.Analysis.WeekStartDay))]; ok {
		return day
	}
	return time.Monday
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// String returns a redacted string representation of the config (safe for logging)
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Server: %s, DB: %s, Jira: %s, JWT: [REDACTED], RateLimit: %v, Environment: %s}",
		c.Server.Port,
		redactURL(c.Database.URL),
		c.Jira.BaseURL,
		c.RateLimit.Enabled,
		c.App.Environment,
	)
}

// redactURL redacts sensitive parts of a database URL
func redactURL(url string) string {
	if url == "" {
		return ""
	}
	if idx := strings.Index(url, "@"); idx > 0 {
		return "[REDACTED]" + url[idx:]
	}
	return "[REDACTED]"
}
