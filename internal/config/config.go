package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // attendance days use a named zone even on slim images

	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config is built once at startup and handed to every component that needs it.
type Config struct {
	Env      string
	Port     string
	LogLevel string

	// Database
	DatabaseURL      string
	LogRetentionDays int

	// Sessions
	SessionSecret       string
	SessionTTL          time.Duration
	RedisURL            string
	DevPasswordlessAuth bool
	BcryptCost          int

	// HTTP edge
	AllowedOrigins     []string
	RateLimitWindow    time.Duration
	RateLimitMax       int
	AuthRateLimitMax   int
	SwaggerFile        string
	SentryDSN          string
	AttendanceTimezone string
	attendanceLocation *time.Location
	shortSecretInProd  bool
}

// Load reads the environment (and an optional .env file) and validates the result.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional

	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("NODE_ENV", EnvDevelopment)
	v.SetDefault("PORT", "5000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_RETENTION_DAYS", 30)
	v.SetDefault("SESSION_TTL", "168h")
	v.SetDefault("AUTH_DEV_PASSWORDLESS", false)
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5000")
	v.SetDefault("RATE_LIMIT_WINDOW_MS", 900000)
	v.SetDefault("RATE_LIMIT_MAX_REQUESTS", 100)
	v.SetDefault("AUTH_RATE_LIMIT_MAX", 5)
	v.SetDefault("SWAGGER_FILE", "./docs/swagger.json")
	v.SetDefault("ATTENDANCE_TIMEZONE", "Asia/Kolkata")
}

func fromViper(v *viper.Viper) (*Config, error) {
	var problems []string

	cfg := &Config{
		Env:                 strings.ToLower(v.GetString("NODE_ENV")),
		Port:                v.GetString("PORT"),
		LogLevel:            strings.ToLower(v.GetString("LOG_LEVEL")),
		DatabaseURL:         v.GetString("DATABASE_URL"),
		LogRetentionDays:    getInt(v, "LOG_RETENTION_DAYS", &problems),
		SessionSecret:       v.GetString("SESSION_SECRET"),
		RedisURL:            v.GetString("REDIS_URL"),
		DevPasswordlessAuth: v.GetBool("AUTH_DEV_PASSWORDLESS"),
		BcryptCost:          getInt(v, "BCRYPT_COST", &problems),
		AllowedOrigins:      parseCSV(v.GetString("ALLOWED_ORIGINS")),
		RateLimitWindow:     time.Duration(getInt(v, "RATE_LIMIT_WINDOW_MS", &problems)) * time.Millisecond,
		RateLimitMax:        getInt(v, "RATE_LIMIT_MAX_REQUESTS", &problems),
		AuthRateLimitMax:    getInt(v, "AUTH_RATE_LIMIT_MAX", &problems),
		SwaggerFile:         v.GetString("SWAGGER_FILE"),
		SentryDSN:           v.GetString("SENTRY_DSN"),
		AttendanceTimezone:  v.GetString("ATTENDANCE_TIMEZONE"),
	}

	ttl, err := time.ParseDuration(v.GetString("SESSION_TTL"))
	if err != nil || ttl <= 0 {
		problems = append(problems, "SESSION_TTL must be a positive duration")
	}
	cfg.SessionTTL = ttl

	switch cfg.Env {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		problems = append(problems, fmt.Sprintf("NODE_ENV must be one of development, production, test (got %q)", cfg.Env))
	}

	if cfg.DatabaseURL == "" {
		problems = append(problems, "DATABASE_URL is required")
	} else if u, err := url.Parse(cfg.DatabaseURL); err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
		problems = append(problems, "DATABASE_URL must be a postgres:// URL")
	}

	if len(cfg.SessionSecret) < 32 {
		problems = append(problems, "SESSION_SECRET must be at least 32 characters")
	}
	cfg.shortSecretInProd = cfg.Env == EnvProduction && len(cfg.SessionSecret) < 64

	if len(cfg.AllowedOrigins) == 0 {
		problems = append(problems, "ALLOWED_ORIGINS must list at least one origin")
	}
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			problems = append(problems, "ALLOWED_ORIGINS cannot be * because session cookies are sent with credentials")
		}
	}

	if cfg.DevPasswordlessAuth && cfg.Env != EnvDevelopment {
		problems = append(problems, "AUTH_DEV_PASSWORDLESS may only be enabled when NODE_ENV=development")
	}
	if cfg.RedisURL == "" && cfg.Env == EnvProduction {
		problems = append(problems, "REDIS_URL is required in production")
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		problems = append(problems, "BCRYPT_COST must be between 4 and 31")
	}
	if cfg.RateLimitWindow <= 0 || cfg.RateLimitMax <= 0 || cfg.AuthRateLimitMax <= 0 {
		problems = append(problems, "rate limit settings must be positive")
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		problems = append(problems, "PORT must be numeric")
	}

	loc, err := time.LoadLocation(cfg.AttendanceTimezone)
	if err != nil {
		problems = append(problems, fmt.Sprintf("ATTENDANCE_TIMEZONE %q is not a known time zone", cfg.AttendanceTimezone))
	}
	cfg.attendanceLocation = loc

	if len(problems) > 0 {
		return nil, errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool  { return c.Env == EnvProduction }
func (c *Config) IsDevelopment() bool { return c.Env == EnvDevelopment }

// AttendanceLocation is the reference clock that defines attendance days.
func (c *Config) AttendanceLocation() *time.Location {
	if c.attendanceLocation == nil {
		return time.UTC
	}
	return c.attendanceLocation
}

// Warnings lists non-fatal problems worth logging at startup.
func (c *Config) Warnings() []string {
	var out []string
	if c.shortSecretInProd {
		out = append(out, "SESSION_SECRET should be at least 64 characters in production")
	}
	if c.DevPasswordlessAuth {
		out = append(out, "AUTH_DEV_PASSWORDLESS is enabled: users without a password can log in with any password")
	}
	if c.RedisURL == "" {
		out = append(out, "REDIS_URL not set: sessions are kept in memory and lost on restart")
	}
	return out
}

func getInt(v *viper.Viper, key string, problems *[]string) int {
	raw := v.GetString(key)
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		*problems = append(*problems, fmt.Sprintf("%s must be an integer (got %q)", key, raw))
		return 0
	}
	return n
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
