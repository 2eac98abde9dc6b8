package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Admin      AdminConfig
	Session    SessionConfig
	Mail       MailConfig
	Cloudinary CloudinaryConfig
	RateLimit  RateLimitConfig
	Campaign   CampaignConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// Proxies whose X-Forwarded-For is believed. Empty means the peer
	// address is the client IP.
	TrustedProxies []string
}

type DatabaseConfig struct {
	URL             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// AdminConfig holds the shared dashboard secret. An empty Password makes
// every login attempt fail with a configuration error.
type AdminConfig struct {
	Password string
}

type SessionConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool
}

// MailConfig configures operator notifications. An empty SendGridAPIKey
// turns notifications into logged no-ops.
type MailConfig struct {
	SendGridAPIKey    string
	NotificationEmail string
	FromEmail         string
	FromName          string
	SiteName          string
	Timeout           time.Duration
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type CampaignConfig struct {
	Timezone string
}

type LogConfig struct {
	Level string
}

// DefaultSessionSecret signs cookies when SESSION_SECRET is unset. It is
// public, so production refuses to run with it.
const DefaultSessionSecret = "change-me-session-secret"

var ErrDefaultSessionSecret = errors.New("SESSION_SECRET must be set in production")

func Load() *Config {
	// .env is optional; real deployments inject the environment directly
	_ = godotenv.Load()

	notify := getEnv("NOTIFICATION_EMAIL", "noreply@example.com")
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "5000"),
			Env:            getEnv("APP_ENV", "development"),
			ReadTimeout:    getEnvAsDuration("READ_TIMEOUT", 10*time.Second),
			WriteTimeout:   getEnvAsDuration("WRITE_TIMEOUT", 30*time.Second),
			TrustedProxies: getEnvAsSlice("TRUSTED_PROXIES"),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", "sqlite:///./directmail.db"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		Admin: AdminConfig{
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", DefaultSessionSecret),
			TTL:        getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			CookieName: getEnv("SESSION_COOKIE_NAME", "admin_session"),
			Secure:     getEnvAsBool("SESSION_COOKIE_SECURE", false),
		},
		Mail: MailConfig{
			SendGridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
			NotificationEmail: notify,
			FromEmail:         getEnv("NOTIFICATION_FROM", notify),
			FromName:          getEnv("NOTIFICATION_FROM_NAME", "Anchorage Direct Mail"),
			SiteName:          getEnv("SITE_NAME", "Anchorage Direct Mail"),
			Timeout:           getEnvAsDuration("MAIL_TIMEOUT", 10*time.Second),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
			Folder:    getEnv("CLOUDINARY_FOLDER", "blog"),
		},
		RateLimit: RateLimitConfig{
			Requests: getEnvAsInt("RATE_LIMIT_REQUESTS", 20),
			Window:   getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Campaign: CampaignConfig{
			Timezone: getEnv("CAMPAIGN_TIMEZONE", "America/Anchorage"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

// Validate reports settings the process must not start with.
func (c *Config) Validate() error {
	if c.Server.IsProduction() && c.Session.Secret == DefaultSessionSecret {
		return ErrDefaultSessionSecret
	}
	return nil
}

func (c *ServerConfig) IsProduction() bool {
	return c.Env == "production"
}

func (c *CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// Driver reports which gorm dialect a DATABASE_URL selects.
func (c *DatabaseConfig) Driver() string {
	switch {
	case strings.HasPrefix(c.URL, "postgres://"), strings.HasPrefix(c.URL, "postgresql://"):
		return "postgres"
	case strings.HasPrefix(c.URL, "mysql://"):
		return "mysql"
	default:
		return "sqlite"
	}
}

// MySQLDSN strips the mysql:// scheme so the remainder can be handed to the
// go-sql-driver DSN parser.
func (c *DatabaseConfig) MySQLDSN() string {
	return strings.TrimPrefix(c.URL, "mysql://")
}

// SQLitePath extracts the file path from sqlite:///path URLs. Anything
// without the scheme is used as-is (":memory:", "file::memory:?cache=shared").
func (c *DatabaseConfig) SQLitePath() string {
	return strings.TrimPrefix(c.URL, "sqlite:///")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
