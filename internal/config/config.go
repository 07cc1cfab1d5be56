// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database struct {
		URL        string `json:"url"`
		Host       string `json:"host"`
		Port       string `json:"port"`
		User       string `json:"user"`
		Password   string `json:"password"`
		Name       string `json:"name"`
		SSLMode    string `json:"sslmode"`
		SearchPath string `json:"schema"`
	} `json:"database"`
	JWT struct {
		Secret       string        `json:"secret"`
		ExpiryPeriod time.Duration `json:"expiry_period"`
	} `json:"jwt"`
	Server struct {
		Port         string        `json:"port"`
		ReadTimeout  time.Duration `json:"read_timeout"`
		WriteTimeout time.Duration `json:"write_timeout"`
	}
	Permify struct {
		Host          string `json:"host"`
		Tenant        string `json:"tenant"`
		SchemaVersion string `json:"schema_version"`
	} `json:"permify"`
	Email struct {
		Provider string `json:"provider"`
		From     string `json:"from"`
		FromName string `json:"from_name"`
	} `json:"email"`
	Sendgrid struct {
		APIKey string `json:"api_key"`
	} `json:"sendgrid"`
	SMTP struct {
		Host     string `json:"host"`
		Port     int    `json:"port"`
		Username string `json:"username"`
		Password string `json:"password"`
	} `json:"smtp"`
	BaseURL string `json:"base_url"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg := &Config{}

	// Database configuration
	cfg.Database.URL = getEnv("DATABASE_URL", "")
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnv("DB_PORT", "5432")
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "")
	cfg.Database.Name = getEnv("DB_NAME", "socioplus")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.SearchPath = getEnv("DB_SCHEMA", "public")

	// Session signing
	cfg.JWT.Secret = getEnv("JWT_SECRET", getEnv("SECRET_KEY", "dev-secret-key-change-in-production"))
	cfg.JWT.ExpiryPeriod = getDuration("JWT_EXPIRY", time.Hour*24)

	// Permify is optional; an empty host keeps authorization in-process
	cfg.Permify.Host = getEnv("PERMIFY_HOST", "")
	cfg.Permify.Tenant = getEnv("PERMIFY_TENANT", "t1")
	cfg.Permify.SchemaVersion = getEnv("PERMIFY_SCHEMA_VERSION", "")

	// Email configuration
	cfg.Email.Provider = getEnv("EMAIL_PROVIDER", "")
	cfg.Email.From = getEnv("EMAIL_FROM", "no-reply@socioplus.local")
	cfg.Email.FromName = getEnv("EMAIL_FROM_NAME", "Socioplus")
	cfg.Sendgrid.APIKey = getEnv("SENDGRID_API_KEY", "")
	cfg.SMTP.Host = getEnv("SMTP_HOST", "")
	cfg.SMTP.Port = getInt("SMTP_PORT", 587)
	cfg.SMTP.Username = getEnv("SMTP_USERNAME", "")
	cfg.SMTP.Password = getEnv("SMTP_PASSWORD", "")

	// Server configuration
	cfg.Server.Port = getEnv("SERVER_PORT", "8080")
	cfg.Server.ReadTimeout = getDuration("SERVER_READ_TIMEOUT", time.Second*15)
	cfg.Server.WriteTimeout = getDuration("SERVER_WRITE_TIMEOUT", time.Second*15)

	cfg.BaseURL = getEnv("BASE_URL", "http://localhost:8080")

	return cfg
}

// DSN returns the gorm/pgx connection string. DATABASE_URL wins over the
// discrete DB_* settings.
func (c *Config) DSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
		c.Database.SearchPath,
	)
}

// MigrationURL returns a postgres:// URL for golang-migrate.
func (c *Config) MigrationURL() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	u := &url.URL{
		Scheme: "postgres",
		Host:   c.Database.Host + ":" + c.Database.Port,
		User:   url.UserPassword(c.Database.User, c.Database.Password),
		Path:   c.Database.Name,
	}
	q := u.Query()
	q.Set("sslmode", c.Database.SSLMode)
	q.Set("search_path", c.Database.SearchPath)
	u.RawQuery = q.Encode()
	return u.String()
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", value)
		return defaultValue
	}
	return n
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", value)
		return defaultValue
	}
	return d
}
