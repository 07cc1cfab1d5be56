package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	unsetenv(t, "DATABASE_URL", "DB_HOST", "SERVER_PORT", "PERMIFY_TENANT", "SMTP_PORT", "EMAIL_PROVIDER", "JWT_EXPIRY")

	cfg := Load()

	assert.Equal(t, "", cfg.Database.URL)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "", cfg.Email.Provider)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "t1", cfg.Permify.Tenant)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpiryPeriod)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-jwt")
	t.Setenv("SECRET_KEY", "from-secret-key")
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SERVER_READ_TIMEOUT", "not-a-duration")

	cfg := Load()

	assert.Equal(t, "from-jwt", cfg.JWT.Secret)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpiryPeriod)
	assert.Equal(t, 2525, cfg.SMTP.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
}

func TestSecretKeyFallback(t *testing.T) {
	unsetenv(t, "JWT_SECRET")
	t.Setenv("SECRET_KEY", "legacy")

	assert.Equal(t, "legacy", Load().JWT.Secret)
}

// unsetenv removes keys for the duration of the test
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Host = "db"
	cfg.Database.Port = "5432"
	cfg.Database.User = "postgres"
	cfg.Database.Password = "pw"
	cfg.Database.Name = "socioplus"
	cfg.Database.SSLMode = "disable"
	cfg.Database.SearchPath = "public"

	assert.Equal(t,
		"host=db port=5432 user=postgres password=pw dbname=socioplus sslmode=disable search_path=public",
		cfg.DSN(),
	)
	assert.Equal(t,
		"postgres://postgres:pw@db:5432/socioplus?search_path=public&sslmode=disable",
		cfg.MigrationURL(),
	)

	cfg.Database.URL = "postgres://u:p@elsewhere/app"
	assert.Equal(t, cfg.Database.URL, cfg.DSN())
	assert.Equal(t, cfg.Database.URL, cfg.MigrationURL())
}
