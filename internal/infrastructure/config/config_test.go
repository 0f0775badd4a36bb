package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"TEMPLE_APP_NAME":                              os.Getenv("TEMPLE_APP_NAME"),
		"TEMPLE_APP_ENV":                               os.Getenv("TEMPLE_APP_ENV"),
		"TEMPLE_APP_PORT":                              os.Getenv("TEMPLE_APP_PORT"),
		"TEMPLE_DATABASE_HOST":                         os.Getenv("TEMPLE_DATABASE_HOST"),
		"TEMPLE_DATABASE_PORT":                         os.Getenv("TEMPLE_DATABASE_PORT"),
		"TEMPLE_DATABASE_USER":                         os.Getenv("TEMPLE_DATABASE_USER"),
		"TEMPLE_DATABASE_PASSWORD":                     os.Getenv("TEMPLE_DATABASE_PASSWORD"),
		"TEMPLE_DATABASE_DBNAME":                       os.Getenv("TEMPLE_DATABASE_DBNAME"),
		"TEMPLE_DATABASE_SSLMODE":                      os.Getenv("TEMPLE_DATABASE_SSLMODE"),
		"TEMPLE_DATABASE_MAX_OPEN_CONNS":               os.Getenv("TEMPLE_DATABASE_MAX_OPEN_CONNS"),
		"TEMPLE_DATABASE_MAX_IDLE_CONNS":               os.Getenv("TEMPLE_DATABASE_MAX_IDLE_CONNS"),
		"TEMPLE_PROCUREMENT_DEFAULT_TOLERANCE_PERCENT": os.Getenv("TEMPLE_PROCUREMENT_DEFAULT_TOLERANCE_PERCENT"),
		"TEMPLE_PROCUREMENT_CHEQUE_VALIDITY_MONTHS":    os.Getenv("TEMPLE_PROCUREMENT_CHEQUE_VALIDITY_MONTHS"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "temple-erp-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "temple_erp", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 0.0, cfg.Procurement.DefaultTolerancePercent)
		assert.Equal(t, 6, cfg.Procurement.ChequeValidityMonths)
	})

	t.Run("loads values from environment variables with TEMPLE prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("TEMPLE_APP_NAME", "test-app")
		os.Setenv("TEMPLE_APP_ENV", "testing")
		os.Setenv("TEMPLE_APP_PORT", "9000")
		os.Setenv("TEMPLE_DATABASE_HOST", "testdb.local")
		os.Setenv("TEMPLE_DATABASE_PORT", "5433")
		os.Setenv("TEMPLE_DATABASE_USER", "testuser")
		os.Setenv("TEMPLE_DATABASE_PASSWORD", "testpass")
		os.Setenv("TEMPLE_DATABASE_DBNAME", "testdb")
		os.Setenv("TEMPLE_DATABASE_SSLMODE", "require")
		os.Setenv("TEMPLE_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("TEMPLE_DATABASE_MAX_IDLE_CONNS", "10")
		os.Setenv("TEMPLE_PROCUREMENT_DEFAULT_TOLERANCE_PERCENT", "10")
		os.Setenv("TEMPLE_PROCUREMENT_CHEQUE_VALIDITY_MONTHS", "3")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, 10.0, cfg.Procurement.DefaultTolerancePercent)
		assert.Equal(t, 3, cfg.Procurement.ChequeValidityMonths)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("TEMPLE_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("TEMPLE_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("validates tolerance percent range", func(t *testing.T) {
		clearEnv()
		os.Setenv("TEMPLE_PROCUREMENT_DEFAULT_TOLERANCE_PERCENT", "150")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "default_tolerance_percent")
	})

	t.Run("validates cheque validity months cannot be negative", func(t *testing.T) {
		clearEnv()
		os.Setenv("TEMPLE_PROCUREMENT_CHEQUE_VALIDITY_MONTHS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cheque_validity_months")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"TEMPLE_APP_ENV":           os.Getenv("TEMPLE_APP_ENV"),
		"TEMPLE_DATABASE_PASSWORD": os.Getenv("TEMPLE_DATABASE_PASSWORD"),
		"TEMPLE_DATABASE_SSLMODE":  os.Getenv("TEMPLE_DATABASE_SSLMODE"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("requires database.password in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("TEMPLE_APP_ENV", "production")
		os.Setenv("TEMPLE_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("TEMPLE_APP_ENV", "production")
		os.Setenv("TEMPLE_DATABASE_PASSWORD", "secure-password")
		os.Setenv("TEMPLE_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		os.Setenv("TEMPLE_APP_ENV", "production")
		os.Setenv("TEMPLE_DATABASE_PASSWORD", "secure-password")
		os.Setenv("TEMPLE_DATABASE_SSLMODE", "require")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "pass%40word%23123")
	})

	t.Run("handles empty password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.NotEmpty(t, dsn)
	})
}
