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
		"PAYENGINE_APP_NAME":                os.Getenv("PAYENGINE_APP_NAME"),
		"PAYENGINE_APP_ENV":                 os.Getenv("PAYENGINE_APP_ENV"),
		"PAYENGINE_APP_PORT":                os.Getenv("PAYENGINE_APP_PORT"),
		"PAYENGINE_DATABASE_HOST":           os.Getenv("PAYENGINE_DATABASE_HOST"),
		"PAYENGINE_DATABASE_PORT":           os.Getenv("PAYENGINE_DATABASE_PORT"),
		"PAYENGINE_DATABASE_USER":           os.Getenv("PAYENGINE_DATABASE_USER"),
		"PAYENGINE_DATABASE_PASSWORD":       os.Getenv("PAYENGINE_DATABASE_PASSWORD"),
		"PAYENGINE_DATABASE_DBNAME":         os.Getenv("PAYENGINE_DATABASE_DBNAME"),
		"PAYENGINE_DATABASE_SSLMODE":        os.Getenv("PAYENGINE_DATABASE_SSLMODE"),
		"PAYENGINE_DATABASE_MAX_OPEN_CONNS": os.Getenv("PAYENGINE_DATABASE_MAX_OPEN_CONNS"),
		"PAYENGINE_DATABASE_MAX_IDLE_CONNS": os.Getenv("PAYENGINE_DATABASE_MAX_IDLE_CONNS"),
		"PAYENGINE_JWT_SECRET":              os.Getenv("PAYENGINE_JWT_SECRET"),
		"PAYENGINE_LEDGER_BASE_URL":         os.Getenv("PAYENGINE_LEDGER_BASE_URL"),
		"PAYENGINE_TREASURY_BASE_URL":       os.Getenv("PAYENGINE_TREASURY_BASE_URL"),
		"PAYENGINE_SESSION_SUBMIT_CLAIM_TTL": os.Getenv("PAYENGINE_SESSION_SUBMIT_CLAIM_TTL"),
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

		assert.Equal(t, "payables-engine", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "payables", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, "http://localhost:8081", cfg.Ledger.BaseURL)
		assert.Equal(t, "http://localhost:8082", cfg.Treasury.BaseURL)
		assert.NotZero(t, cfg.Session.SubmitClaimTTL)
	})

	t.Run("loads values from environment variables with PAYENGINE prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("PAYENGINE_APP_NAME", "test-app")
		os.Setenv("PAYENGINE_APP_PORT", "9000")
		os.Setenv("PAYENGINE_DATABASE_HOST", "testdb.local")
		os.Setenv("PAYENGINE_DATABASE_PORT", "5433")
		os.Setenv("PAYENGINE_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("PAYENGINE_LEDGER_BASE_URL", "http://ledger.internal:9090")
		os.Setenv("PAYENGINE_TREASURY_BASE_URL", "http://treasury.internal:9091")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, "http://ledger.internal:9090", cfg.Ledger.BaseURL)
		assert.Equal(t, "http://treasury.internal:9091", cfg.Treasury.BaseURL)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		os.Setenv("PAYENGINE_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("PAYENGINE_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("validates submit claim TTL against treasury timeout", func(t *testing.T) {
		clearEnv()
		os.Setenv("PAYENGINE_SESSION_SUBMIT_CLAIM_TTL", "5s")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "submit_claim_ttl")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"PAYENGINE_APP_ENV":           os.Getenv("PAYENGINE_APP_ENV"),
		"PAYENGINE_JWT_SECRET":        os.Getenv("PAYENGINE_JWT_SECRET"),
		"PAYENGINE_DATABASE_PASSWORD": os.Getenv("PAYENGINE_DATABASE_PASSWORD"),
		"PAYENGINE_DATABASE_SSLMODE":  os.Getenv("PAYENGINE_DATABASE_SSLMODE"),
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

	t.Run("requires jwt.secret in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("PAYENGINE_APP_ENV", "production")
		os.Setenv("PAYENGINE_DATABASE_PASSWORD", "secure-password")
		os.Setenv("PAYENGINE_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("PAYENGINE_APP_ENV", "production")
		os.Setenv("PAYENGINE_JWT_SECRET", "short-secret")
		os.Setenv("PAYENGINE_DATABASE_PASSWORD", "secure-password")
		os.Setenv("PAYENGINE_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret must be at least 32 characters")
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("PAYENGINE_APP_ENV", "production")
		os.Setenv("PAYENGINE_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		os.Setenv("PAYENGINE_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearEnv()
		os.Setenv("PAYENGINE_APP_ENV", "production")
		os.Setenv("PAYENGINE_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		os.Setenv("PAYENGINE_DATABASE_PASSWORD", "secure-password")
		os.Setenv("PAYENGINE_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
		os.Setenv("PAYENGINE_APP_ENV", "production")
		os.Setenv("PAYENGINE_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		os.Setenv("PAYENGINE_DATABASE_PASSWORD", "secure-password")
		os.Setenv("PAYENGINE_DATABASE_SSLMODE", "require")

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
