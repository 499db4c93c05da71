package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("RESCORE_WORKERS", "6")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.AppURL())
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, 6, cfg.RescoreWorkers)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.LLMModel)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
jwt_secret = "from-file"
database_dsn = "file.db"
llm_model = "file-model"
rate_limit_per_minute = 10
`), 0o600))
	t.Setenv("LLM_MODEL", "env-model")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "file.db", cfg.DatabaseDSN)
	assert.Equal(t, 10, cfg.RateLimit)
	assert.Equal(t, "env-model", cfg.LLMModel)
}

func TestLoad_GroqKeyFallback(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("GROQ_API_KEY", "gsk_1")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gsk_1", cfg.LLMAPIKey)

	t.Setenv("LLM_API_KEY", "override")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "override", cfg.LLMAPIKey)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		_, err := Load("")
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("bad integer", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "x")
		t.Setenv("RATE_LIMIT_PER_MINUTE", "many")
		_, err := Load("")
		assert.ErrorContains(t, err, "RATE_LIMIT_PER_MINUTE")
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "x")
		t.Setenv("DATABASE_DRIVER", "oracle")
		_, err := Load("")
		assert.ErrorContains(t, err, "DATABASE_DRIVER")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})
}

func TestNewDatabase_SQLiteMigrates(t *testing.T) {
	db, err := NewDatabase("sqlite", filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable("tasks"))
	assert.True(t, db.Migrator().HasTable("users"))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "debug", "json")
	require.NoError(t, err)

	logger.Debug("rescored", "owner", 3)
	assert.Contains(t, buf.String(), `"owner":3`)

	_, err = NewLogger(&buf, "loud", "text")
	assert.Error(t, err)
}
