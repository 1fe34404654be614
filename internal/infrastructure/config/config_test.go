package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	envKeys := []string{
		"COMMERCEHUB_APP_NAME",
		"COMMERCEHUB_APP_ENV",
		"COMMERCEHUB_APP_PORT",
		"COMMERCEHUB_LOG_LEVEL",
		"COMMERCEHUB_LOG_FORMAT",
		"COMMERCEHUB_REDIS_HOST",
		"COMMERCEHUB_REDIS_PORT",
		"COMMERCEHUB_REDIS_PASSWORD",
		"COMMERCEHUB_FAIRE_ACCESS_TOKEN",
		"COMMERCEHUB_SCHEDULER_ENABLED",
		"COMMERCEHUB_WEBHOOK_IDEMPOTENCY_ENABLED",
	}

	originalEnv := make(map[string]string, len(envKeys))
	for _, k := range envKeys {
		originalEnv[k] = os.Getenv(k)
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
		for _, k := range envKeys {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "commercehub-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "console", cfg.Log.Format)
		assert.Equal(t, "localhost", cfg.Redis.Host)
		assert.Equal(t, 6379, cfg.Redis.Port)
		assert.Equal(t, 24*time.Hour, cfg.Webhook.IdempotencyTTL)
		assert.True(t, cfg.Webhook.IdempotencyEnabled, "replay protection must be on by default")
		assert.Equal(t, 30*time.Second, cfg.Automation.ActionTimeout)
		assert.True(t, cfg.Scheduler.Enabled, "schedule triggers must run by default")
		assert.Equal(t, time.Minute, cfg.Scheduler.CheckInterval)
		assert.Equal(t, "https://www.faire.com/external-api/v2", cfg.Faire.APIBaseURL)
		assert.Equal(t, 120, cfg.Faire.RequestsPerMinute)
		assert.Equal(t, 1, cfg.Faire.RateLimitBurst)
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		clearEnv()
		os.Setenv("COMMERCEHUB_APP_NAME", "hub-test")
		os.Setenv("COMMERCEHUB_APP_ENV", "production")
		os.Setenv("COMMERCEHUB_LOG_FORMAT", "json")
		os.Setenv("COMMERCEHUB_REDIS_HOST", "redis.internal")
		os.Setenv("COMMERCEHUB_REDIS_PORT", "6380")
		os.Setenv("COMMERCEHUB_FAIRE_ACCESS_TOKEN", "tok-123")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "hub-test", cfg.App.Name)
		assert.Equal(t, "production", cfg.App.Env)
		assert.True(t, cfg.IsProduction())
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "redis.internal", cfg.Redis.Host)
		assert.Equal(t, 6380, cfg.Redis.Port)
		assert.Equal(t, "tok-123", cfg.Faire.AccessToken)
	})

	t.Run("boolean defaults can be switched off", func(t *testing.T) {
		clearEnv()
		os.Setenv("COMMERCEHUB_WEBHOOK_IDEMPOTENCY_ENABLED", "false")
		os.Setenv("COMMERCEHUB_SCHEDULER_ENABLED", "false")

		cfg, err := Load()
		require.NoError(t, err)

		assert.False(t, cfg.Webhook.IdempotencyEnabled)
		assert.False(t, cfg.Scheduler.Enabled)
	})

	t.Run("invalid log level rejected", func(t *testing.T) {
		clearEnv()
		os.Setenv("COMMERCEHUB_LOG_LEVEL", "verbose")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "log level")
	})
}

func TestConfigAddr(t *testing.T) {
	cfg := &Config{App: AppConfig{Port: "9090"}}
	assert.Equal(t, ":9090", cfg.Addr())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, base().validate())
	})

	t.Run("rejects bad redis port", func(t *testing.T) {
		cfg := base()
		cfg.Redis.Port = 0
		assert.Error(t, cfg.validate())
	})

	t.Run("rejects negative idempotency TTL", func(t *testing.T) {
		cfg := base()
		cfg.Webhook.IdempotencyTTL = -time.Hour
		assert.Error(t, cfg.validate())
	})

	t.Run("rejects sub-second scheduler interval", func(t *testing.T) {
		cfg := base()
		cfg.Scheduler.CheckInterval = 100 * time.Millisecond
		assert.Error(t, cfg.validate())
	})
}
