package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	Log        LogConfig
	Redis      RedisConfig
	HTTP       HTTPConfig
	Webhook    WebhookConfig
	Automation AutomationConfig
	Scheduler  SchedulerConfig
	Faire      FaireConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	// RequireForState disables the in-memory fallback for idempotency and
	// automation state. Multi-instance deployments should set this.
	RequireForState bool
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	// MaxBodySize bounds webhook payload size in bytes
	MaxBodySize    int64
	TrustedProxies []string
}

// WebhookConfig holds webhook ingress configuration
type WebhookConfig struct {
	// IdempotencyEnabled toggles the (platform, event_id) replay check
	IdempotencyEnabled bool
	// IdempotencyTTL is how long processed event keys are remembered
	IdempotencyTTL time.Duration
}

// AutomationConfig holds automation executor configuration
type AutomationConfig struct {
	// ActionTimeout is the default per-attempt deadline
	ActionTimeout time.Duration
	// RetryDelay is the pause between retry attempts
	RetryDelay time.Duration
}

// SchedulerConfig holds schedule-trigger scheduler configuration
type SchedulerConfig struct {
	Enabled       bool
	CheckInterval time.Duration
}

// FaireConfig holds the default Faire adapter settings. Per-tenant access
// tokens override these at runtime.
type FaireConfig struct {
	AccessToken       string
	WebhookSecret     string
	APIBaseURL        string
	TimeoutSeconds    int
	RequestsPerMinute int
	RateLimitBurst    int
}

// Load loads configuration from a TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with COMMERCEHUB_ prefix
//    (e.g., COMMERCEHUB_REDIS_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, defaults and env vars apply
	}

	v.SetEnvPrefix("COMMERCEHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Boolean defaults must go through viper: applyDefaults cannot tell an
	// explicit false apart from an unset value. Replay protection and the
	// schedule-trigger loop are on unless a deployment opts out.
	v.SetDefault("webhook.idempotency_enabled", true)
	v.SetDefault("scheduler.enabled", true)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Redis: RedisConfig{
			Host:            v.GetString("redis.host"),
			Port:            v.GetInt("redis.port"),
			Password:        v.GetString("redis.password"),
			DB:              v.GetInt("redis.db"),
			RequireForState: v.GetBool("redis.require_for_state"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:    v.GetDuration("http.read_timeout"),
			WriteTimeout:   v.GetDuration("http.write_timeout"),
			IdleTimeout:    v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes: v.GetInt("http.max_header_bytes"),
			MaxBodySize:    v.GetInt64("http.max_body_size"),
			TrustedProxies: v.GetStringSlice("http.trusted_proxies"),
		},
		Webhook: WebhookConfig{
			IdempotencyEnabled: v.GetBool("webhook.idempotency_enabled"),
			IdempotencyTTL:     v.GetDuration("webhook.idempotency_ttl"),
		},
		Automation: AutomationConfig{
			ActionTimeout: v.GetDuration("automation.action_timeout"),
			RetryDelay:    v.GetDuration("automation.retry_delay"),
		},
		Scheduler: SchedulerConfig{
			Enabled:       v.GetBool("scheduler.enabled"),
			CheckInterval: v.GetDuration("scheduler.check_interval"),
		},
		Faire: FaireConfig{
			AccessToken:       v.GetString("faire.access_token"),
			WebhookSecret:     v.GetString("faire.webhook_secret"),
			APIBaseURL:        v.GetString("faire.api_base_url"),
			TimeoutSeconds:    v.GetInt("faire.timeout_seconds"),
			RequestsPerMinute: v.GetInt("faire.requests_per_minute"),
			RateLimitBurst:    v.GetInt("faire.rate_limit_burst"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "commercehub-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 2 << 20
	}
	if cfg.Webhook.IdempotencyTTL == 0 {
		cfg.Webhook.IdempotencyTTL = 24 * time.Hour
	}
	if cfg.Automation.ActionTimeout == 0 {
		cfg.Automation.ActionTimeout = 30 * time.Second
	}
	if cfg.Automation.RetryDelay == 0 {
		cfg.Automation.RetryDelay = 500 * time.Millisecond
	}
	if cfg.Scheduler.CheckInterval == 0 {
		cfg.Scheduler.CheckInterval = time.Minute
	}
	if cfg.Faire.APIBaseURL == "" {
		cfg.Faire.APIBaseURL = "https://www.faire.com/external-api/v2"
	}
	if cfg.Faire.TimeoutSeconds == 0 {
		cfg.Faire.TimeoutSeconds = 30
	}
	if cfg.Faire.RequestsPerMinute == 0 {
		cfg.Faire.RequestsPerMinute = 120
	}
	if cfg.Faire.RateLimitBurst == 0 {
		cfg.Faire.RateLimitBurst = 1
	}
}

// validate checks configuration consistency
func (c *Config) validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return fmt.Errorf("config: invalid log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: invalid log format %q", c.Log.Format)
	}
	if c.Redis.Port < 1 || c.Redis.Port > 65535 {
		return fmt.Errorf("config: invalid redis port %d", c.Redis.Port)
	}
	if c.Webhook.IdempotencyTTL < 0 {
		return fmt.Errorf("config: webhook idempotency TTL must not be negative")
	}
	if c.Scheduler.CheckInterval < time.Second {
		return fmt.Errorf("config: scheduler check interval below 1s")
	}
	return nil
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Addr returns the HTTP listen address
func (c *Config) Addr() string {
	return ":" + c.App.Port
}
