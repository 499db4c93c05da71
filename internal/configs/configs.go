package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	AppHost                string   `toml:"app_host"`
	AppPort                string   `toml:"app_port"`
	DatabaseDriver         string   `toml:"database_driver"`
	DatabaseDSN            string   `toml:"database_dsn"`
	RateLimit              int      `toml:"rate_limit_per_minute"`
	ShutdownTimeoutSeconds int      `toml:"shutdown_timeout_seconds"`
	CORSAllowedOrigins     []string `toml:"cors_allowed_origins"`

	JWTSecret             string `toml:"jwt_secret"`
	JWTIssuer             string `toml:"jwt_issuer"`
	AccessTokenTTLMinutes int    `toml:"access_token_ttl_minutes"`

	RedisAddr         string `toml:"redis_addr"`
	RedisLLMTokensKey string `toml:"redis_llm_tokens_key"`

	LLMAPIKey         string `toml:"llm_api_key"`
	LLMBaseURL        string `toml:"llm_base_url"`
	LLMModel          string `toml:"llm_model"`
	LLMMaxConcurrency int    `toml:"llm_max_concurrency"`
	LLMTimeoutSeconds int    `toml:"llm_timeout_seconds"`

	RescoreSchedule  string `toml:"rescore_schedule"`
	RescoreWorkers   int    `toml:"rescore_workers"`
	RescoreQueueSize int    `toml:"rescore_queue_size"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

func (c Config) AppURL() string {
	return fmt.Sprintf("%s:%s", c.AppHost, c.AppPort)
}

func Defaults() Config {
	return Config{
		AppHost:                "127.0.0.1",
		AppPort:                "8080",
		DatabaseDriver:         "sqlite",
		DatabaseDSN:            "tasks.db",
		RateLimit:              120,
		ShutdownTimeoutSeconds: 20,
		CORSAllowedOrigins:     []string{"*"},
		JWTIssuer:              "task-tree-system",
		AccessTokenTTLMinutes:  30,
		RedisLLMTokensKey:      "llm_request_tokens",
		LLMBaseURL:             "https://api.groq.com/openai/v1",
		LLMModel:               "llama-3.1-8b-instant",
		LLMMaxConcurrency:      4,
		LLMTimeoutSeconds:      30,
		RescoreSchedule:        "@every 1h",
		RescoreWorkers:         2,
		RescoreQueueSize:       100,
		LogLevel:               "info",
		LogFormat:              "text",
	}
}

// Load builds the configuration from defaults, then the TOML file at path
// (if any), then environment variables.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.AppHost, "APP_HOST")
	setString(&cfg.AppPort, "APP_PORT")
	setString(&cfg.DatabaseDriver, "DATABASE_DRIVER")
	setString(&cfg.DatabaseDSN, "DATABASE_DSN")
	setString(&cfg.JWTSecret, "JWT_SECRET")
	setString(&cfg.JWTIssuer, "JWT_ISSUER")
	setString(&cfg.RedisAddr, "REDIS_ADDR")
	setString(&cfg.RedisLLMTokensKey, "REDIS_LLM_TOKENS_KEY")
	setString(&cfg.LLMAPIKey, "GROQ_API_KEY")
	setString(&cfg.LLMAPIKey, "LLM_API_KEY")
	setString(&cfg.LLMBaseURL, "LLM_BASE_URL")
	setString(&cfg.LLMModel, "LLM_MODEL")
	setString(&cfg.RescoreSchedule, "RESCORE_SCHEDULE")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogFormat, "LOG_FORMAT")

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = splitList(v)
	}

	return errors.Join(
		setInt(&cfg.RateLimit, "RATE_LIMIT_PER_MINUTE"),
		setInt(&cfg.ShutdownTimeoutSeconds, "SHUTDOWN_TIMEOUT_SECONDS"),
		setInt(&cfg.AccessTokenTTLMinutes, "ACCESS_TOKEN_TTL_MINUTES"),
		setInt(&cfg.LLMMaxConcurrency, "LLM_MAX_CONCURRENCY"),
		setInt(&cfg.LLMTimeoutSeconds, "LLM_TIMEOUT_SECONDS"),
		setInt(&cfg.RescoreWorkers, "RESCORE_WORKERS"),
		setInt(&cfg.RescoreQueueSize, "RESCORE_QUEUE_SIZE"),
	)
}

func validate(cfg Config) error {
	var errs []error
	if cfg.AppHost == "" || cfg.AppPort == "" {
		errs = append(errs, errors.New("APP_HOST and APP_PORT must not be empty (e.g. 127.0.0.1:8080)"))
	}
	switch cfg.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER must be sqlite or postgres, got %q", cfg.DatabaseDriver))
	}
	if cfg.DatabaseDSN == "" {
		errs = append(errs, errors.New("DATABASE_DSN must not be empty"))
	}
	if cfg.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if cfg.RateLimit <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_PER_MINUTE must be greater than 0"))
	}
	if cfg.AccessTokenTTLMinutes <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL_MINUTES must be greater than 0"))
	}
	if cfg.LLMMaxConcurrency <= 0 {
		errs = append(errs, errors.New("LLM_MAX_CONCURRENCY must be greater than 0"))
	}
	if cfg.LLMTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("LLM_TIMEOUT_SECONDS must be greater than 0"))
	}
	if cfg.RescoreWorkers <= 0 {
		errs = append(errs, errors.New("RESCORE_WORKERS must be greater than 0"))
	}
	if cfg.RescoreQueueSize <= 0 {
		errs = append(errs, errors.New("RESCORE_QUEUE_SIZE must be greater than 0"))
	}
	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid integer value for %s", key)
	}
	*dst = i
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
