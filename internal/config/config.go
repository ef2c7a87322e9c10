package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// readSecret reads a Docker secret from a file path specified by an env var
// with _FILE suffix. If FOO is already set directly, the file is skipped.
func readSecret(envKey string) {
	if os.Getenv(envKey) != "" {
		return
	}
	filePath := os.Getenv(envKey + "_FILE")
	if filePath == "" {
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	os.Setenv(envKey, strings.TrimSpace(string(data)))
}

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Provider  ProviderConfig
	Gemini    LLMConfig
	Zai       LLMConfig
	Tracing   TracingConfig
}

type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

// IsProduction reports whether the server runs with production defaults.
func (s ServerConfig) IsProduction() bool {
	return strings.EqualFold(s.Env, "production")
}

type DatabaseConfig struct {
	Driver       string // "sqlite" or "postgres"
	DSN          string
	MaxOpenConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration int // hours
}

type RateLimitConfig struct {
	JobsPerHour int
}

// ProviderConfig controls how generation calls are made, independent of
// which provider serves them.
type ProviderConfig struct {
	Default        string
	Timeout        time.Duration
	MaxConcurrency int64 // 0 means unlimited
	Breaker        BreakerConfig
}

type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	ConsecutiveFails uint32
}

// LLMConfig describes one OpenAI-compatible endpoint.
type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	JSONMode    bool
}

type TracingConfig struct {
	Enabled      bool
	Endpoint     string
	SamplingRate float64
}

func Load() (*Config, error) {
	// Read Docker Swarm secrets from _FILE env vars before Viper binds
	readSecret("REDIS_PASSWORD")
	readSecret("DATABASE_DSN")
	readSecret("JWT_SECRET")
	readSecret("GEMINI_API_KEY")
	readSecret("ZAI_API_KEY")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.AutomaticEnv()

	_ = v.BindEnv("server.port", "SERVER_PORT")
	_ = v.BindEnv("server.env", "SERVER_ENV")
	_ = v.BindEnv("server.log_level", "LOG_LEVEL")
	_ = v.BindEnv("database.driver", "DATABASE_DRIVER")
	_ = v.BindEnv("database.dsn", "DATABASE_DSN")
	_ = v.BindEnv("database.max_open_conns", "DATABASE_MAX_OPEN_CONNS")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.db", "REDIS_DB")
	_ = v.BindEnv("jwt.secret", "JWT_SECRET")
	_ = v.BindEnv("jwt.expiration", "JWT_EXPIRATION")
	_ = v.BindEnv("ratelimit.jobs_per_hour", "RATELIMIT_JOBS_PER_HOUR")
	_ = v.BindEnv("provider.default", "AI_PROVIDER_DEFAULT")
	_ = v.BindEnv("provider.timeout", "AI_PROVIDER_TIMEOUT")
	_ = v.BindEnv("provider.max_concurrency", "AI_PROVIDER_MAX_CONCURRENCY")
	_ = v.BindEnv("provider.breaker.max_requests", "AI_BREAKER_MAX_REQUESTS")
	_ = v.BindEnv("provider.breaker.interval", "AI_BREAKER_INTERVAL")
	_ = v.BindEnv("provider.breaker.timeout", "AI_BREAKER_TIMEOUT")
	_ = v.BindEnv("provider.breaker.consecutive_fails", "AI_BREAKER_CONSECUTIVE_FAILS")
	_ = v.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	_ = v.BindEnv("gemini.base_url", "GEMINI_BASE_URL")
	_ = v.BindEnv("gemini.model", "GEMINI_MODEL")
	_ = v.BindEnv("zai.api_key", "ZAI_API_KEY")
	_ = v.BindEnv("zai.base_url", "ZAI_BASE_URL")
	_ = v.BindEnv("zai.model", "ZAI_MODEL")
	_ = v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	_ = v.BindEnv("tracing.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")
	_ = v.BindEnv("tracing.sampling_rate", "TRACING_SAMPLING_RATE")

	// Defaults
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/artikelin.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.expiration", 24)
	v.SetDefault("ratelimit.jobs_per_hour", 60)

	// Generation defaults: one attempt per job, no retries
	v.SetDefault("provider.default", "gemini")
	v.SetDefault("provider.timeout", "120s")
	v.SetDefault("provider.max_concurrency", 0)
	v.SetDefault("provider.breaker.max_requests", 1)
	v.SetDefault("provider.breaker.interval", "60s")
	v.SetDefault("provider.breaker.timeout", "30s")
	v.SetDefault("provider.breaker.consecutive_fails", 5)

	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta/openai/")
	v.SetDefault("gemini.model", "gemini-flash-latest")
	v.SetDefault("gemini.temperature", 0.7)
	v.SetDefault("gemini.json_mode", false)

	v.SetDefault("zai.base_url", "https://api.z.ai/api/coding/paas/v4/")
	v.SetDefault("zai.model", "glm-4.7")
	v.SetDefault("zai.temperature", 0.5)
	v.SetDefault("zai.json_mode", true)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4317")
	v.SetDefault("tracing.sampling_rate", 1.0)

	// Try to read config file (optional)
	_ = v.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port:     v.GetString("server.port"),
			Env:      v.GetString("server.env"),
			LogLevel: v.GetString("server.log_level"),
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(v.GetString("database.driver")),
			DSN:          v.GetString("database.dsn"),
			MaxOpenConns: v.GetInt("database.max_open_conns"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("jwt.secret"),
			Expiration: v.GetInt("jwt.expiration"),
		},
		RateLimit: RateLimitConfig{
			JobsPerHour: v.GetInt("ratelimit.jobs_per_hour"),
		},
		Provider: ProviderConfig{
			Default:        strings.ToLower(v.GetString("provider.default")),
			Timeout:        v.GetDuration("provider.timeout"),
			MaxConcurrency: v.GetInt64("provider.max_concurrency"),
			Breaker: BreakerConfig{
				MaxRequests:      v.GetUint32("provider.breaker.max_requests"),
				Interval:         v.GetDuration("provider.breaker.interval"),
				Timeout:          v.GetDuration("provider.breaker.timeout"),
				ConsecutiveFails: v.GetUint32("provider.breaker.consecutive_fails"),
			},
		},
		Gemini: LLMConfig{
			APIKey:      v.GetString("gemini.api_key"),
			BaseURL:     v.GetString("gemini.base_url"),
			Model:       v.GetString("gemini.model"),
			Temperature: v.GetFloat64("gemini.temperature"),
			JSONMode:    v.GetBool("gemini.json_mode"),
		},
		Zai: LLMConfig{
			APIKey:      v.GetString("zai.api_key"),
			BaseURL:     v.GetString("zai.base_url"),
			Model:       v.GetString("zai.model"),
			Temperature: v.GetFloat64("zai.temperature"),
			JSONMode:    v.GetBool("zai.json_mode"),
		},
		Tracing: TracingConfig{
			Enabled:      v.GetBool("tracing.enabled"),
			Endpoint:     v.GetString("tracing.endpoint"),
			SamplingRate: v.GetFloat64("tracing.sampling_rate"),
		},
	}

	return cfg, nil
}
