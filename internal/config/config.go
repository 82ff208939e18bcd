package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "JOURNEY_"

type Config struct {
	App      AppConfig      `koanf:"app"`
	HTTP     HTTPConfig     `koanf:"http"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	Auth     AuthConfig     `koanf:"auth"`
	LLM      LLMConfig      `koanf:"llm"`
	Sentry   SentryConfig   `koanf:"sentry"`
}

type AppConfig struct {
	Env string `koanf:"env"`
}

type HTTPConfig struct {
	Port           int           `koanf:"port"`
	AllowedOrigins []string      `koanf:"allowed_origins"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxConns        int32         `koanf:"max_conns"`
	MinConns        int32         `koanf:"min_conns"`
	MaxConnLifetime time.Duration `koanf:"max_conn_lifetime"`
}

type RedisConfig struct {
	Addr     string        `koanf:"addr"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	TTL      time.Duration `koanf:"ttl"`
}

type AuthConfig struct {
	JWTSecret string `koanf:"jwt_secret"`
}

type LLMConfig struct {
	BaseURL   string        `koanf:"base_url"`
	Model     string        `koanf:"model"`
	APIKey    string        `koanf:"api_key"`
	Timeout   time.Duration `koanf:"timeout"`
	RateLimit float64       `koanf:"rate_limit"`
	Burst     int           `koanf:"burst"`
	Retries   int           `koanf:"retries"`
}

type SentryConfig struct {
	DSN string `koanf:"dsn"`
}

// Defaults returns the configuration used when neither the config file nor
// the environment sets a key.
func Defaults() *Config {
	return &Config{
		App: AppConfig{Env: "development"},
		HTTP: HTTPConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:5173"},
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   30 * time.Second,
		},
		Database: DatabaseConfig{
			MaxConns:        25,
			MinConns:        5,
			MaxConnLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{TTL: 10 * time.Minute},
		LLM: LLMConfig{
			BaseURL:   "https://api-inference.huggingface.co",
			Model:     "mistralai/Mistral-7B-Instruct-v0.2",
			Timeout:   60 * time.Second,
			RateLimit: 1,
			Burst:     2,
			Retries:   3,
		},
	}
}

// Load reads .env (if present), the optional YAML file named by
// JOURNEY_CONFIG, then JOURNEY_* environment variables. The hosted-database
// variables used by the original scripts (SUPABASE_DB_URL, SUPABASE_JWT_SECRET,
// HF_API_KEY, PORT) are honoured as fallbacks.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}
	return LoadFrom(os.Getenv(envPrefix + "CONFIG"))
}

// LoadFrom is Load without the .env step, reading YAML from path when set.
func LoadFrom(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// JOURNEY_DATABASE_MAX_CONNS -> database.max_conns
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyFallbacks(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFallbacks(cfg *Config) {
	if cfg.Database.URL == "" {
		cfg.Database.URL = firstEnv("SUPABASE_DB_URL", "DATABASE_URL")
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = firstEnv("SUPABASE_JWT_SECRET", "JWT_SECRET")
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = firstEnv("HF_API_KEY", "HUGGINGFACE_API_KEY")
	}
	if cfg.Sentry.DSN == "" {
		cfg.Sentry.DSN = os.Getenv("SENTRY_DSN")
	}
	if port := os.Getenv("PORT"); port != "" && os.Getenv(envPrefix+"HTTP_PORT") == "" {
		var p int
		if _, err := fmt.Sscanf(port, "%d", &p); err == nil {
			cfg.HTTP.Port = p
		} else {
			slog.Warn("config invalid PORT, using default", "value", port, "default", cfg.HTTP.Port)
		}
	}
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// Validate reports every missing or invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.URL == "" {
		errs = append(errs, errors.New("database.url is required (JOURNEY_DATABASE_URL or SUPABASE_DB_URL)"))
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port %d is out of range", c.HTTP.Port))
	}
	if c.Database.MaxConns < c.Database.MinConns {
		errs = append(errs, errors.New("database.max_conns must be >= database.min_conns"))
	}
	if c.LLM.RateLimit <= 0 {
		errs = append(errs, errors.New("llm.rate_limit must be positive"))
	}
	if c.IsProduction() && c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required in production (SUPABASE_JWT_SECRET)"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
