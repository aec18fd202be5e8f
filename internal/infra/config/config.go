package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	App       AppConfig       `yaml:"app"`
	HTTP      HTTPConfig      `yaml:"http"`
	LLM       LLMConfig       `yaml:"llm"`
	Estimator EstimatorConfig `yaml:"estimator"`
	Pricing   PricingConfig   `yaml:"pricing"`
	RateCards RateCardsConfig `yaml:"rateCards"`
}

// AppConfig describes the service itself.
type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool         `yaml:"enabled"`
	RequestsPerMinute int          `yaml:"requestsPerMinute"`
	Burst             int          `yaml:"burst"`
	Valkey            ValkeyConfig `yaml:"valkey"`
}

// ValkeyConfig points the limiter at a shared Valkey instance.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// LLMConfig contains ChatGPT/OpenAI settings.
type LLMConfig struct {
	APIKey  string        `yaml:"apiKey"`
	BaseURL string        `yaml:"baseUrl"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// EstimatorConfig tunes the two analysis modes.
type EstimatorConfig struct {
	SinglePrompt      string  `yaml:"singlePrompt"`
	MultiPrompt       string  `yaml:"multiPrompt"`
	SingleTemperature float32 `yaml:"singleTemperature"`
	MultiTemperature  float32 `yaml:"multiTemperature"`
	SingleMaxTokens   int     `yaml:"singleMaxTokens"`
	MultiMaxTokens    int     `yaml:"multiMaxTokens"`
}

// PricingConfig holds the house rates.
type PricingConfig struct {
	BaseHourlyRate  float64 `yaml:"baseHourlyRate"`
	CalloutFee      float64 `yaml:"calloutFee"`
	MinimumCharge   float64 `yaml:"minimumCharge"`
	EmergencyUplift float64 `yaml:"emergencyUplift"`
	Currency        string  `yaml:"currency"`
}

// RateCardsConfig selects and tunes the worker rate-card source.
type RateCardsConfig struct {
	Source      string         `yaml:"source"`
	APIURL      string         `yaml:"apiUrl"`
	Timeout     time.Duration  `yaml:"timeout"`
	Concurrency int            `yaml:"concurrency"`
	Postgres    PostgresConfig `yaml:"postgres"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// Rate-card source names.
const (
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

// Load reads .env, the YAML file and environment variables, in that order of precedence from lowest.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadDotEnv populates unset variables from ENV_FILE or ./.env when present.
func loadDotEnv() error {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("APP_NAME"); v != "" {
		cfg.App.Name = v
	}
	if v := os.Getenv("APP_VERSION"); v != "" {
		cfg.App.Version = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.HTTP.Address = ":" + v
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	setInt(&cfg.HTTP.RateLimit.RequestsPerMinute, "HTTP_RATE_LIMIT_RPM")
	setInt(&cfg.HTTP.RateLimit.Burst, "HTTP_RATE_LIMIT_BURST")
	if v := os.Getenv("HTTP_RATE_LIMIT_VALKEY_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_VALKEY_ADDR"); v != "" {
		cfg.HTTP.RateLimit.Valkey.Addr = v
	}

	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	setDuration(&cfg.LLM.Timeout, "LLM_TIMEOUT")

	setFloat(&cfg.Pricing.BaseHourlyRate, "PRICING_BASE_HOURLY_RATE")
	setFloat(&cfg.Pricing.CalloutFee, "PRICING_CALLOUT_FEE")
	setFloat(&cfg.Pricing.MinimumCharge, "PRICING_MINIMUM_CHARGE")
	setFloat(&cfg.Pricing.EmergencyUplift, "PRICING_EMERGENCY_UPLIFT")

	if v := os.Getenv("RATE_CARDS_SOURCE"); v != "" {
		cfg.RateCards.Source = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("PRICING_API_URL"); v != "" {
		cfg.RateCards.APIURL = v
	}
	if v := os.Getenv("RATE_CARDS_API_URL"); v != "" {
		cfg.RateCards.APIURL = v
	}
	setDuration(&cfg.RateCards.Timeout, "RATE_CARDS_TIMEOUT")
	setInt(&cfg.RateCards.Concurrency, "RATE_CARDS_CONCURRENCY")
	if v := os.Getenv("RATE_CARDS_POSTGRES_DSN"); v != "" {
		cfg.RateCards.Postgres.DSN = v
	}
	if v := os.Getenv("RATE_CARDS_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.RateCards.Postgres.MaxConns = int32(parsed)
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "WireQuote AI Backend",
			Version: "1.0.0",
		},
		HTTP: HTTPConfig{
			Address:      ":8000",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 45 * time.Second,
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost:5173",
				"http://localhost:8080",
			},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 30,
				Burst:             10,
				Valkey: ValkeyConfig{
					Prefix: "wirequote",
				},
			},
		},
		LLM: LLMConfig{
			Model:   "gpt-4o-mini",
			Timeout: 20 * time.Second,
		},
		Estimator: EstimatorConfig{
			SingleTemperature: 0.3,
			MultiTemperature:  0.4,
			SingleMaxTokens:   500,
			MultiMaxTokens:    1500,
		},
		Pricing: PricingConfig{
			BaseHourlyRate:  100,
			CalloutFee:      65,
			MinimumCharge:   65,
			EmergencyUplift: 0.5,
			Currency:        "GBP",
		},
		RateCards: RateCardsConfig{
			Source:      SourceHTTP,
			Timeout:     10 * time.Second,
			Concurrency: 8,
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
		if c.HTTP.RateLimit.Valkey.Enabled && strings.TrimSpace(c.HTTP.RateLimit.Valkey.Addr) == "" {
			return errors.New("http.rateLimit.valkey.addr cannot be empty when valkey is enabled")
		}
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.Timeout <= 0 {
		return errors.New("llm.timeout must be positive")
	}
	if c.Estimator.SingleMaxTokens <= 0 || c.Estimator.MultiMaxTokens <= 0 {
		return errors.New("estimator max tokens must be positive")
	}
	if c.Pricing.BaseHourlyRate < 0 || c.Pricing.CalloutFee < 0 || c.Pricing.MinimumCharge < 0 {
		return errors.New("pricing rates cannot be negative")
	}
	if c.Pricing.EmergencyUplift < 0 || c.Pricing.EmergencyUplift > 1 {
		return errors.New("pricing.emergencyUplift must be a fraction between 0 and 1")
	}
	if c.Pricing.Currency != "GBP" {
		return fmt.Errorf("pricing.currency %q is not supported, only GBP", c.Pricing.Currency)
	}
	switch c.RateCards.Source {
	case SourceHTTP, SourcePostgres:
	default:
		return fmt.Errorf("rateCards.source %q is not one of http, postgres", c.RateCards.Source)
	}
	if c.RateCards.Timeout <= 0 {
		return errors.New("rateCards.timeout must be positive")
	}
	if c.RateCards.Concurrency <= 0 {
		return errors.New("rateCards.concurrency must be positive")
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = parsed
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}
