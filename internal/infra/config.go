package infra

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/samber/lo"
)

const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderSynthetic = "synthetic"
	ProviderStatic    = "static"

	GuardNone     = "none"
	GuardMemory   = "memory"
	GuardRedis    = "redis"
	GuardPostgres = "postgres"
)

// MinPromptMaxLength leaves room for the title and reference clauses.
const MinPromptMaxLength = 1000

var (
	imageProviders = []string{ProviderOpenAI, ProviderGemini, ProviderSynthetic}
	textProviders  = []string{ProviderOpenAI, ProviderGemini, ProviderStatic}
	guardStores    = []string{GuardNone, GuardMemory, GuardRedis, GuardPostgres}
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv                  string `env:"APP_ENV" envDefault:"development"`
	Port                    string `env:"PORT" envDefault:"8080"`
	HTTPReadTimeoutSeconds  int    `env:"HTTP_READ_TIMEOUT_SECONDS" envDefault:"15"`
	HTTPWriteTimeoutSeconds int    `env:"HTTP_WRITE_TIMEOUT_SECONDS" envDefault:"120"`
	HTTPIdleTimeoutSeconds  int    `env:"HTTP_IDLE_TIMEOUT_SECONDS" envDefault:"60"`

	ImageProvider string `env:"IMAGE_PROVIDER" envDefault:"openai"`
	TextProvider  string `env:"TEXT_PROVIDER" envDefault:"openai"`

	OpenAIAPIKey        string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL       string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	OpenAIOrg           string `env:"OPENAI_ORG"`
	OpenAIImageModel    string `env:"OPENAI_IMAGE_MODEL" envDefault:"dall-e-3"`
	OpenAITextModel     string `env:"OPENAI_TEXT_MODEL" envDefault:"gpt-4o-mini"`
	ImageSize           string `env:"IMAGE_SIZE" envDefault:"1024x1024"`
	ImageResponseFormat string `env:"IMAGE_RESPONSE_FORMAT" envDefault:"b64_json"`

	GeminiAPIKey     string `env:"GEMINI_API_KEY"`
	GeminiBaseURL    string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`
	GeminiImageModel string `env:"GEMINI_IMAGE_MODEL" envDefault:"gemini-2.5-flash-image"`
	GeminiTextModel  string `env:"GEMINI_TEXT_MODEL" envDefault:"gemini-2.5-flash"`

	ProviderTimeoutSeconds int    `env:"PROVIDER_TIMEOUT_SECONDS" envDefault:"30"`
	StrategyFormat         string `env:"STRATEGY_FORMAT" envDefault:"json"`
	PromptMaxLength        int    `env:"PROMPT_MAX_LENGTH" envDefault:"4000"`

	PlaceholderDir  string `env:"PLACEHOLDER_DIR" envDefault:"static"`
	PlaceholderFile string `env:"PLACEHOLDER_FILE" envDefault:"placeholder.png"`

	DuplicateGuard           string `env:"DUPLICATE_GUARD" envDefault:"memory"`
	DuplicateGuardTTLSeconds int    `env:"DUPLICATE_GUARD_TTL_SECONDS" envDefault:"0"`
	RedisAddr                string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisUsername            string `env:"REDIS_USERNAME"`
	RedisPassword            string `env:"REDIS_PASSWORD"`
	RedisUseTLS              bool   `env:"REDIS_USE_TLS" envDefault:"false"`
	DatabaseURL              string `env:"DATABASE_URL"`

	GeoIPDBPath        string   `env:"GEOIP_DB_PATH"`
	DefaultLocale      string   `env:"DEFAULT_LOCALE" envDefault:"en"`
	SupportedLocales   []string `env:"SUPPORTED_LOCALES" envSeparator:"," envDefault:"en,es,id"`
	RateLimitPerMin    int      `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`
	TrustProxyHeaders  bool     `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	MaxUploadMB        int      `env:"MAX_UPLOAD_MB" envDefault:"10"`
}

// LoadConfig loads configuration from environment variables, applies defaults
// and validates cross-field requirements.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.ImageProvider = strings.ToLower(strings.TrimSpace(c.ImageProvider))
	c.TextProvider = strings.ToLower(strings.TrimSpace(c.TextProvider))
	c.DuplicateGuard = strings.ToLower(strings.TrimSpace(c.DuplicateGuard))
	c.StrategyFormat = strings.ToLower(strings.TrimSpace(c.StrategyFormat))
	c.SupportedLocales = trimList(c.SupportedLocales)
	c.CORSAllowedOrigins = trimList(c.CORSAllowedOrigins)
	if c.DefaultLocale = strings.TrimSpace(c.DefaultLocale); c.DefaultLocale == "" {
		c.DefaultLocale = "en"
	}
	if !lo.Contains(c.SupportedLocales, c.DefaultLocale) {
		c.SupportedLocales = append([]string{c.DefaultLocale}, c.SupportedLocales...)
	}
}

// Validate checks enumerations and the credentials each selection needs.
func (c *Config) Validate() error {
	if !lo.Contains(imageProviders, c.ImageProvider) {
		return fmt.Errorf("IMAGE_PROVIDER must be one of %s", strings.Join(imageProviders, ", "))
	}
	if !lo.Contains(textProviders, c.TextProvider) {
		return fmt.Errorf("TEXT_PROVIDER must be one of %s", strings.Join(textProviders, ", "))
	}
	if !lo.Contains(guardStores, c.DuplicateGuard) {
		return fmt.Errorf("DUPLICATE_GUARD must be one of %s", strings.Join(guardStores, ", "))
	}
	if c.StrategyFormat != "json" && c.StrategyFormat != "text" {
		return fmt.Errorf("STRATEGY_FORMAT must be json or text")
	}
	if (c.ImageProvider == ProviderOpenAI || c.TextProvider == ProviderOpenAI) && c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if (c.ImageProvider == ProviderGemini || c.TextProvider == ProviderGemini) && c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.DuplicateGuard == GuardPostgres && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DuplicateGuard == GuardRedis && c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}
	if c.ImageResponseFormat != "b64_json" && c.ImageResponseFormat != "url" {
		return fmt.Errorf("IMAGE_RESPONSE_FORMAT must be b64_json or url")
	}
	if c.PromptMaxLength > 0 && c.PromptMaxLength < MinPromptMaxLength {
		return fmt.Errorf("PROMPT_MAX_LENGTH must be at least %d, or 0 to disable", MinPromptMaxLength)
	}
	if c.ProviderTimeoutSeconds <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

func (c *Config) HTTPReadTimeout() time.Duration {
	return time.Duration(c.HTTPReadTimeoutSeconds) * time.Second
}

func (c *Config) HTTPWriteTimeout() time.Duration {
	return time.Duration(c.HTTPWriteTimeoutSeconds) * time.Second
}

func (c *Config) HTTPIdleTimeout() time.Duration {
	return time.Duration(c.HTTPIdleTimeoutSeconds) * time.Second
}

func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.ProviderTimeoutSeconds) * time.Second
}

// DuplicateGuardTTL is zero when remembered titles never expire.
func (c *Config) DuplicateGuardTTL() time.Duration {
	if c.DuplicateGuardTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.DuplicateGuardTTLSeconds) * time.Second
}

func (c *Config) MaxUploadBytes() int64 {
	if c.MaxUploadMB <= 0 {
		return 10 << 20
	}
	return int64(c.MaxUploadMB) << 20
}

func trimList(items []string) []string {
	return lo.Compact(lo.Map(items, func(item string, _ int) string {
		return strings.TrimSpace(item)
	}))
}
