package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Veraticus/khru/internal/common"
)

// EnvPrefix is prepended to every environment override, e.g. KHRU_DATABASE_PATH.
const EnvPrefix = "KHRU"

// DefaultDatabasePath is used when database.path is unset.
const DefaultDatabasePath = "$HOME/.local/share/khru/khru.db"

// Config is the typed view of the application settings.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Auth     AuthConfig     `mapstructure:"auth"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Scores   ScoresConfig   `mapstructure:"scores"`
}

// DatabaseConfig locates the SQLite file.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// LoggingConfig configures slog.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

// AuthConfig holds the shared edit passphrase. A bcrypt hash takes
// precedence over the plain value.
type AuthConfig struct {
	Passphrase     string `mapstructure:"passphrase"`
	PassphraseHash string `mapstructure:"passphrase_hash"`
}

// ScoresConfig holds the max-score policy.
type ScoresConfig struct {
	TermTotal        float64 `mapstructure:"term_total" validate:"gt=0"`
	DefaultClasswork float64 `mapstructure:"default_classwork" validate:"gte=0"`
	DefaultExam      float64 `mapstructure:"default_exam" validate:"gte=0"`
}

// LLMConfig selects and tunes the AI provider.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider" validate:"omitempty,oneof=gemini anthropic openai"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	BaseURL     string        `mapstructure:"base_url" validate:"omitempty,url"`
	Temperature float64       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int           `mapstructure:"max_tokens" validate:"gte=0"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl" validate:"gte=0"`
	RateLimit   int           `mapstructure:"rate_limit" validate:"gte=0"`
}

// Enabled reports whether an AI provider is configured.
func (c LLMConfig) Enabled() bool {
	return c.Provider != "" && c.APIKey != ""
}

// Configure wires environment overrides and defaults into v.
func Configure(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	// Keys without defaults are invisible to Unmarshal unless bound.
	for _, key := range []string{"auth.passphrase", "auth.passphrase_hash", "llm.api_key", "llm.model", "llm.base_url"} {
		_ = v.BindEnv(key)
	}
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("scores.term_total", 50.0)
	v.SetDefault("scores.default_classwork", 30.0)
	v.SetDefault("scores.default_exam", 20.0)
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("llm.cache_ttl", 24*time.Hour)
	v.SetDefault("llm.rate_limit", 60)
}

// providerKeyEnv names the conventional API key variable per provider.
var providerKeyEnv = map[string]string{
	"gemini":    "GEMINI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"openai":    "OPENAI_API_KEY",
}

// LoadDotEnv loads the given .env files into the process environment.
// Missing files are ignored; existing variables are never overwritten.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(ExpandPath(f)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	cfg.Database.Path = ExpandPath(cfg.Database.Path)
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if cfg.LLM.APIKey == "" {
		if env, ok := providerKeyEnv[cfg.LLM.Provider]; ok {
			cfg.LLM.APIKey = os.Getenv(env)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field ranges and the max-score policy.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed %q (got %v)", common.ErrInvalidConfig, fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	s := c.Scores
	if s.DefaultClasswork+s.DefaultExam != s.TermTotal {
		return fmt.Errorf("%w: default maxima %g+%g must equal term total %g",
			common.ErrInvalidConfig, s.DefaultClasswork, s.DefaultExam, s.TermTotal)
	}
	return nil
}
