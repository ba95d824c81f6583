package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "PDF2CLAIMS"

// Config is the full runtime configuration. Precedence, lowest first:
// defaults, YAML file, .env, environment, flags.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	LLM     LLMConfig     `mapstructure:"llm" yaml:"llm"`
	Extract ExtractConfig `mapstructure:"extract" yaml:"extract"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host" yaml:"host"`
	Port        string `mapstructure:"port" yaml:"port"`
	BodyLimitMB int    `mapstructure:"body_limit_mb" yaml:"body_limit_mb"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

type LLMConfig struct {
	Provider          string        `mapstructure:"provider" yaml:"provider"`
	Model             string        `mapstructure:"model" yaml:"model"`
	APIKey            string        `mapstructure:"api_key" yaml:"api_key"`
	BaseURL           string        `mapstructure:"base_url" yaml:"base_url"`
	Temperature       float32       `mapstructure:"temperature" yaml:"temperature"`
	Timeout           time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
	RepairJSON        bool          `mapstructure:"repair_json" yaml:"repair_json"`
	ValidateSchema    bool          `mapstructure:"validate_schema" yaml:"validate_schema"`
}

type ExtractConfig struct {
	DefaultMode string `mapstructure:"default_mode" yaml:"default_mode"`
	PDFEngine   string `mapstructure:"pdf_engine" yaml:"pdf_engine"`
}

// ErrMissingAPIKey is returned by Validate when no credential is configured
// for the selected provider.
var ErrMissingAPIKey = errors.New("missing LLM API key")

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", ":8000")
	v.SetDefault("server.body_limit_mb", 20)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.file", "")
	v.SetDefault("logger.max_size_mb", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age_days", 14)
	v.SetDefault("logger.compress", true)

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.timeout", 2*time.Minute)
	v.SetDefault("llm.requests_per_minute", 0)
	v.SetDefault("llm.repair_json", false)
	v.SetDefault("llm.validate_schema", false)

	v.SetDefault("extract.default_mode", "claims")
	v.SetDefault("extract.pdf_engine", "rsc")
}

// New returns a viper instance with defaults and environment binding set up
// but no file read yet. Callers may bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads .env, the optional YAML file at path (or CONFIG_PATH, or
// ./pdf2claims.yaml when present) and the environment into a Config.
func Load(v *viper.Viper, path string) (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	if v == nil {
		v = New()
	}
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("pdf2claims")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = apiKeyFromEnv(cfg.LLM.Provider)
	}
	return cfg, nil
}

func apiKeyFromEnv(provider string) string {
	var names []string
	switch provider {
	case "openai":
		names = []string{"OPENAI_API_KEY"}
	default:
		names = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}
	}
	for _, n := range names {
		if v := strings.TrimSpace(os.Getenv(n)); v != "" {
			return v
		}
	}
	return ""
}

// Validate reports configuration that would prevent the service from
// serving requests.
func (c Config) Validate() error {
	switch c.LLM.Provider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unsupported llm.provider %q (want gemini|openai)", c.LLM.Provider)
	}
	switch c.Extract.DefaultMode {
	case "claims", "application":
	default:
		return fmt.Errorf("unsupported extract.default_mode %q (want claims|application)", c.Extract.DefaultMode)
	}
	switch c.Extract.PDFEngine {
	case "rsc", "ledongthuc":
	default:
		return fmt.Errorf("unsupported extract.pdf_engine %q (want rsc|ledongthuc)", c.Extract.PDFEngine)
	}
	if c.Server.Port == "" {
		return errors.New("server.port must not be empty")
	}
	if c.Server.BodyLimitMB <= 0 {
		return errors.New("server.body_limit_mb must be positive")
	}
	if c.LLM.RequestsPerMinute < 0 {
		return errors.New("llm.requests_per_minute must not be negative")
	}
	// Must stay last: newConverter tolerates ErrMissingAPIKey alone when no model is needed.
	if c.LLM.APIKey == "" {
		return fmt.Errorf("%w for provider %s", ErrMissingAPIKey, c.LLM.Provider)
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.LLM.APIKey != "" {
		c.LLM.APIKey = "********"
	}
	return c
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return c.Server.Host + c.Server.Port
}
