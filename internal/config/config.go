package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	defaultBasePath       = "."
	defaultDotenvFile     = ".env"
	defaultPort           = "8080"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
	defaultLogLevel       = "info"
	defaultLogFormat      = "json"

	// EnvPrefix prefixes every environment variable read by Load.
	EnvPrefix = "WPENV_"
)

var logFormats = []string{"json", "console"}

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	BasePath             string        `yaml:"base_path"`
	DotenvFiles          []string      `yaml:"dotenv_files"`
	Port                 string        `yaml:"port"`
	ShutdownGracePeriod  time.Duration `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    time.Duration `yaml:"read_header_timeout"`
	WriteTimeout         time.Duration `yaml:"write_timeout"`
	IdleTimeout          time.Duration `yaml:"idle_timeout"`
	LogLevel             string        `yaml:"log_level"`
	LogFormat            string        `yaml:"log_format"`
	EnableRequestLogging bool          `yaml:"-"`
	RateLimitRPS         float64       `yaml:"-"`
	RateLimitBurst       int           `yaml:"-"`
}

// fileConfig represents the YAML configuration file structure. Fields that
// need to distinguish "unset" from their zero value are pointers.
type fileConfig struct {
	Config               `yaml:",inline"`
	EnableRequestLogging *bool         `yaml:"enable_request_logging"`
	RateLimit            fileRateLimit `yaml:"rate_limit"`
}

type fileRateLimit struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

// envConfig lists the WPENV_* environment variables.
type envConfig struct {
	BasePath             string   `env:"BASE_PATH"`
	DotenvFiles          []string `env:"DOTENV_FILES" envSeparator:","`
	Port                 string   `env:"PORT"`
	LogLevel             string   `env:"LOG_LEVEL"`
	LogFormat            string   `env:"LOG_FORMAT"`
	EnableRequestLogging *bool    `env:"REQUEST_LOGGING"`
	RateLimitRPS         *float64 `env:"RATE_LIMIT_RPS"`
	RateLimitBurst       *int     `env:"RATE_LIMIT_BURST"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	BasePath       *string
	DotenvFiles    []string
	Port           *string
	LogLevel       *string
	LogFormat      *string
	RateLimitRPS   *float64
	RateLimitBurst *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	if err := applyEnvConfig(&cfg); err != nil {
		return Config{}, err
	}

	if overrides != nil && overrides.ConfigFile != "" {
		fileCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyFileConfig(&cfg, fileCfg); err != nil {
			return Config{}, fmt.Errorf("apply YAML config: %w", err)
		}
	}

	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		BasePath:             defaultBasePath,
		DotenvFiles:          []string{defaultDotenvFile},
		Port:                 defaultPort,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		LogLevel:             defaultLogLevel,
		LogFormat:            defaultLogFormat,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var fileCfg fileConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &fileCfg, nil
}

// applyFileConfig layers every non-zero YAML value over cfg.
func applyFileConfig(cfg *Config, fileCfg *fileConfig) error {
	if err := mergo.Merge(cfg, fileCfg.Config, mergo.WithOverride); err != nil {
		return err
	}

	if fileCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *fileCfg.EnableRequestLogging
	}
	if fileCfg.RateLimit.RPS != nil && *fileCfg.RateLimit.RPS >= 0 {
		cfg.RateLimitRPS = *fileCfg.RateLimit.RPS
	}
	if fileCfg.RateLimit.Burst != nil && *fileCfg.RateLimit.Burst >= 0 {
		cfg.RateLimitBurst = *fileCfg.RateLimit.Burst
	}
	return nil
}

// applyEnvConfig applies WPENV_* environment variables.
func applyEnvConfig(cfg *Config) error {
	var envCfg envConfig
	if err := env.ParseWithOptions(&envCfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	if envCfg.BasePath != "" {
		cfg.BasePath = envCfg.BasePath
	}
	if len(envCfg.DotenvFiles) > 0 {
		cfg.DotenvFiles = envCfg.DotenvFiles
	}
	if envCfg.Port != "" {
		cfg.Port = envCfg.Port
	}
	if envCfg.LogLevel != "" {
		cfg.LogLevel = envCfg.LogLevel
	}
	if envCfg.LogFormat != "" {
		cfg.LogFormat = envCfg.LogFormat
	}
	if envCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *envCfg.EnableRequestLogging
	}
	if envCfg.RateLimitRPS != nil && *envCfg.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *envCfg.RateLimitRPS
	}
	if envCfg.RateLimitBurst != nil && *envCfg.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *envCfg.RateLimitBurst
	}
	return nil
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.BasePath != nil && *overrides.BasePath != "" {
		cfg.BasePath = *overrides.BasePath
	}

	if len(overrides.DotenvFiles) > 0 {
		cfg.DotenvFiles = overrides.DotenvFiles
	}

	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}

	if overrides.LogFormat != nil && *overrides.LogFormat != "" {
		cfg.LogFormat = *overrides.LogFormat
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.BasePath == "" {
		return fmt.Errorf("base path cannot be empty")
	}
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if !slices.Contains(logFormats, cfg.LogFormat) {
		return fmt.Errorf("log format must be one of %v, got %q", logFormats, cfg.LogFormat)
	}
	return nil
}
