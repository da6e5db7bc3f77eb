// Package config loads service settings from the environment, with an
// optional .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/BerylCAtieno/sellboost-agent/internal/llm"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	Port     string
	AppEnv   string
	LogLevel string
	// LogPretty switches to the human-readable console writer.
	LogPretty bool

	GeminiAPIKey        string
	GeminiModel         string
	AnalysisTemperature float32
	PackTemperature     float32
	MaxOutputTokens     int32
	PackMaxConcurrency  int

	FetchTimeout   time.Duration
	FetchUserAgent string

	HistoryBackend string
	HistoryPath    string
	PlatformsFile  string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("app_env", EnvProduction)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", llm.DefaultModel)
	v.SetDefault("analysis_temperature", 0.3)
	v.SetDefault("pack_temperature", 0.8)
	v.SetDefault("max_output_tokens", 4096)
	v.SetDefault("pack_max_concurrency", 5)
	v.SetDefault("fetch_timeout", "15s")
	v.SetDefault("fetch_user_agent", "")
	v.SetDefault("history_backend", BackendFile)
	v.SetDefault("history_path", "./data/history.json")
	v.SetDefault("platforms_file", "")
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}
	return FromViper(NewViper())
}

// NewViper returns a viper instance with defaults and env binding set up.
// cmd/packctl binds its flags onto the same instance.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	return v
}

func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:                strings.TrimSpace(v.GetString("port")),
		AppEnv:              strings.ToLower(strings.TrimSpace(v.GetString("app_env"))),
		LogLevel:            v.GetString("log_level"),
		LogPretty:           v.GetBool("log_pretty"),
		GeminiAPIKey:        strings.TrimSpace(v.GetString("gemini_api_key")),
		GeminiModel:         strings.TrimSpace(v.GetString("gemini_model")),
		AnalysisTemperature: float32(v.GetFloat64("analysis_temperature")),
		PackTemperature:     float32(v.GetFloat64("pack_temperature")),
		MaxOutputTokens:     v.GetInt32("max_output_tokens"),
		PackMaxConcurrency:  v.GetInt("pack_max_concurrency"),
		FetchTimeout:        v.GetDuration("fetch_timeout"),
		FetchUserAgent:      strings.TrimSpace(v.GetString("fetch_user_agent")),
		HistoryBackend:      strings.ToLower(strings.TrimSpace(v.GetString("history_backend"))),
		HistoryPath:         strings.TrimSpace(v.GetString("history_path")),
		PlatformsFile:       strings.TrimSpace(v.GetString("platforms_file")),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

// Validate checks ranges. The API key is checked by the server, since the
// CLI does not need one.
func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if c.AnalysisTemperature < 0 || c.AnalysisTemperature > 2 {
		errs = append(errs, fmt.Errorf("ANALYSIS_TEMPERATURE %v out of range [0,2]", c.AnalysisTemperature))
	}
	if c.PackTemperature < 0 || c.PackTemperature > 2 {
		errs = append(errs, fmt.Errorf("PACK_TEMPERATURE %v out of range [0,2]", c.PackTemperature))
	}
	if c.MaxOutputTokens <= 0 {
		errs = append(errs, fmt.Errorf("MAX_OUTPUT_TOKENS must be positive, got %d", c.MaxOutputTokens))
	}
	if c.PackMaxConcurrency <= 0 {
		errs = append(errs, fmt.Errorf("PACK_MAX_CONCURRENCY must be positive, got %d", c.PackMaxConcurrency))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout))
	}
	switch c.HistoryBackend {
	case BackendFile, BackendSQLite:
		if c.HistoryPath == "" {
			errs = append(errs, fmt.Errorf("HISTORY_PATH is required for the %s backend", c.HistoryBackend))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("HISTORY_BACKEND %q is not one of file, sqlite, memory", c.HistoryBackend))
	}
	return errors.Join(errs...)
}
