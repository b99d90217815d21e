package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// ErrMissingAPIKey is returned when the model backend has no credentials
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

// Config holds the application settings
type Config struct {
	Port             string        `yaml:"port"`
	RecordsPath      string        `yaml:"records_path"`
	RecordSource     string        `yaml:"record_source"`
	DatabaseURL      string        `yaml:"database_url"`
	ProcedureType    string        `yaml:"procedure_type"`
	SampleSize       int           `yaml:"sample_size"`
	DocumentCategory string        `yaml:"document_category"`
	OpenAIAPIKey     string        `yaml:"openai_api_key"`
	OpenAIModel      string        `yaml:"openai_model"`
	OpenAIBaseURL    string        `yaml:"openai_base_url"`
	TextBudget       int           `yaml:"text_budget"`
	FetchTimeout     time.Duration `yaml:"fetch_timeout"`
	ModelTimeout     time.Duration `yaml:"model_timeout"`
	MaxDocumentBytes int64         `yaml:"max_document_bytes"`
	LogLevel         string        `yaml:"log_level"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Port:             "3000",
		RecordsPath:      "data/ep_dossiers.json",
		RecordSource:     SourceFile,
		ProcedureType:    "COD - Ordinary legislative procedure (ex-codecision procedure)",
		SampleSize:       100,
		DocumentCategory: "Legislative proposal",
		OpenAIModel:      "gpt-4o-mini",
		TextBudget:       3000,
		FetchTimeout:     30 * time.Second,
		ModelTimeout:     60 * time.Second,
		MaxDocumentBytes: 50 << 20,
		LogLevel:         "info",
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, a .env file and finally the process environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	LoadDotEnv(".env")

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads variables from a .env file. ENV_PATH overrides
// defaultPath. A missing file is not an error.
func LoadDotEnv(defaultPath string) {
	envPath := os.Getenv("ENV_PATH")
	if envPath == "" {
		envPath = defaultPath
	}

	if err := godotenv.Load(envPath); err != nil {
		slog.Debug("Skipping .env", "path", envPath, "error", err)
	}
}

func (c *Config) loadYAML(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	setString("PORT", &c.Port)
	setString("RECORDS_PATH", &c.RecordsPath)
	setString("RECORD_SOURCE", &c.RecordSource)
	setString("DATABASE_URL", &c.DatabaseURL)
	setString("PROCEDURE_TYPE", &c.ProcedureType)
	setString("DOCUMENT_CATEGORY", &c.DocumentCategory)
	setString("OPENAI_API_KEY", &c.OpenAIAPIKey)
	setString("OPENAI_MODEL", &c.OpenAIModel)
	setString("OPENAI_BASE_URL", &c.OpenAIBaseURL)
	setString("LOG_LEVEL", &c.LogLevel)

	if v := os.Getenv("SAMPLE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SAMPLE_SIZE %q: %w", v, err)
		}
		c.SampleSize = n
	}
	if v := os.Getenv("TEXT_BUDGET"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid TEXT_BUDGET %q: %w", v, err)
		}
		c.TextBudget = n
	}
	if v := os.Getenv("MAX_DOCUMENT_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_DOCUMENT_BYTES %q: %w", v, err)
		}
		c.MaxDocumentBytes = n
	}
	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid FETCH_TIMEOUT %q: %w", v, err)
		}
		c.FetchTimeout = d
	}
	if v := os.Getenv("MODEL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid MODEL_TIMEOUT %q: %w", v, err)
		}
		c.ModelTimeout = d
	}

	return nil
}

// Validate checks settings shared by every command
func (c *Config) Validate() error {
	switch c.RecordSource {
	case SourceFile:
		if c.RecordsPath == "" {
			return fmt.Errorf("records_path is required for the file source")
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database_url is required for the postgres source")
		}
	default:
		return fmt.Errorf("record_source must be %q or %q, got %q", SourceFile, SourcePostgres, c.RecordSource)
	}

	if c.SampleSize <= 0 {
		return fmt.Errorf("sample_size must be positive")
	}
	if c.TextBudget <= 0 {
		return fmt.Errorf("text_budget must be positive")
	}
	if c.FetchTimeout <= 0 || c.ModelTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.MaxDocumentBytes <= 0 {
		return fmt.Errorf("max_document_bytes must be positive")
	}
	return nil
}

// RequireAPIKey fails when no model credentials are configured
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.OpenAIAPIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
