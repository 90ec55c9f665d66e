package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration. It is loaded once in main
// and passed explicitly into constructors; no component reads ambient
// process state.
type Config struct {
	Data    DataConfig    `mapstructure:"data"`
	Query   QueryConfig   `mapstructure:"query"`
	OpenAI  OpenAIConfig  `mapstructure:"openai"`
	History HistoryConfig `mapstructure:"history"`
	Server  ServerConfig  `mapstructure:"server"`
	Logger  LoggerConfig  `mapstructure:"logger"`
}

// DataConfig locates the invoice dataset.
type DataConfig struct {
	Path string `mapstructure:"path"`
}

// QueryConfig holds query pipeline settings.
type QueryConfig struct {
	MaxListResults int `mapstructure:"max_list_results"`
	DisplayLimit   int `mapstructure:"display_limit"`
}

// OpenAIConfig holds semantic tier settings. An empty api_key disables
// the tier entirely; the deterministic rules then answer alone.
type OpenAIConfig struct {
	APIKey        string        `mapstructure:"api_key"`
	Model         string        `mapstructure:"model"`
	Temperature   float32       `mapstructure:"temperature"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MinConfidence float64       `mapstructure:"min_confidence"`
}

// Enabled reports whether the semantic tier is configured.
func (c OpenAIConfig) Enabled() bool {
	return c.APIKey != ""
}

// HistoryConfig holds the optional query-history recorder settings.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// LoggerConfig holds logger configuration.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from a yaml file and environment variables.
// A missing config file is not an error: defaults plus environment are
// enough to run.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvVars(v)

	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.path", "data/invoices.sample.json")

	v.SetDefault("query.max_list_results", 50)
	v.SetDefault("query.display_limit", 10)

	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.temperature", 0.1)
	v.SetDefault("openai.timeout", 15*time.Second)
	v.SetDefault("openai.min_confidence", 0.5)

	v.SetDefault("history.enabled", false)
	v.SetDefault("history.path", "data/history.db")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stderr")
	v.SetDefault("logger.format", "console")
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("openai.model", "OPENAI_TEXT_MODEL")
	v.BindEnv("data.path", "INVOICES_JSON")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Data.Path == "" {
		return fmt.Errorf("data.path is required")
	}
	if c.Query.MaxListResults <= 0 {
		return fmt.Errorf("query.max_list_results must be positive")
	}
	if c.Query.DisplayLimit <= 0 {
		return fmt.Errorf("query.display_limit must be positive")
	}
	if c.OpenAI.Timeout <= 0 {
		return fmt.Errorf("openai.timeout must be positive")
	}
	if c.OpenAI.MinConfidence < 0 || c.OpenAI.MinConfidence > 1 {
		return fmt.Errorf("openai.min_confidence must be between 0.0 and 1.0")
	}
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid port number")
	}
	return nil
}
