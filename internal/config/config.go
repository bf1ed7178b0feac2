package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Spec         SpecConfig         `yaml:"spec"`
	Environment  Environment        `yaml:"environment"`
	HTTP         HTTPConfig         `yaml:"http"`
	ContextStore ContextStoreConfig `yaml:"context_store"`
	LLM          LLMConfig          `yaml:"llm"`
	Logging      LoggingConfig      `yaml:"logging"`
	Reporting    ReportingConfig    `yaml:"reporting"`
}

// SpecConfig tells the agent where to find the OpenAPI document
type SpecConfig struct {
	File string `yaml:"file"`
	URL  string `yaml:"url"`
}

// Environment holds environment-specific configuration
type Environment struct {
	BaseURL string     `yaml:"base_url"`
	Auth    AuthConfig `yaml:"auth"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	Type  string `yaml:"type"`
	Token string `yaml:"token"`
}

// HTTPConfig holds outbound HTTP client configuration
type HTTPConfig struct {
	Timeout int         `yaml:"timeout"`
	Retry   RetryConfig `yaml:"retry"`
}

// RetryConfig holds retry configuration
type RetryConfig struct {
	Attempts int `yaml:"attempts"`
	Delay    int `yaml:"delay"`
}

// ContextStoreConfig selects and tunes the workflow context store backend
type ContextStoreConfig struct {
	Backend    string         `yaml:"backend"`
	MaxEntries int            `yaml:"max_entries"`
	TTL        int            `yaml:"ttl"`
	Database   DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds connection settings for the SQL-backed context store
type DatabaseConfig struct {
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// LLMConfig holds configuration for the optional LLM sample-value hinter
type LLMConfig struct {
	Enabled     bool    `yaml:"enabled"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Dir string `yaml:"dir"`
}

// ReportingConfig holds workflow report output configuration
type ReportingConfig struct {
	OutputDir string `yaml:"output_dir"`
	Detailed  bool   `yaml:"detailed"`
}

// LoadConfig loads the configuration from the given file, falling back to
// defaults when the file is absent. Environment variables override secrets.
func LoadConfig(configPath string) (*Config, error) {
	var config Config

	if configPath == "" {
		configPath = filepath.Join("config", "config.yaml")
	}

	data, err := os.ReadFile(configPath)
	if err == nil {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %v", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	// Override secrets from environment variables if set
	if token := os.Getenv("AUTH_TOKEN"); token != "" {
		config.Environment.Auth.Token = token
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		config.LLM.APIKey = key
	}

	// Set default values if not specified
	if config.HTTP.Timeout == 0 {
		config.HTTP.Timeout = 30
	}
	if config.HTTP.Retry.Attempts == 0 {
		config.HTTP.Retry.Attempts = 3
	}
	if config.HTTP.Retry.Delay == 0 {
		config.HTTP.Retry.Delay = 1
	}
	if config.ContextStore.Backend == "" {
		config.ContextStore.Backend = "memory"
	}
	if config.ContextStore.MaxEntries == 0 {
		config.ContextStore.MaxEntries = 256
	}
	if config.LLM.Model == "" {
		config.LLM.Model = "gpt-4o-mini"
	}
	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = 256
	}
	if config.Logging.Dir == "" {
		config.Logging.Dir = "logs"
	}
	if config.Reporting.OutputDir == "" {
		config.Reporting.OutputDir = filepath.Join("reports")
	}

	return &config, nil
}
