package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port           int      `yaml:"port"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"server"`

	Database struct {
		URI string `yaml:"uri"`
	} `yaml:"database"`

	LLM struct {
		Provider string `yaml:"provider"` // "gemini", "openai" or "mock"
		Model    string `yaml:"model"`
		ApiKey   string `yaml:"apiKey"`
		BaseURL  string `yaml:"baseUrl"`
		// Pointer so an explicit 0 stays distinguishable from an absent key
		Temperature     *float64 `yaml:"temperature"`
		MaxOutputTokens int      `yaml:"maxOutputTokens"`
		TimeoutSeconds  int      `yaml:"timeoutSeconds"`
	} `yaml:"llm"`

	Review struct {
		HistoryLimit int `yaml:"historyLimit"`
	} `yaml:"review"`
}

// LoadConfig reads the configuration file and applies defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"http://localhost:5173"}
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "gemini"
	}
	if cfg.LLM.Temperature == nil {
		temperature := 0.4
		cfg.LLM.Temperature = &temperature
	}
	if cfg.LLM.MaxOutputTokens == 0 {
		cfg.LLM.MaxOutputTokens = 2048
	}
	if cfg.LLM.TimeoutSeconds == 0 {
		cfg.LLM.TimeoutSeconds = 45
	}
	if cfg.Review.HistoryLimit == 0 {
		cfg.Review.HistoryLimit = 10
	}

	return &cfg, nil
}
