package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Cors struct {
		AllowOrigins []string `yaml:"allowOrigins"`
	} `yaml:"cors"`

	Database struct {
		Driver string `yaml:"driver"` // "mongo" or "memory"
		URI    string `yaml:"uri"`
	} `yaml:"database"`

	LLM struct {
		Provider string `yaml:"provider"` // "gemini" or "openai"

		Gemini struct {
			ApiKey string `yaml:"apiKey"`
			Model  string `yaml:"model"`
		} `yaml:"gemini"`

		Openai struct {
			ApiKey  string `yaml:"apiKey"`
			BaseURL string `yaml:"baseUrl"`
			Model   string `yaml:"model"`
		} `yaml:"openai"`
	} `yaml:"llm"`

	Generation struct {
		MaxAttempts           int     `yaml:"maxAttempts"`
		InitialBackoffSeconds float64 `yaml:"initialBackoffSeconds"`
		TimeoutSeconds        int     `yaml:"timeoutSeconds"`
		HistoryWindow         int     `yaml:"historyWindow"` // turns of context kept in prompts
		Temperature           float32 `yaml:"temperature"`
		MaxWords              int     `yaml:"maxWords"`
	} `yaml:"generation"`

	Validation struct {
		MinChars            int      `yaml:"minChars"`
		MaxChars            int      `yaml:"maxChars"`
		SimilarityThreshold float64  `yaml:"similarityThreshold"`
		BannedTerms         []string `yaml:"bannedTerms"`
		DisabledRules       []string `yaml:"disabledRules"` // length, repetition, banned, topic
	} `yaml:"validation"`

	Consistency struct {
		Mode string `yaml:"mode"` // "heuristic" or "llm"
	} `yaml:"consistency"`

	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"ratelimit"`

	MaxMessageLength int `yaml:"maxMessageLength"`
}

// LoadConfig reads the configuration file and applies defaults for any
// tuning constants the file leaves unset.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "mongo"
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "gemini"
	}
	if cfg.LLM.Gemini.Model == "" {
		cfg.LLM.Gemini.Model = "gemini-1.5-flash"
	}
	if cfg.LLM.Openai.BaseURL == "" {
		cfg.LLM.Openai.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.LLM.Openai.Model == "" {
		cfg.LLM.Openai.Model = "gpt-4o"
	}
	if cfg.Generation.MaxAttempts == 0 {
		cfg.Generation.MaxAttempts = 3
	}
	if cfg.Generation.InitialBackoffSeconds == 0 {
		cfg.Generation.InitialBackoffSeconds = 1
	}
	if cfg.Generation.TimeoutSeconds == 0 {
		cfg.Generation.TimeoutSeconds = 25
	}
	if cfg.Generation.HistoryWindow == 0 {
		cfg.Generation.HistoryWindow = 10
	}
	if cfg.Generation.Temperature == 0 {
		cfg.Generation.Temperature = 0.8
	}
	if cfg.Generation.MaxWords == 0 {
		cfg.Generation.MaxWords = 200
	}
	if cfg.Validation.MinChars == 0 {
		cfg.Validation.MinChars = 10
	}
	if cfg.Validation.MaxChars == 0 {
		cfg.Validation.MaxChars = 3000
	}
	if cfg.Validation.SimilarityThreshold == 0 {
		cfg.Validation.SimilarityThreshold = 0.9
	}
	if cfg.Consistency.Mode == "" {
		cfg.Consistency.Mode = "heuristic"
	}
	if cfg.RateLimit.RPS == 0 {
		cfg.RateLimit.RPS = 100.0 / 60.0
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 20
	}
	if cfg.MaxMessageLength == 0 {
		cfg.MaxMessageLength = 5000
	}
}
