package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log       Log       `yaml:"log"`
	Server    Server    `yaml:"server"`
	Groq      Groq      `yaml:"groq"`
	Retrieval Retrieval `yaml:"retrieval"`
	Session   Session   `yaml:"session"`
	MCP       MCP       `yaml:"mcp"`
}

type Server struct {
	// Address to bind the HTTP server to
	Addr string `yaml:"addr" example:":8080"`
}

type Groq struct {
	// OpenAI-compatible base url
	BaseURL string `yaml:"base_url" example:"https://api.groq.com/openai/v1" validate:"required"`
	// API token
	Token string `yaml:"token" example:"gsk_abc123456789DEF789ghi012JKL345mno678PQR901stu" validate:"required"`
	// Chat completion model
	Model string `yaml:"model" example:"llama-3.1-8b-instant" validate:"required"`
}

type Retrieval struct {
	// Retrieval strategy: "embedding" or "keyword"
	Strategy string `yaml:"strategy" example:"embedding" validate:"oneof=embedding keyword"`
	// Embedding model, used when strategy is "embedding"
	EmbeddingModel string `yaml:"embedding_model" example:"text-embedding-3-small"`
	// OpenAI-compatible base url for the embedding endpoint, defaults to groq.base_url
	EmbeddingBaseURL string `yaml:"embedding_base_url"`
	// Token for the embedding endpoint, defaults to groq.token
	EmbeddingToken string `yaml:"embedding_token"`
}

type Session struct {
	// Sessions inactive for longer than this are removed by the sweep loop
	MaxAgeHours int `yaml:"max_age_hours" example:"24"`
	// How often the sweep loop runs
	SweepIntervalMinutes int `yaml:"sweep_interval_minutes" example:"60"`
}

type MCP struct {
	// Expose faq_search and linkify tools over stdio
	Enabled bool `yaml:"enabled" example:"false"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func Load() (*Config, error) {
	var result Config

	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	if result.Server.Addr == "" {
		result.Server.Addr = ":8080"
	}
	if result.Retrieval.Strategy == "" {
		result.Retrieval.Strategy = "embedding"
	}
	if result.Retrieval.EmbeddingModel == "" {
		result.Retrieval.EmbeddingModel = "text-embedding-3-small"
	}
	if result.Retrieval.EmbeddingBaseURL == "" {
		result.Retrieval.EmbeddingBaseURL = result.Groq.BaseURL
	}
	if result.Retrieval.EmbeddingToken == "" {
		result.Retrieval.EmbeddingToken = result.Groq.Token
	}
	if result.Session.MaxAgeHours <= 0 {
		result.Session.MaxAgeHours = 24
	}
	if result.Session.SweepIntervalMinutes <= 0 {
		result.Session.SweepIntervalMinutes = 60
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}
