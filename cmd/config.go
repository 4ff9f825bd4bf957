package main

import (
	"github.com/caarlos0/env/v10"
)

// Config is the full process configuration, read from the environment at
// startup. Missing required values fail the boot.
type Config struct {
	Port     string `env:"PORT" envDefault:"3000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DatabaseURL   string `env:"DATABASE_URL,required"`
	TaskBrokerURL string `env:"TASK_BROKER_URL" envDefault:"redis://localhost:6379/0"`
	WorkerCount   int    `env:"WORKER_COUNT" envDefault:"4"`

	EmbeddingProvider   string `env:"EMBEDDING_PROVIDER" envDefault:"localhash"`
	EmbeddingModelName  string `env:"EMBEDDING_MODEL_NAME" envDefault:"hashing-v1"`
	EmbeddingDim        int    `env:"EMBEDDING_DIM" envDefault:"384"`
	ProfileDocumentMode string `env:"PROFILE_DOCUMENT_MODE" envDefault:"terse"`

	OpenAIAPIKey string `env:"OPENAI_API_KEY"`

	GigaChatAuthKey  string `env:"GIGACHAT_AUTH_KEY"`
	GigaChatScope    string `env:"GIGACHAT_SCOPE"`
	GigaChatOAuthURL string `env:"GIGACHAT_OAUTH_URL"`
	GigaChatAPIBase  string `env:"GIGACHAT_API_BASE"`

	HHUserAgent         string `env:"HH_USER_AGENT,required"`
	HHBaseURL           string `env:"HH_BASE_URL" envDefault:"https://api.hh.ru"`
	SyncIntervalMinutes int    `env:"SAVED_SEARCH_SYNC_INTERVAL_MINUTES" envDefault:"5"`
}

// LoadConfig parses the environment into a Config.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
