package llmHandlers

import (
	"context"
	"fmt"
)

type Provider string

const (
	ProviderOpenAI       Provider = "openai"
	ProviderGroq         Provider = "groq"
	ProviderGemini       Provider = "gemini"
	ProviderVertexClaude Provider = "vertex_anthropic"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

var defaultModels = map[Provider]string{
	ProviderOpenAI:       "gpt-3.5-turbo",
	ProviderGroq:         "llama-3.1-70b-versatile",
	ProviderGemini:       "gemini-2.0-flash",
	ProviderVertexClaude: "claude-sonnet-4-5@20250929",
}

type Config struct {
	Provider    Provider
	Model       string
	Temperature float64
	MaxTokens   int

	OpenAIKey string
	GroqKey   string
	GeminiKey string

	// Vertex
	ProjectID   string
	Location    string
	Credentials string // base64 service account JSON
}

// New builds the client for cfg.Provider, filling in the default model.
func New(ctx context.Context, cfg Config) (Client, error) {
	if cfg.Model == "" {
		cfg.Model = defaultModels[cfg.Provider]
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		return NewLangChainClient(LangChainConfig{Model: cfg.Model, APIKey: cfg.OpenAIKey, Temperature: cfg.Temperature})
	case ProviderGroq:
		if cfg.GroqKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY must be set for provider %s", cfg.Provider)
		}
		return NewLangChainClient(LangChainConfig{Model: cfg.Model, BaseURL: groqBaseURL, APIKey: cfg.GroqKey, Temperature: cfg.Temperature})
	case ProviderGemini:
		return NewGenaiGeminiClient(ctx, GeminiConfig{
			APIKey:      cfg.GeminiKey,
			Model:       cfg.Model,
			Temperature: float32(cfg.Temperature),
			MaxTokens:   int32(cfg.MaxTokens),
		})
	case ProviderVertexClaude:
		return NewVertexAnthropicClient(ctx, VertexConfig{
			ProjectID:   cfg.ProjectID,
			Location:    cfg.Location,
			Model:       cfg.Model,
			Credentials: cfg.Credentials,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		})
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
