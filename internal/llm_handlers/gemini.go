package llmHandlers

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GenaiGeminiClient implements Client for Gemini via Google AI API
type GenaiGeminiClient struct {
	client  *genai.Client
	modelID string

	Temperature float32
	MaxTokens   int32
}

type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int32
}

func NewGenaiGeminiClient(ctx context.Context, cfg GeminiConfig) (*GenaiGeminiClient, error) {
	if cfg.APIKey == "" || cfg.Model == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY and a model must be set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	return &GenaiGeminiClient{
		client:      client,
		modelID:     cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}, nil
}

// toGenaiContents maps roles to user/model and folds system messages into
// the system instruction.
func toGenaiContents(systemMessage string, messages []Message) (string, []*genai.Content) {
	systemParts := []string{}
	if systemMessage != "" {
		systemParts = append(systemParts, systemMessage)
	}
	contents := []*genai.Content{}

	for _, m := range messages {
		if m.Role == RoleSystem {
			systemParts = append(systemParts, m.Content)
			continue
		}
		role := genai.RoleUser
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, genai.Role(role)))
	}

	return strings.Join(systemParts, "\n"), contents
}

func (v *GenaiGeminiClient) Chat(ctx context.Context, systemMessage string, messages []Message) (string, error) {
	system, contents := toGenaiContents(systemMessage, messages)

	genConfig := &genai.GenerateContentConfig{
		Temperature:      &v.Temperature,
		MaxOutputTokens:  v.MaxTokens,
		ResponseMIMEType: "application/json",
	}
	if system != "" {
		genConfig.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	resp, err := v.client.Models.GenerateContent(ctx, v.modelID, contents, genConfig)
	if err != nil {
		return "", fmt.Errorf("gemini GenerateContent: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			sb.WriteString(part.Text)
		}
	}

	return sb.String(), nil
}
