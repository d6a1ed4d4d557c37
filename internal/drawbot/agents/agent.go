package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"drawing-bot-backend/internal/drawbot/prompts"
	llmHandlers "drawing-bot-backend/internal/llm_handlers"
	"drawing-bot-backend/internal/scene"
)

// Agent turns a prompt into shape descriptors. It implements session.Generator.
type Agent struct {
	llmClient llmHandlers.Client
	provider  llmHandlers.Provider
}

func NewAgent(provider llmHandlers.Provider, client llmHandlers.Client) *Agent {
	return &Agent{
		llmClient: client,
		provider:  provider,
	}
}

// Generate asks the model for drawing commands and decodes them. Every
// failure, including an unreadable answer, comes back as a ServiceError.
func (a *Agent) Generate(ctx context.Context, prompt string) ([]scene.RawDescriptor, error) {
	messages := []llmHandlers.Message{
		{Role: llmHandlers.RoleUser, Content: prompt},
	}

	response, err := a.llmClient.Chat(ctx, prompts.DRAWING_PROMPT, messages)
	if err != nil {
		return nil, a.fail(fmt.Errorf("LLM chat error: %w", err))
	}
	if strings.TrimSpace(response) == "" {
		return nil, a.fail(errors.New("empty response"))
	}

	descriptors, err := scene.ParsePayload(response)
	if err != nil {
		return nil, a.fail(err)
	}
	return descriptors, nil
}

func (a *Agent) fail(err error) error {
	return &llmHandlers.ServiceError{Provider: a.provider, Err: err}
}
