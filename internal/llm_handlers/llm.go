package llmHandlers

import (
	"context"
	"fmt"
)

type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

type Message struct {
	Role    MessageRole
	Content string
}

// Client is a single-shot chat completion against one provider.
type Client interface {
	Chat(ctx context.Context, systemMessage string, messages []Message) (string, error)
}

// ServiceError reports that the generation service itself failed: transport,
// non-2xx status, timeout, or an empty answer.
type ServiceError struct {
	Provider Provider
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: generation service failed: %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
