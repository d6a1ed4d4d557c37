package llmHandlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVertexChatSendsClaudeRequest(t *testing.T) {
	var got vertexRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"stop_reason":"end_turn","content":[{"type":"text","text":"[{\"shape\":\"circle\"}]"}]}`))
	}))
	defer srv.Close()

	c := newVertexClient(srv.Client(), srv.URL, 512, 0.3)
	answer, err := c.Chat(context.Background(), "draw", []Message{
		{Role: RoleSystem, Content: "json only"},
		{Role: RoleUser, Content: "a sun"},
	})
	require.NoError(t, err)
	assert.Equal(t, `[{"shape":"circle"}]`, answer)

	assert.Equal(t, vertexAnthropicVersion, got.AnthropicVersion)
	assert.Equal(t, "draw\njson only", got.System)
	assert.Equal(t, 512, got.MaxTokens)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, RoleUser, got.Messages[0].Role)
}

func TestVertexChatReportsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newVertexClient(srv.Client(), srv.URL, 512, 0)
	_, err := c.Chat(context.Background(), "", []Message{{Role: RoleUser, Content: "x"}})
	assert.ErrorContains(t, err, "vertex error 429")
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Config{Provider: "carrier-pigeon"})
	assert.ErrorContains(t, err, "unknown provider")

	_, err = New(context.Background(), Config{Provider: ProviderGroq})
	assert.ErrorContains(t, err, "GROQ_API_KEY")

	_, err = New(context.Background(), Config{Provider: ProviderVertexClaude})
	assert.ErrorContains(t, err, "GCP_SERVICE_ACCOUNT_CREDENTIALS")
}

func TestLangChainClientAgainstCompatibleAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"m",
			"choices":[{"index":0,"message":{"role":"assistant","content":"[]"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c, err := NewLangChainClient(LangChainConfig{Model: "m", BaseURL: srv.URL, APIKey: "k"})
	require.NoError(t, err)
	answer, err := c.Chat(context.Background(), "sys", []Message{{Role: RoleUser, Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "[]", answer)
}

func TestServiceErrorUnwraps(t *testing.T) {
	inner := context.DeadlineExceeded
	err := error(&ServiceError{Provider: ProviderOpenAI, Err: inner})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "openai")
}
