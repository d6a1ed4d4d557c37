package llmHandlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const vertexAnthropicVersion = "vertex-2023-10-16"

// VertexAnthropicClient calls Claude on Vertex AI through rawPredict.
type VertexAnthropicClient struct {
	httpClient  *http.Client
	url         string
	maxTokens   int
	temperature float64
}

type VertexConfig struct {
	ProjectID   string
	Location    string // e.g. "us-east5"
	Model       string // e.g. "claude-sonnet-4-5@20250929"
	Credentials string // base64 service account JSON
	MaxTokens   int
	Temperature float64
}

func NewVertexAnthropicClient(ctx context.Context, cfg VertexConfig) (*VertexAnthropicClient, error) {
	if cfg.Credentials == "" {
		return nil, fmt.Errorf("GCP_SERVICE_ACCOUNT_CREDENTIALS not set")
	}
	if cfg.ProjectID == "" || cfg.Location == "" {
		return nil, fmt.Errorf("vertex project and location must be set")
	}
	saJSON, err := base64.StdEncoding.DecodeString(cfg.Credentials)
	if err != nil {
		return nil, fmt.Errorf("decode sa json: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, saJSON, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return nil, fmt.Errorf("CredentialsFromJSON: %w", err)
	}

	url := fmt.Sprintf(
		"https://%s-aiplatform.googleapis.com/v1/projects/%s/locations/%s/publishers/anthropic/models/%s:rawPredict",
		cfg.Location, cfg.ProjectID, cfg.Location, cfg.Model,
	)
	return newVertexClient(oauth2.NewClient(context.Background(), creds.TokenSource), url, cfg.MaxTokens, cfg.Temperature), nil
}

func newVertexClient(httpClient *http.Client, url string, maxTokens int, temperature float64) *VertexAnthropicClient {
	return &VertexAnthropicClient{
		httpClient:  httpClient,
		url:         url,
		maxTokens:   maxTokens,
		temperature: temperature,
	}
}

type vertexMessage struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

type vertexRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	Messages         []vertexMessage `json:"messages"`
	System           string          `json:"system,omitempty"`
	MaxTokens        int             `json:"max_tokens"`
	Temperature      float64         `json:"temperature"`
	Stream           bool            `json:"stream"`
}

type vertexResponse struct {
	StopReason string `json:"stop_reason"`
	Content    []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (c *VertexAnthropicClient) Chat(ctx context.Context, systemMessage string, messages []Message) (string, error) {
	body := vertexRequest{
		AnthropicVersion: vertexAnthropicVersion,
		System:           systemMessage,
		MaxTokens:        c.maxTokens,
		Temperature:      c.temperature,
	}
	for _, m := range messages {
		// Claude takes the system prompt out of band
		if m.Role == RoleSystem {
			body.System = strings.TrimSpace(body.System + "\n" + m.Content)
			continue
		}
		body.Messages = append(body.Messages, vertexMessage{Role: m.Role, Content: m.Content})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		buf, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("vertex error %d: %s", resp.StatusCode, string(buf))
	}

	var out vertexResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	texts := make([]string, 0, len(out.Content))
	for _, block := range out.Content {
		if block.Type == "text" {
			texts = append(texts, block.Text)
		}
	}
	return strings.Join(texts, "\n\n"), nil
}
