package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Request is a single prompt sent to the completion provider.
type Request struct {
	Prompt    string
	System    string
	MaxTokens int
}

// Client is the contract implemented by completion providers.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
	Model() string
}

// AnthropicOptions configures the Anthropic messages API client.
type AnthropicOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// AnthropicClient calls the Anthropic messages API and returns the first
// text block of the response.
type AnthropicClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

const (
	anthropicDefaultTimeout = 30 * time.Second
	anthropicVersion        = "2023-06-01"
	defaultAnthropicModel   = "claude-3-5-sonnet-20241022"
	defaultMaxTokens        = 1024
)

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewAnthropicClient constructs a client for the Anthropic messages API.
func NewAnthropicClient(opts AnthropicOptions) (*AnthropicClient, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("anthropic api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultAnthropicModel
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: anthropicDefaultTimeout}
	}
	return &AnthropicClient{
		apiKey:  strings.TrimSpace(opts.APIKey),
		model:   model,
		baseURL: baseURL,
		client:  client,
	}, nil
}

// Model returns the configured model identifier.
func (c *AnthropicClient) Model() string {
	return c.model
}

// Complete sends the prompt and returns the response text.
func (c *AnthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	payload := anthropicRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    req.System,
		Messages:  []anthropicMessage{{Role: "user", Content: req.Prompt}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("invoke anthropic: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var out anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode anthropic response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		if out.Error != nil && out.Error.Message != "" {
			return "", fmt.Errorf("anthropic status %d: %s", resp.StatusCode, out.Error.Message)
		}
		return "", fmt.Errorf("anthropic status %d", resp.StatusCode)
	}
	for _, block := range out.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return block.Text, nil
		}
	}
	return "", errors.New("anthropic response contained no text")
}

var _ Client = (*AnthropicClient)(nil)
