package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SpectraMediaAI/BettyChat/internal/pkg/config"
)

const defaultBaseURL = "https://api.openai.com/v1"

// ErrModelUnavailable wraps any transport or provider failure. Callers treat
// it as non-fatal and fall back to a canned reply.
var ErrModelUnavailable = errors.New("model unavailable")

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	APIKey  string
	Model   string
	BaseURL string

	HTTPClient *http.Client
}

// NewClient builds a client from the injected LLM configuration.
func NewClient(cfg config.LLMConfig) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Model:   cfg.Model,
		BaseURL: base,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Configured reports whether an API key is present. Without one the service
// runs in demo mode and never calls out.
func (c *Client) Configured() bool {
	return c.APIKey != ""
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatCompletion sends a system+user message pair and returns the generated
// reply text.
func (c *Client) ChatCompletion(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("%w: no API key configured", ErrModelUnavailable)
	}

	body, err := json.Marshal(chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status=%d body=%s", ErrModelUnavailable, resp.StatusCode, string(respBody))
	}

	var out chatResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: response carries no choices", ErrModelUnavailable)
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
