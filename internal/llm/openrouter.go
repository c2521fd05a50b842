// Package llm wraps the OpenRouter chat-completions API behind a small
// completion interface. A single attempt with a bounded timeout; failures are
// returned to the caller, which treats them as "no result".
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yuanbopang/subscription-manager/internal/config"
)

// Client completes a prompt, optionally with a base64-encoded image attached
// as multimodal input.
type Client interface {
	Complete(ctx context.Context, prompt, imageB64 string) (string, error)
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type chatContentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type OpenRouterClient struct {
	apiURL     string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenRouterClient builds a client from config. Constructed once at
// process start and injected by reference; never re-instantiated per call.
func NewOpenRouterClient(cfg *config.Config) *OpenRouterClient {
	timeout := cfg.LLMTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenRouterClient{
		apiURL:     cfg.OpenRouterAPIURL,
		apiKey:     cfg.OpenRouterAPIKey,
		model:      cfg.OpenRouterModel,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *OpenRouterClient) Complete(ctx context.Context, prompt, imageB64 string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("openrouter api key not configured")
	}

	var content interface{} = prompt
	if imageB64 != "" {
		content = []chatContentPart{
			{Type: "text", Text: prompt},
			{Type: "image_url", ImageURL: &chatImageURL{URL: "data:image/jpeg;base64," + imageB64}},
		}
	}

	payload, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: content}},
		Temperature: 0.1,
		MaxTokens:   500,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("openrouter: status %d", resp.StatusCode)
	}

	var completion chatResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("openrouter: empty response")
	}
	return completion.Choices[0].Message.Content, nil
}
