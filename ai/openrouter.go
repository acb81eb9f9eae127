package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// OpenRouterClient talks to an OpenRouter-compatible chat-completions API.
type OpenRouterClient struct {
	client *resty.Client
}

// NewOpenRouterClient builds a client for baseURL. The timeout bounds the
// whole outbound call, including the model's generation time.
func NewOpenRouterClient(baseURL, apiKey string, timeout time.Duration) *OpenRouterClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Authorization", "Bearer "+apiKey).
		SetTimeout(timeout)
	return &OpenRouterClient{client: client}
}

func (c *OpenRouterClient) Complete(ctx context.Context, req ChatRequest) (string, error) {
	body := map[string]interface{}{
		"model": req.Model,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{"type": "text", "text": req.Prompt},
					{"type": "image_url", "image_url": map[string]string{"url": req.ImageURL}},
				},
			},
		},
		"max_tokens":  req.MaxTokens,
		"temperature": req.Temperature,
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("failed to send chat completion request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("chat completion API returned status %d", resp.StatusCode())
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse chat completion response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in chat completion response")
	}
	return result.Choices[0].Message.Content, nil
}
