package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

const anthropicBaseURL = "https://api.anthropic.com"

type anthropicClient struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	maxTokens   int
}

func newAnthropicClient(cfg Config) (*anthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic API key is required")
	}
	return &anthropicClient{
		httpClient:  newHTTPClient(),
		apiKey:      cfg.APIKey,
		model:       orDefault(cfg.Model, "claude-3-5-haiku-latest"),
		baseURL:     strings.TrimRight(orDefault(cfg.BaseURL, anthropicBaseURL), "/"),
		temperature: orDefault(cfg.Temperature, 0.7),
		maxTokens:   orDefault(cfg.MaxTokens, 1024),
	}, nil
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func (c *anthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	body := map[string]any{
		"model":       c.model,
		"max_tokens":  c.maxTokens,
		"temperature": c.temperature,
		"messages": []map[string]string{
			{"role": "user", "content": req.Prompt},
		},
	}
	if req.System != "" {
		body["system"] = req.System
	}

	var resp anthropicResponse
	err := postJSON(ctx, c.httpClient, c.baseURL+"/v1/messages", map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": "2023-06-01",
	}, body, &resp)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("no content in response")
	}
	return sb.String(), nil
}
