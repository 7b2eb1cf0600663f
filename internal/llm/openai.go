package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

const openAIBaseURL = "https://api.openai.com"

type openAIClient struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	maxTokens   int
}

func newOpenAIClient(cfg Config) (*openAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	return &openAIClient{
		httpClient:  newHTTPClient(),
		apiKey:      cfg.APIKey,
		model:       orDefault(cfg.Model, "gpt-4o-mini"),
		baseURL:     strings.TrimRight(orDefault(cfg.BaseURL, openAIBaseURL), "/"),
		temperature: orDefault(cfg.Temperature, 0.7),
		maxTokens:   orDefault(cfg.MaxTokens, 1024),
	}, nil
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (c *openAIClient) Complete(ctx context.Context, req Request) (string, error) {
	messages := make([]map[string]string, 0, 2)
	if req.System != "" {
		messages = append(messages, map[string]string{"role": "system", "content": req.System})
	}
	messages = append(messages, map[string]string{"role": "user", "content": req.Prompt})

	body := map[string]any{
		"model":       c.model,
		"messages":    messages,
		"temperature": c.temperature,
		"max_tokens":  c.maxTokens,
	}

	var resp openAIResponse
	err := postJSON(ctx, c.httpClient, c.baseURL+"/v1/chat/completions", map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}, body, &resp)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("no content in response")
	}
	return resp.Choices[0].Message.Content, nil
}
