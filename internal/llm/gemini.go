package llm

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

type geminiClient struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	maxTokens   int
}

func newGeminiClient(cfg Config) (*geminiClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	return &geminiClient{
		httpClient:  newHTTPClient(),
		apiKey:      cfg.APIKey,
		model:       orDefault(cfg.Model, "gemini-2.5-flash"),
		baseURL:     strings.TrimRight(orDefault(cfg.BaseURL, geminiBaseURL), "/"),
		temperature: orDefault(cfg.Temperature, 0.7),
		maxTokens:   orDefault(cfg.MaxTokens, 1024),
	}, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

func (c *geminiClient) Complete(ctx context.Context, req Request) (string, error) {
	generation := map[string]any{
		"temperature":     c.temperature,
		"maxOutputTokens": c.maxTokens,
	}
	if req.JSON {
		generation["responseMimeType"] = "application/json"
	}

	body := map[string]any{
		"contents": []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}},
		},
		"generationConfig": generation,
	}
	if req.System != "" {
		body["systemInstruction"] = geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}

	endpoint := c.baseURL + "/v1beta/models/" + url.PathEscape(c.model) + ":generateContent"
	var resp geminiResponse
	err := postJSON(ctx, c.httpClient, endpoint, map[string]string{
		"x-goog-api-key": c.apiKey,
	}, body, &resp)
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 {
		return "", errors.New("no candidates in response")
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return "", errors.New("no content in response")
	}
	return sb.String(), nil
}
