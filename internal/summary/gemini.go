// Package summary produces a short AI-written overview of a user's tasks.
package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hy4ri/clickup-tui/internal/api"
)

const (
	geminiBaseURL    = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel     = "gemini-2.0-flash"
	geminiMaxRetries = 3
	geminiInitDelay  = 1 * time.Second
)

// ErrNoAPIKey is returned when no Gemini key is configured.
var ErrNoAPIKey = errors.New("gemini api key not set")

// Summarizer turns a flat task list into prose for the given user.
type Summarizer interface {
	Summarize(ctx context.Context, tasks []api.Task, username string) (string, error)
}

// GeminiClient calls the Gemini generateContent endpoint.
type GeminiClient struct {
	apiKey    string
	model     string
	baseURL   string
	initDelay time.Duration
	client    *http.Client
	now       func() time.Time
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

// NewGeminiClient creates a Gemini client. An empty model selects DefaultModel.
func NewGeminiClient(apiKey, model string) *GeminiClient {
	if model == "" {
		model = DefaultModel
	}
	return &GeminiClient{
		apiKey:    apiKey,
		model:     model,
		baseURL:   geminiBaseURL,
		initDelay: geminiInitDelay,
		client:    &http.Client{Timeout: 60 * time.Second},
		now:       time.Now,
	}
}

// Summarize implements Summarizer.
func (c *GeminiClient) Summarize(ctx context.Context, tasks []api.Task, username string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	req := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}},
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: BuildPrompt(tasks, username, c.now())}}},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))

	var lastErr error
	for attempt := 0; attempt < geminiMaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.initDelay << (attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("create request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(httpReq)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("Gemini API error (%d): %s", resp.StatusCode, string(respBody))
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				continue
			}
			return "", lastErr
		}

		var apiResp geminiResponse
		if err := json.Unmarshal(respBody, &apiResp); err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}

		if len(apiResp.Candidates) == 0 {
			return "", fmt.Errorf("empty response candidates")
		}

		var text strings.Builder
		for _, p := range apiResp.Candidates[0].Content.Parts {
			text.WriteString(p.Text)
		}
		out := strings.TrimSpace(text.String())
		if out == "" {
			return "", fmt.Errorf("empty summary (finish reason %q)", apiResp.Candidates[0].FinishReason)
		}
		return out, nil
	}

	return "", fmt.Errorf("max retries (%d) exceeded: %w", geminiMaxRetries, lastErr)
}
