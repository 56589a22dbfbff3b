package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/semaphore"
)

// Completer is the outbound dependency of the plan endpoint. Tests swap in a
// stub; production uses CompletionClient.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// UpstreamError carries the non-success status and body of a completion call.
// It exists for diagnostic logging only and must never reach an API response.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("completion service returned %d", e.Status)
}

// ClientConfig configures the completion client. BaseURL points at any
// OpenAI-compatible chat endpoint (Groq by default).
type ClientConfig struct {
	APIKey        string
	BaseURL       string
	Model         string
	Timeout       time.Duration
	MaxConcurrent int
	JSONMode      bool
}

// CompletionClient issues one chat-completion call per plan request. Low
// temperature to favor schema compliance over creativity; a weighted
// semaphore caps in-flight upstream calls across the process. No retries:
// a failed call degrades to an empty plan.
type CompletionClient struct {
	apiKey   string
	baseURL  string
	model    string
	jsonMode bool

	httpClient *http.Client
	sem        *semaphore.Weighted
}

func NewClient(cfg ClientConfig) *CompletionClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxConc := int64(cfg.MaxConcurrent)
	if maxConc <= 0 {
		maxConc = 8
	}

	return &CompletionClient{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		jsonMode:   cfg.JSONMode,
		httpClient: &http.Client{Timeout: timeout},
		sem:        semaphore.NewWeighted(maxConc),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the prompt and returns the raw model text. A non-2xx reply
// comes back as *UpstreamError; the caller decides what (not) to surface.
func (c *CompletionClient) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer c.sem.Release(1)

	reqBody := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.2,
	}
	if c.jsonMode {
		reqBody.ResponseFormat = &struct {
			Type string `json:"type"`
		}{Type: "json_object"}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return "", &UpstreamError{Status: res.StatusCode, Body: string(body)}
	}

	var parsed chatResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", nil
	}

	return parsed.Choices[0].Message.Content, nil
}
