package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/casalabia/realtor-backend/internal/config"
	"github.com/casalabia/realtor-backend/internal/logger"
)

// SandboxKeyPrefix marks credentials that must never reach the network.
// Completions for such keys are served from a fixed canned payload so that
// tests and sandbox deployments are deterministic.
const SandboxKeyPrefix = "sk-test-"

var (
	// ErrRateLimited is returned when the provider answers 429.
	ErrRateLimited = errors.New("llm rate limit exceeded")
	// ErrUnavailable is returned for every other provider-side failure.
	ErrUnavailable = errors.New("llm provider unavailable")
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ResponseFormat string

const (
	ResponseFormatText ResponseFormat = "text"
	ResponseFormatJSON ResponseFormat = "json_object"
)

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type Completion struct {
	Content   string
	Usage     *Usage
	Model     string
	RequestID string
}

// Client submits ordered role-tagged messages and returns the model output.
type Client interface {
	Complete(ctx context.Context, messages []Message, format ResponseFormat) (Completion, error)
}

type client struct {
	log         *logger.Logger
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

func NewClient(cfg config.AIConfig, log *logger.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing OpenAI API key")
	}
	clientLog := log.With("client", "OpenAIClient")
	if strings.HasPrefix(cfg.APIKey, SandboxKeyPrefix) {
		clientLog.Warn("Sandbox credentials configured - completions will use the canned payload")
	}
	return &client{
		log:         clientLog,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("openai http %d: %s", e.StatusCode, e.Body)
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *Usage `json:"usage"`
}

// Complete issues exactly one request. Callers own fallback behavior, so
// transient failures are not retried here.
func (c *client) Complete(ctx context.Context, messages []Message, format ResponseFormat) (Completion, error) {
	requestID := newRequestID("ai")
	start := time.Now()

	if strings.HasPrefix(c.apiKey, SandboxKeyPrefix) {
		return c.sandboxCompletion(requestID, start), nil
	}

	c.log.Info("AI request started", "request_id", requestID, "model", c.model, "message_count", len(messages))

	body := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	if format == ResponseFormatJSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	raw, err := c.post(ctx, "/v1/chat/completions", body)
	if err != nil {
		elapsed := time.Since(start)
		var httpErr *httpError
		if errors.As(err, &httpErr) {
			c.log.Error("OpenAI API error",
				"request_id", requestID, "model", c.model, "elapsed", elapsed,
				"status", httpErr.StatusCode, "body", truncate(httpErr.Body, 500))
			if httpErr.StatusCode == http.StatusTooManyRequests {
				return Completion{RequestID: requestID}, fmt.Errorf("%w: %s", ErrRateLimited, requestID)
			}
			return Completion{RequestID: requestID}, fmt.Errorf("%w: %s", ErrUnavailable, requestID)
		}
		c.log.Error("OpenAI transport error", "request_id", requestID, "model", c.model, "elapsed", elapsed, "error", err)
		return Completion{RequestID: requestID}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Completion{RequestID: requestID}, fmt.Errorf("%w: malformed completion body: %v", ErrUnavailable, err)
	}

	content := ""
	if len(parsed.Choices) > 0 {
		content = parsed.Choices[0].Message.Content
	}

	c.log.Info("AI request completed",
		"request_id", requestID, "model", parsed.Model, "elapsed", time.Since(start), "usage", parsed.Usage)

	return Completion{
		Content:   content,
		Usage:     parsed.Usage,
		Model:     parsed.Model,
		RequestID: requestID,
	}, nil
}

func (c *client) post(ctx context.Context, path string, body any) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &httpError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}

func (c *client) sandboxCompletion(requestID string, start time.Time) Completion {
	c.log.Info("AI sandbox response generated",
		"request_id", requestID, "model", "mock-"+c.model, "elapsed", time.Since(start))
	return Completion{
		Content: sandboxPayload,
		Usage: &Usage{
			PromptTokens:     150,
			CompletionTokens: 200,
			TotalTokens:      350,
		},
		Model:     "mock-" + c.model,
		RequestID: requestID,
	}
}

func newRequestID(prefix string) string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return prefix + "_" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "_" + string(suffix)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
