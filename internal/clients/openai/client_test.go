package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/casalabia/realtor-backend/internal/config"
	"github.com/casalabia/realtor-backend/internal/logger"
)

func testAIConfig(baseURL, apiKey string) config.AIConfig {
	return config.AIConfig{
		APIKey:      apiKey,
		BaseURL:     baseURL,
		Model:       "gpt-4o-mini",
		Temperature: 0.7,
		MaxTokens:   2000,
		Timeout:     5 * time.Second,
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(testAIConfig("http://localhost", ""), logger.NewNop()); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestCompleteSandboxSkipsNetwork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("sandbox credentials must not reach the network")
	}))
	defer server.Close()

	c, err := NewClient(testAIConfig(server.URL, SandboxKeyPrefix+"abc"), logger.NewNop())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	got, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "ciao"}}, ResponseFormatJSON)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got.Model != "mock-gpt-4o-mini" {
		t.Errorf("model = %q", got.Model)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(got.Content), &payload); err != nil {
		t.Fatalf("sandbox payload is not JSON: %v", err)
	}
	if _, ok := payload["title"]; !ok {
		t.Error("sandbox payload missing title")
	}
	if got.Usage == nil || got.Usage.TotalTokens != 350 {
		t.Errorf("usage = %+v", got.Usage)
	}
}

func TestCompleteSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-real-key" {
			t.Errorf("authorization = %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_object" {
			t.Errorf("response_format = %+v", req.ResponseFormat)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model": "gpt-4o-mini-2024",
			"choices": []map[string]any{
				{"message": map[string]any{"content": `{"ok":true}`}},
			},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
	defer server.Close()

	c, _ := NewClient(testAIConfig(server.URL, "sk-real-key"), logger.NewNop())
	got, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "ciao"}}, ResponseFormatJSON)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got.Content != `{"ok":true}` {
		t.Errorf("content = %q", got.Content)
	}
	if got.Model != "gpt-4o-mini-2024" {
		t.Errorf("model = %q", got.Model)
	}
	if got.Usage == nil || got.Usage.TotalTokens != 15 {
		t.Errorf("usage = %+v", got.Usage)
	}
}

func TestCompleteErrorKinds(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"server error", http.StatusInternalServerError, ErrUnavailable},
		{"bad request", http.StatusBadRequest, ErrUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			c, _ := NewClient(testAIConfig(server.URL, "sk-real-key"), logger.NewNop())
			_, err := c.Complete(context.Background(), nil, ResponseFormatText)
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCompleteTransportError(t *testing.T) {
	c, _ := NewClient(testAIConfig("http://127.0.0.1:1", "sk-real-key"), logger.NewNop())
	_, err := c.Complete(context.Background(), nil, ResponseFormatText)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestNewRequestIDFormat(t *testing.T) {
	re := regexp.MustCompile(`^ai_\d{13}_[0-9a-z]{9}$`)
	for i := 0; i < 10; i++ {
		id := newRequestID("ai")
		if !re.MatchString(id) {
			t.Fatalf("request id %q does not match format", id)
		}
	}
}
