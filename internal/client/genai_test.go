package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/community-watch/backend/internal/config"
	"google.golang.org/genai"
)

func TestClassifyGeminiError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureReason
	}{
		{name: "api-401", err: genai.APIError{Code: 401, Message: "API key not valid"}, want: ReasonAuth},
		{name: "api-429", err: genai.APIError{Code: 429, Message: "quota"}, want: ReasonRateLimited},
		{name: "api-503-pointer", err: &genai.APIError{Code: 503}, want: ReasonUpstreamUnavailable},
		{name: "wrapped-api-500", err: fmt.Errorf("call: %w", genai.APIError{Code: 500}), want: ReasonUpstreamUnavailable},
		{name: "api-400", err: genai.APIError{Code: 400, Message: "bad"}, want: ReasonUnknown},
		{name: "deadline", err: context.DeadlineExceeded, want: ReasonNetworkOrTimeout},
		{name: "other", err: errors.New("boom"), want: ReasonUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyGeminiError(tt.err)
			if got.Reason != tt.want {
				t.Fatalf("reason = %q, want %q", got.Reason, tt.want)
			}
			if got.Err == nil {
				t.Fatal("expected original error to be kept")
			}
		})
	}
}

func TestClassifyGeminiErrorKeepsUpstreamMessage(t *testing.T) {
	got := classifyGeminiError(genai.APIError{Code: 400, Message: "model not found"})
	if got.Message != "model not found" {
		t.Fatalf("message = %q", got.Message)
	}
}

func TestGeminiClientGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-2.0-flash:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"category\":\"Crime\"}"}]}}]}`))
	}))
	defer srv.Close()

	gen, err := NewGeminiClient(context.Background(), config.AIConfig{
		APIKey:    "test-key",
		BaseURL:   srv.URL,
		Model:     "gemini-2.0-flash",
		Timeout:   2 * time.Second,
		MaxTokens: 1000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := gen.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"category":"Crime"}` {
		t.Fatalf("unexpected text %q", out)
	}
}

func TestGeminiClientEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	gen, err := NewGeminiClient(context.Background(), config.AIConfig{APIKey: "k", BaseURL: srv.URL, Model: "gemini-2.0-flash"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = gen.Generate(context.Background(), "prompt")
	if got := AsGenerationError(err).Reason; got != ReasonMalformedResponse {
		t.Fatalf("reason = %q, want %q", got, ReasonMalformedResponse)
	}
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	if _, err := NewGeminiClient(context.Background(), config.AIConfig{}); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}
