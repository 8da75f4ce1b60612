package client

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/community-watch/backend/internal/config"
	"github.com/rotisserie/eris"
	"google.golang.org/genai"
)

// GeminiClient generates analyses through the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
	gen    *genai.GenerateContentConfig
}

func NewGeminiClient(ctx context.Context, cfg config.AIConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, eris.Wrap(err, "failed to create genai client")
	}

	return &GeminiClient{
		client: client,
		model:  cfg.Model,
		gen: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(SystemPrompt, genai.RoleUser),
			Temperature:       genai.Ptr(cfg.Temperature),
			MaxOutputTokens:   int32(cfg.MaxTokens),
			ResponseMIMEType:  "application/json",
		},
	}, nil
}

func (c *GeminiClient) Model() string {
	return c.model
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	res, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), c.gen)
	if err != nil {
		return "", classifyGeminiError(err)
	}
	if res == nil || len(res.Candidates) == 0 {
		return "", malformedError("AI service returned an invalid response format")
	}
	text := res.Text()
	if strings.TrimSpace(text) == "" {
		return "", malformedError("AI service returned empty content")
	}
	return text, nil
}

// classifyGeminiError applies the same status table as the HTTP backend.
func classifyGeminiError(err error) *GenerationError {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return withCause(statusError(apiErr.Code, apiErr.Message), err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return withCause(statusError(apiErrPtr.Code, apiErrPtr.Message), err)
	}
	if isTransportError(err) {
		return transportError(err)
	}
	return &GenerationError{Reason: ReasonUnknown, Message: "AI service call failed", Err: err}
}

func withCause(e *GenerationError, err error) *GenerationError {
	e.Err = err
	return e
}
