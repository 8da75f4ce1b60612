// 생성형 AI 서비스 호출 클라이언트 공통 정의
//
// 환경변수:
//   - AI_PROVIDER: openai (기본값) 또는 gemini
//   - AI_API_KEY / OPENAI_API_KEY: 서비스 API 키
//   - AI_MODEL, AI_BASE_URL, AI_TIMEOUT, AI_TEMPERATURE, AI_MAX_TOKENS
//
// 모든 실패는 *GenerationError 로 변환되며 Reason 으로 구분한다.
// 원본 transport 에러 문구는 Err 에만 보관하고 Message 로 노출하지 않는다.

package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/community-watch/backend/internal/config"
)

// SystemPrompt constrains the model to a single JSON object.
const SystemPrompt = "You are a community safety analyst. Analyze incident reports and return ONLY valid JSON with the exact fields: category (string), severity (low/medium/high), entities (object with people, locations, times, organizations arrays), and summary (string). Never include markdown code blocks or explanatory text - only return the JSON object."

var ErrMissingAPIKey = errors.New("missing AI_API_KEY")

// FailureReason - 생성 실패 사유
type FailureReason string

const (
	ReasonAuth                FailureReason = "auth"
	ReasonRateLimited         FailureReason = "rate_limited"
	ReasonUpstreamUnavailable FailureReason = "upstream_unavailable"
	ReasonNetworkOrTimeout    FailureReason = "network_or_timeout"
	ReasonMalformedResponse   FailureReason = "malformed_upstream_response"
	ReasonUnknown             FailureReason = "unknown"
)

// GenerationError carries no retry state; each request is independent.
type GenerationError struct {
	Reason     FailureReason
	StatusCode int
	Message    string
	Err        error
}

func (e *GenerationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("generation failed (%s, status %d): %s", e.Reason, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("generation failed (%s): %s", e.Reason, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// AsGenerationError returns err as a *GenerationError, classifying anything
// else as unknown.
func AsGenerationError(err error) *GenerationError {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr
	}
	return &GenerationError{Reason: ReasonUnknown, Message: "AI service call failed", Err: err}
}

// Generator sends one prompt and returns the raw model text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// NewGenerator picks the backend named by cfg.Provider.
func NewGenerator(ctx context.Context, cfg config.AIConfig) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	switch cfg.Provider {
	case config.ProviderGemini:
		gc, err := NewGeminiClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return gc, nil
	case config.ProviderOpenAI, "":
		return NewOpenAIClient(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported AI_PROVIDER: %s", cfg.Provider)
	}
}

// statusError maps an upstream HTTP status to a failure reason.
func statusError(status int, upstreamMessage string) *GenerationError {
	e := &GenerationError{StatusCode: status}
	switch status {
	case http.StatusUnauthorized:
		e.Reason = ReasonAuth
		e.Message = "AI service authentication failed"
	case http.StatusTooManyRequests:
		e.Reason = ReasonRateLimited
		e.Message = "AI service rate limit exceeded"
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		e.Reason = ReasonUpstreamUnavailable
		e.Message = "AI service is temporarily unavailable"
	default:
		e.Reason = ReasonUnknown
		e.Message = fmt.Sprintf("AI service returned an error (%d)", status)
		if upstreamMessage != "" {
			e.Message = upstreamMessage
		}
	}
	return e
}

func transportError(err error) *GenerationError {
	return &GenerationError{
		Reason:  ReasonNetworkOrTimeout,
		Message: "unable to reach AI service",
		Err:     err,
	}
}

func malformedError(message string) *GenerationError {
	return &GenerationError{Reason: ReasonMalformedResponse, Message: message}
}

func isTransportError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
