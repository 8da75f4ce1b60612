// OpenAI chat completions API 를 openai-go SDK 로 호출하는 클라이언트 정의
//
// 요청: system(SystemPrompt) + user(분석 프롬프트) 2개 메시지,
// response_format=json_object, max_tokens/temperature 는 설정값 사용
// 재시도는 하지 않는다 (요청당 1회 호출)

package client

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/community-watch/backend/internal/config"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

// OpenAIClient 구조체 정의
type OpenAIClient struct {
	client      openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// OpenAIClient 객체 생성
func NewOpenAIClient(cfg config.AIConfig) *OpenAIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
		option.WithMaxRetries(0),
	}
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &OpenAIClient{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

func (c *OpenAIClient) Model() string {
	return c.model
}

// POST /chat/completions 요청 후 첫 번째 choice 의 content 반환 (동기)
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	// 에러 본문이 JSON 이 아니어도 (프록시 502 등) status 로 분류하기 위해 기록
	status := 0
	recordStatus := option.WithMiddleware(func(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
		res, err := next(req)
		if res != nil {
			status = res.StatusCode
		}
		return res, err
	})

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(float64(c.temperature)),
		MaxTokens:   openai.Int(int64(c.maxTokens)),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}, recordStatus)
	if err != nil {
		return "", classifyOpenAIError(err, status)
	}

	if completion == nil || len(completion.Choices) == 0 {
		return "", malformedError("AI service returned an invalid response format")
	}
	content := completion.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", malformedError("AI service returned empty content")
	}
	return content, nil
}

// classifyOpenAIError - SDK 에러를 GenerationError 로 변환
//
// *openai.Error 와 2xx 가 아닌 응답은 HTTP status 로, transport 에러는
// network_or_timeout 으로, 나머지(응답 디코딩 실패)는 malformed 로 분류한다.
func classifyOpenAIError(err error, status int) *GenerationError {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return withCause(statusError(apiErr.StatusCode, strings.TrimSpace(apiErr.Message)), err)
	}
	if status != 0 && (status < 200 || status >= 300) {
		return withCause(statusError(status, ""), err)
	}
	if isTransportError(err) {
		return transportError(err)
	}
	return &GenerationError{Reason: ReasonMalformedResponse, Message: "AI service returned an invalid response format", Err: err}
}
