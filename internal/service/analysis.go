// 신고 분석 오케스트레이터
//
// 처리 흐름:
//  1. 설정 확인 (generator 없으면 ErrNotConfigured)
//  2. 입력 검증 + trim/길이 제한
//  3. 로컬 엔티티 추출 + 키워드 분류 (항상 성공)
//  4. 프롬프트 렌더링 후 모델 1회 호출 (재시도 없음)
//  5. 출력 파싱/병합, 실패 시 텍스트 마이닝 결과로 대체
//
// 결과는 Succeeded / Degraded / Failed 중 하나이며,
// 어느 경우든 category, severity, entities, summary 가 채워져 있다.

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/community-watch/backend/internal/analysis"
	"github.com/community-watch/backend/internal/client"
	"github.com/community-watch/backend/internal/model"
	"github.com/community-watch/backend/internal/template"
	"go.uber.org/zap"
)

const (
	maxTitleRunes       = 200
	maxDescriptionRunes = 2000
	maxCategoryRunes    = 200

	defaultGenerationTimeout = 60 * time.Second

	// FailedSummary is returned in the fallback when the model call fails.
	FailedSummary = "Automated analysis is currently unavailable. The incident has been logged and will be reviewed by community safety officers."
	// LimitedSummary fills an empty summary on an otherwise complete result.
	LimitedSummary = "Analysis completed with limited information. The incident has been logged for review."
)

var (
	ErrNotConfigured   = errors.New("AI service is not configured")
	ErrInvalidIncident = errors.New("invalid incident report")
)

// ValidationError lists required fields that were empty after trimming.
type ValidationError struct {
	MissingFields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: missing required fields: %s", ErrInvalidIncident, strings.Join(e.MissingFields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidIncident
}

// Outcome is one of Succeeded, Degraded or Failed.
type Outcome interface {
	outcome()
}

// Succeeded - 모델 출력이 구조 검증을 통과
type Succeeded struct {
	Result model.AnalysisResult
}

// Degraded - 모델은 응답했지만 JSON 으로 쓸 수 없어 텍스트 마이닝으로 대체
type Degraded struct {
	Result model.AnalysisResult
	Reason error
}

// Failed - 모델 호출 자체가 실패, Fallback 은 로컬 분석 결과
type Failed struct {
	Failure  *client.GenerationError
	Fallback model.AnalysisResult
}

func (Succeeded) outcome() {}
func (Degraded) outcome()  {}
func (Failed) outcome()    {}

type AnalysisService struct {
	generator client.Generator
	taxonomy  *analysis.Taxonomy
	timeout   time.Duration
}

// NewAnalysisService accepts a nil generator; Analyze then reports
// ErrNotConfigured.
func NewAnalysisService(generator client.Generator, timeout time.Duration) *AnalysisService {
	if timeout <= 0 {
		timeout = defaultGenerationTimeout
	}
	return &AnalysisService{
		generator: generator,
		taxonomy:  analysis.DefaultTaxonomy(),
		timeout:   timeout,
	}
}

func (s *AnalysisService) IsConfigured() bool {
	return s != nil && s.generator != nil
}

// Analyze runs one analysis. The returned error is ErrNotConfigured or a
// *ValidationError; every other failure is carried by the Outcome.
func (s *AnalysisService) Analyze(ctx context.Context, req model.AnalyzeIncidentRequest) (Outcome, error) {
	if !s.IsConfigured() {
		return nil, ErrNotConfigured
	}

	in, err := Sanitize(req)
	if err != nil {
		return nil, err
	}

	heuristic := analysis.Extract(in.Description, in.Location, in.IncidentDate, in.IncidentTime)
	local := s.taxonomy.Categorize(in.Category, in.Title, in.Description)
	prompt := template.RenderPrompt(in)

	// 클라이언트 연결이 끊겨도 모델 호출은 timeout 까지 계속 진행
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	raw, err := s.generator.Generate(callCtx, prompt)
	if err != nil {
		failure := client.AsGenerationError(err)
		zap.L().Error("analyze: generation failed",
			zap.String("model", s.generator.Model()),
			zap.String("reason", string(failure.Reason)),
			zap.Int("status", failure.StatusCode),
			zap.Error(err),
		)
		return Failed{Failure: failure, Fallback: FallbackResult(in, heuristic, local)}, nil
	}

	parsed, err := analysis.ParseModelOutput(raw)
	if err != nil {
		zap.L().Warn("analyze: model output unusable, mining text",
			zap.String("model", s.generator.Model()),
			zap.Int("length", len(raw)),
			zap.Error(err),
		)
		result := analysis.BuildDegradedResult(raw, in, heuristic, local)
		return Degraded{Result: ensureComplete(result, in, heuristic, local), Reason: err}, nil
	}

	result := analysis.BuildResult(parsed, in, heuristic, local)
	return Succeeded{Result: ensureComplete(result, in, heuristic, local)}, nil
}

// Sanitize trims every field, caps title/description/category and checks
// the required ones. An unknown priority becomes medium.
func Sanitize(req model.AnalyzeIncidentRequest) (model.IncidentInput, error) {
	in := model.IncidentInput{
		Title:        analysis.Truncate(strings.TrimSpace(req.Title), maxTitleRunes),
		Description:  analysis.Truncate(strings.TrimSpace(req.Description), maxDescriptionRunes),
		Category:     analysis.Truncate(strings.TrimSpace(req.Category), maxCategoryRunes),
		Location:     strings.TrimSpace(req.Location),
		Priority:     analysis.NormalizeLevel(req.Priority, model.LevelMedium),
		IncidentDate: strings.TrimSpace(req.IncidentDate),
		IncidentTime: strings.TrimSpace(req.IncidentTime),
	}

	var missing []string
	if in.Title == "" {
		missing = append(missing, "title")
	}
	if in.Description == "" {
		missing = append(missing, "description")
	}
	if in.Category == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return model.IncidentInput{}, &ValidationError{MissingFields: missing}
	}
	return in, nil
}

// FallbackResult is the locally computed analysis sent with a failed call.
func FallbackResult(in model.IncidentInput, heuristic model.ExtractedEntities, local model.Categorization) model.AnalysisResult {
	return model.AnalysisResult{
		Category:       in.Category,
		Severity:       in.Priority,
		Entities:       heuristic,
		Summary:        FailedSummary,
		Categorization: &local,
	}
}

func ensureComplete(result model.AnalysisResult, in model.IncidentInput, heuristic model.ExtractedEntities, local model.Categorization) model.AnalysisResult {
	if strings.TrimSpace(result.Category) != "" && model.IsLevel(result.Severity) && strings.TrimSpace(result.Summary) != "" {
		return result
	}
	zap.L().Warn("analyze: result incomplete after merge, using limited result")
	return model.AnalysisResult{
		Category:       in.Category,
		Severity:       in.Priority,
		Entities:       heuristic,
		Summary:        LimitedSummary,
		Categorization: &local,
	}
}
