package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/community-watch/backend/internal/model"
)

var ErrIncompleteModelOutput = errors.New("model output is missing required fields")

var (
	// ```json ... ``` or ``` ... ``` wrapping the whole response; the closing
	// fence may be missing when the reply was cut off
	codeFencePattern = regexp.MustCompile("(?s)^```[A-Za-z0-9_-]*[ \\t]*\\r?\\n?(.*?)\\s*(?:```)?$")
	// a fenced JSON object somewhere inside prose
	embeddedFencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
)

// ModelAnalysis is the JSON object the model is asked to produce.
type ModelAnalysis struct {
	Category         string          `json:"category"`
	Severity         modelLevel      `json:"severity"`
	Summary          string          `json:"summary"`
	Entities         *ModelEntities  `json:"entities"`
	SuggestedActions stringList      `json:"suggestedActions"`
	RiskLevel        modelLevel      `json:"riskLevel"`
	Urgency          modelLevel      `json:"urgency"`
	Tags             stringList      `json:"tags"`
	Categorization   json.RawMessage `json:"categorization"`
}

type ModelEntities struct {
	People        stringList `json:"people"`
	Locations     stringList `json:"locations"`
	Times         stringList `json:"times"`
	Organizations stringList `json:"organizations"`
	Other         stringList `json:"other"`
}

// UnmarshalJSON treats any non-object value (an array, a string) as present
// but empty, so the heuristic entities are used unchanged.
func (e *ModelEntities) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		*e = ModelEntities{}
		return nil
	}
	type plain ModelEntities
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = ModelEntities(p)
	return nil
}

// modelLevel is a low/medium/high field as the model sent it. Any non-null,
// non-blank value counts as present; only a string carries a Value, so a
// number or object is later replaced by the fallback level.
type modelLevel struct {
	Value   string
	Present bool
}

func (l *modelLevel) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*l = modelLevel{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if json.Unmarshal(data, &s) == nil {
		l.Value = s
		l.Present = strings.TrimSpace(s) != ""
		return nil
	}
	l.Present = true
	return nil
}

// stringList decodes a JSON array of strings leniently: null and non-string
// items are skipped, a bare string becomes a single item, and null or any
// other value is empty.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = stringList{single}
		return nil
	}

	var items []json.RawMessage
	if json.Unmarshal(data, &items) != nil {
		*l = nil
		return nil
	}
	out := make(stringList, 0, len(items))
	for _, item := range items {
		if bytes.Equal(item, []byte("null")) {
			continue
		}
		var s string
		if json.Unmarshal(item, &s) == nil {
			out = append(out, s)
		}
	}
	*l = out
	return nil
}

// StripCodeFence removes a markdown code fence wrapping the whole response.
func StripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if m := codeFencePattern.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	return trimmed
}

// ParseModelOutput unfences and decodes the model text, then checks that
// category, severity, summary and entities are all present.
func ParseModelOutput(raw string) (*ModelAnalysis, error) {
	cleaned := StripCodeFence(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty response", ErrIncompleteModelOutput)
	}

	var parsed ModelAnalysis
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		m := embeddedFencePattern.FindStringSubmatch(raw)
		if m == nil {
			return nil, fmt.Errorf("failed to decode model output: %w", err)
		}
		parsed = ModelAnalysis{}
		if err := json.Unmarshal([]byte(m[1]), &parsed); err != nil {
			return nil, fmt.Errorf("failed to decode fenced model output: %w", err)
		}
	}

	var missing []string
	if strings.TrimSpace(parsed.Category) == "" {
		missing = append(missing, "category")
	}
	if !parsed.Severity.Present {
		missing = append(missing, "severity")
	}
	if strings.TrimSpace(parsed.Summary) == "" {
		missing = append(missing, "summary")
	}
	if parsed.Entities == nil {
		missing = append(missing, "entities")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrIncompleteModelOutput, strings.Join(missing, ", "))
	}
	return &parsed, nil
}

// NormalizeLevel returns value lowercased when it is low/medium/high,
// otherwise fallback. Matching is case-insensitive, so "HIGH" is kept as
// "high" rather than replaced by the fallback.
func NormalizeLevel(value, fallback string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	if model.IsLevel(v) {
		return v
	}
	return fallback
}

// MergeEntities combines model-reported entities with heuristic ones. Model
// entries come first so a heuristic duplicate is the one dropped.
func MergeEntities(fromModel, heuristic model.ExtractedEntities) model.ExtractedEntities {
	return model.ExtractedEntities{
		People:        UniqueCapped(concat(fromModel.People, heuristic.People), maxListEntities),
		Locations:     UniqueCapped(concat(fromModel.Locations, heuristic.Locations), maxListEntities),
		Times:         UniqueCapped(concat(fromModel.Times, heuristic.Times), maxListEntities),
		Organizations: UniqueCapped(concat(fromModel.Organizations, heuristic.Organizations), maxShortEntities),
		Other:         UniqueCapped(concat(fromModel.Other, heuristic.Other), maxShortEntities),
	}
}

func (e *ModelEntities) toModel() model.ExtractedEntities {
	if e == nil {
		return model.ExtractedEntities{}
	}
	return model.ExtractedEntities{
		People:        e.People,
		Locations:     e.Locations,
		Times:         e.Times,
		Organizations: e.Organizations,
		Other:         e.Other,
	}
}

// BuildResult - 파싱된 모델 출력과 로컬 분석 결과를 합쳐 최종 결과 생성
//
// severity 가 low/medium/high 가 아니면 요청 priority 로 대체하고,
// riskLevel/urgency/categorization 이 없으면 severity 와 로컬 분류로 채운다.
func BuildResult(parsed *ModelAnalysis, in model.IncidentInput, heuristic model.ExtractedEntities, local model.Categorization) model.AnalysisResult {
	severity := NormalizeLevel(parsed.Severity.Value, in.Priority)

	category := strings.TrimSpace(parsed.Category)
	if category == "" {
		category = in.Category
	}

	result := model.AnalysisResult{
		Category:       category,
		Severity:       severity,
		Entities:       MergeEntities(parsed.Entities.toModel(), heuristic),
		Summary:        strings.TrimSpace(parsed.Summary),
		RiskLevel:      NormalizeLevel(parsed.RiskLevel.Value, severity),
		Urgency:        NormalizeLevel(parsed.Urgency.Value, severity),
		Categorization: modelCategorization(parsed.Categorization),
	}
	if len(parsed.SuggestedActions) > 0 {
		result.SuggestedActions = UniqueCapped(parsed.SuggestedActions, maxActions)
	}
	if len(parsed.Tags) > 0 {
		result.Tags = UniqueCapped(parsed.Tags, maxTags)
	}
	if result.Categorization == nil {
		result.Categorization = &local
	}
	return result
}

// modelCategorization keeps a model-supplied categorization only when it is
// well formed.
func modelCategorization(raw json.RawMessage) *model.Categorization {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	var c model.Categorization
	if err := json.Unmarshal(raw, &c); err != nil || strings.TrimSpace(c.PrimaryCategory) == "" {
		return nil
	}
	c.CategoryConfidence = NormalizeLevel(c.CategoryConfidence, ConfidenceMedium)
	if c.RelatedCategories == nil {
		c.RelatedCategories = []string{}
	}
	return &c
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
