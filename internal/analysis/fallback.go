package analysis

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/community-watch/backend/internal/model"
)

const (
	maxActions      = 5
	maxTags         = 5
	maxKeywordTags  = 3
	maxSummaryRunes = 300
)

const UnavailableSummary = "Unable to generate summary. Incident has been logged and will be reviewed by community safety officers."

var DefaultActions = []string{"Review incident", "Document details", "Follow up as needed"}

var communityTags = []string{"safety", "community", "incident", "report"}

var tagStopWords = map[string]struct{}{
	"that": {}, "this": {}, "with": {}, "from": {},
	"have": {}, "been": {}, "will": {}, "should": {},
}

var (
	actionLinePatterns = compilePatterns([]string{
		`(?i)suggested\s+actions?\s*:\s*([^\n]+)`,
		`(?i)\bactions?\s*:\s*([^\n]+)`,
		`(?i)recommendations?\s*:\s*([^\n]+)`,
	})
	actionSeparator = regexp.MustCompile(`[,\-•]`)
	tagWordPattern  = regexp.MustCompile(`\b\w{4,}\b`)
)

// levelPhrase - 텍스트에 phrases 중 하나가 있으면 level
type levelPhrase struct {
	level   string
	phrases []string
}

var (
	riskPhrases = []levelPhrase{
		{model.LevelHigh, []string{"high risk", "risk: high"}},
		{model.LevelLow, []string{"low risk", "risk: low"}},
		{model.LevelMedium, []string{"medium risk", "risk: medium"}},
	}
	urgencyPhrases = []levelPhrase{
		{model.LevelHigh, []string{"high urgency", "urgent"}},
		{model.LevelLow, []string{"low urgency"}},
		{model.LevelMedium, []string{"medium urgency"}},
	}
)

// ExtractActions reads the first "suggested actions:", "actions:" or
// "recommendations:" line and splits it into items.
func ExtractActions(text string) []string {
	for _, re := range actionLinePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		actions := UniqueCapped(actionSeparator.Split(m[1], -1), maxActions)
		if len(actions) > 0 {
			return actions
		}
	}
	return append([]string(nil), DefaultActions...)
}

// ExtractRiskLevel returns "" when the text names no risk level.
func ExtractRiskLevel(text string) string {
	return matchLevel(text, riskPhrases)
}

// ExtractUrgency returns "" when the text names no urgency.
func ExtractUrgency(text string) string {
	return matchLevel(text, urgencyPhrases)
}

func matchLevel(text string, table []levelPhrase) string {
	lower := strings.ToLower(text)
	for _, entry := range table {
		for _, phrase := range entry.phrases {
			if strings.Contains(lower, phrase) {
				return entry.level
			}
		}
	}
	return ""
}

// ExtractTags - category + 본문 키워드 최대 3개 + 공통 태그, 최대 5개
func ExtractTags(text, category string) []string {
	tags := []string{strings.ToLower(category)}

	seen := make(map[string]struct{})
	keywords := 0
	for _, word := range tagWordPattern.FindAllString(strings.ToLower(text), -1) {
		if keywords == maxKeywordTags {
			break
		}
		if _, stop := tagStopWords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		tags = append(tags, word)
		keywords++
	}

	tags = append(tags, communityTags...)
	return tags[:min(len(tags), maxTags)]
}

// FallbackSummary is the first 300 characters of the model text.
func FallbackSummary(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return UnavailableSummary
	}
	return Truncate(text, maxSummaryRunes)
}

// BuildDegradedResult - 모델 출력이 JSON 으로 쓸 수 없을 때 텍스트에서 최대한 추출
//
// 항상 category, severity, entities, summary 가 채워진 결과를 만든다.
func BuildDegradedResult(raw string, in model.IncidentInput, heuristic model.ExtractedEntities, local model.Categorization) model.AnalysisResult {
	risk := ExtractRiskLevel(raw)
	if risk == "" {
		risk = in.Priority
	}
	urgency := ExtractUrgency(raw)
	if urgency == "" {
		urgency = in.Priority
	}

	return model.AnalysisResult{
		Category:         in.Category,
		Severity:         in.Priority,
		Entities:         heuristic,
		Summary:          FallbackSummary(raw),
		SuggestedActions: ExtractActions(raw),
		RiskLevel:        risk,
		Urgency:          urgency,
		Tags:             ExtractTags(raw, in.Category),
		Categorization:   &local,
	}
}

// Truncate keeps at most limit characters of s.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
