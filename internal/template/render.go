// Package template provides analysis prompt rendering.
//
// 지원하는 변수 형식:
//
//	{{incident.title}}, {{incident.category}}, {{incident.description}},
//	{{incident.location}}, {{incident.priority}}, {{incident.date}}, {{incident.time}}
package template

import (
	"strings"

	"github.com/community-watch/backend/internal/model"
)

const notSpecified = "Not specified"

// AnalysisPrompt - 분석 요청용 기본 user 프롬프트
const AnalysisPrompt = `Analyze this community incident report and return ONLY a valid JSON object with these exact fields:
- category: The primary incident category (string)
- severity: The severity level - one of "low", "medium", or "high" (string)
- entities: An object with arrays of extracted entities:
  - people: Array of people mentioned (names, roles, descriptions)
  - locations: Array of locations mentioned (addresses, landmarks, areas)
  - times: Array of times mentioned (specific times, durations, timeframes)
  - organizations: Array of organizations mentioned (optional)
- summary: A concise summary of the incident (2-3 sentences, string)

Incident Details:
Title: {{incident.title}}
Category: {{incident.category}}
Description: {{incident.description}}
Location: {{incident.location}}
Priority: {{incident.priority}}
Date: {{incident.date}}
Time: {{incident.time}}

IMPORTANT: Return ONLY valid JSON. Do not include any text before or after the JSON object.

Required JSON format (example):
{
  "category": "Crime, Safety & Security",
  "severity": "high",
  "entities": {
    "people": ["John Doe", "Officer Smith", "witness"],
    "locations": ["Main Street", "Community Center"],
    "times": ["2:30 PM", "yesterday afternoon"],
    "organizations": ["Police Department"]
  },
  "summary": "Brief 2-3 sentence summary of the incident, key details, and immediate concerns."
}`

// RenderPrompt renders AnalysisPrompt for the incident.
func RenderPrompt(in model.IncidentInput) string {
	return RenderBody(AnalysisPrompt, in)
}

// RenderBody - 템플릿의 변수를 실제 값으로 치환
//
// 비어 있는 선택 항목은 "Not specified" 로 치환된다.
// 치환된 값은 다시 해석되지 않으므로 입력에 포함된 {{...}} 는 그대로 남는다.
func RenderBody(body string, in model.IncidentInput) string {
	priority := in.Priority
	if priority == "" {
		priority = model.LevelMedium
	}

	pairs := []string{
		"{{incident.title}}", in.Title,
		"{{incident.category}}", in.Category,
		"{{incident.description}}", in.Description,
		"{{incident.location}}", orNotSpecified(in.Location),
		"{{incident.priority}}", priority,
		"{{incident.date}}", orNotSpecified(in.IncidentDate),
		"{{incident.time}}", orNotSpecified(in.IncidentTime),
	}
	return strings.NewReplacer(pairs...).Replace(body)
}

func orNotSpecified(v string) string {
	if strings.TrimSpace(v) == "" {
		return notSpecified
	}
	return v
}
