package model

// Level values shared by severity, priority, risk level and urgency.
const (
	LevelLow    = "low"
	LevelMedium = "medium"
	LevelHigh   = "high"
)

// AnalyzeIncidentRequest - POST /api/analyze-incident 요청 본문
type AnalyzeIncidentRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Location     string `json:"location,omitempty"`
	Priority     string `json:"priority,omitempty"` // low, medium, high (default medium)
	IncidentDate string `json:"incidentDate,omitempty"`
	IncidentTime string `json:"incidentTime,omitempty"`
}

// IncidentInput - sanitized incident fields used for a single analysis
type IncidentInput struct {
	Title        string
	Description  string
	Category     string
	Location     string
	Priority     string
	IncidentDate string
	IncidentTime string
}

// ExtractedEntities - people, locations, times and organizations found in the report
type ExtractedEntities struct {
	People        []string `json:"people"`
	Locations     []string `json:"locations"`
	Times         []string `json:"times"`
	Organizations []string `json:"organizations"`
	Other         []string `json:"other"`
}

// Categorization - normalized category derived from keywords
type Categorization struct {
	PrimaryCategory    string   `json:"primaryCategory"`
	SubCategory        string   `json:"subCategory,omitempty"`
	CategoryConfidence string   `json:"categoryConfidence"` // high, medium, low
	RelatedCategories  []string `json:"relatedCategories"`
}

// AnalysisResult - analysis returned to the caller
//
// category, severity, entities, summary는 항상 채워진다.
type AnalysisResult struct {
	Category         string            `json:"category"`
	Severity         string            `json:"severity"`
	Entities         ExtractedEntities `json:"entities"`
	Summary          string            `json:"summary"`
	SuggestedActions []string          `json:"suggestedActions,omitempty"`
	RiskLevel        string            `json:"riskLevel,omitempty"`
	Urgency          string            `json:"urgency,omitempty"`
	Tags             []string          `json:"tags,omitempty"`
	Categorization   *Categorization   `json:"categorization,omitempty"`
}

// IsLevel reports whether v is one of low, medium, high.
func IsLevel(v string) bool {
	return v == LevelLow || v == LevelMedium || v == LevelHigh
}
