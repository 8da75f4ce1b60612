package model

import "time"

// ============================================================================
// Report 모델 (클라이언트 로컬 저장소의 신고 데이터)
// ============================================================================

// Report - 브라우저 local storage에 저장된 신고 한 건
type Report struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Priority      string          `json:"priority"`
	Status        string          `json:"status"` // pending, reviewing, resolved
	CreatedAt     time.Time       `json:"createdAt"`
	Location      string          `json:"location,omitempty"`
	ReporterName  string          `json:"reporterName,omitempty"`
	ReporterEmail string          `json:"reporterEmail,omitempty"`
	IncidentDate  string          `json:"incidentDate,omitempty"`
	IncidentTime  string          `json:"incidentTime,omitempty"`
	Analysis      *AnalysisResult `json:"analysis,omitempty"`
}

// ReportFilter - "" 또는 "all"이면 해당 조건은 무시
type ReportFilter struct {
	Category string `json:"category"`
	Location string `json:"location"`
	Severity string `json:"severity"`
	Status   string `json:"status"`
	DateFrom string `json:"dateFrom"` // YYYY-MM-DD
	DateTo   string `json:"dateTo"`   // YYYY-MM-DD
}

// ReportsRequest - metrics/export 공통 요청 본문
type ReportsRequest struct {
	Reports []Report      `json:"reports"`
	Filter  *ReportFilter `json:"filter,omitempty"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

type MonthCount struct {
	Month string `json:"month"` // YYYY-MM
	Count int    `json:"count"`
}

// ReportMetrics - 차트 렌더링용 집계 결과
type ReportMetrics struct {
	TotalIncidents       int             `json:"totalIncidents"`
	FilteredCount        int             `json:"filteredCount"`
	MostCommonCategories []CategoryCount `json:"mostCommonCategories"`
	Trends               []MonthCount    `json:"trends"`
	PriorityDistribution map[string]int  `json:"priorityDistribution"`
	StatusDistribution   map[string]int  `json:"statusDistribution"`
	MostCommonLocations  []LocationCount `json:"mostCommonLocations"`
	AveragePerDay        float64         `json:"averagePerDay"`
	RecentReportsCount   int             `json:"recentReportsCount"`
}

// ReportExport - 다운로드용 JSON 파일 본문
type ReportExport struct {
	ExportDate   time.Time `json:"exportDate"`
	TotalReports int       `json:"totalReports"`
	Reports      []Report  `json:"reports"`
}
