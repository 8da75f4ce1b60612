package model

// errorType values returned in AnalyzeErrorResponse.
const (
	ErrorTypeConfiguration = "CONFIGURATION_ERROR"
	ErrorTypeInvalidReq    = "INVALID_REQUEST"
	ErrorTypeValidation    = "VALIDATION_ERROR"
	ErrorTypeTimeout       = "TIMEOUT_ERROR"
	ErrorTypeQuota         = "QUOTA_ERROR"
	ErrorTypeAuth          = "AUTH_ERROR"
	ErrorTypeAIService     = "AI_SERVICE_ERROR"
	ErrorTypeParse         = "PARSE_ERROR"
	ErrorTypeNetwork       = "NETWORK_ERROR"
	ErrorTypeUnknown       = "UNKNOWN_ERROR"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type PingResponse struct {
	Message string `json:"message"`
}

type RootResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// AnalyzeSuccessResponse - 200
type AnalyzeSuccessResponse struct {
	Success bool            `json:"success"`
	Data    *AnalysisResult `json:"data"`
}

// AnalyzeErrorResponse - 400/500/503
type AnalyzeErrorResponse struct {
	Success       bool            `json:"success"`
	Error         string          `json:"error"`
	ErrorType     string          `json:"errorType"`
	MissingFields []string        `json:"missingFields,omitempty"`
	Fallback      *AnalysisResult `json:"fallback,omitempty"`
}

// HealthResponse - GET /api/analyze-incident
type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
